/*
Copyright © 2019 the Barotropic authors.
This file is part of Barotropic.

Barotropic is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

Barotropic is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with Barotropic.  If not, see <http://www.gnu.org/licenses/>.
*/


package barotropic

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

// StepOnce advances the model by dt seconds with the implicit
// midpoint scheme. The tendencies are evaluated at the half level
// and the iteration stops once the total energy of the new level
// matches that of the old level to within the energy tolerance.
// The new level is left in place; call Commit to make it the old
// level of the next step.
func (m *Model) StepOnce(dt float64) (*StepResult, error) {
	if !(dt > 0) {
		return nil, fmt.Errorf("barotropic: time step must be > 0 but is %g", dt)
	}
	r := new(StepResult)
	if m.firstRun {
		m.seed()
		m.firstRun = false
	}
	r.State = Seeded

	r.Energy0 = m.TotalEnergy(Old)
	r.Mass0 = m.TotalMass(Old)
	m.Log.WithFields(logrus.Fields{
		"energy": r.Energy0,
		"mass":   r.Mass0,
	}).Info("barotropic: starting time step")

	r.State = Iterating
	for iter := 1; iter <= m.maxIter; iter++ {
		r.Iterations = iter

		m.geopotentialDepthTendency(Half)
		if err := m.checkMass(); err != nil {
			return r, err
		}
		m.update(m.gd, m.dgd, dt)
		m.gd.ApplyBndCond(New, true)

		m.sweep(-1, m.gd.nlat, func(j int) {
			gd, gdt := m.gd.Row(New, j), m.gdt.Row(New, j)
			for k := range gdt {
				gdt[k] = math.Sqrt(gd[k])
			}
		})
		m.gdt.ApplyBndCond(New, true)

		m.zonalWindTendency(Half)
		m.meridionalWindTendency(Half)
		m.update(m.ut, m.dut, dt)
		m.update(m.vt, m.dvt, dt)
		m.ut.ApplyBndCond(New, true)
		m.vt.ApplyBndCond(New, true)

		m.Untransform(New)
		m.u.ApplyBndCond(New, true)
		m.v.ApplyBndCond(New, true)

		r.Energy1 = m.TotalEnergy(New)
		r.EnergyBias = math.Abs(r.Energy1-r.Energy0) * 2 / (r.Energy1 + r.Energy0)
		if r.EnergyBias < m.energyTol {
			r.State = Converged
			break
		}
		m.Log.WithFields(logrus.Fields{
			"iteration":   iter,
			"energy_bias": r.EnergyBias,
		}).Debug("barotropic: iterating")
	}
	r.Mass1 = m.TotalMass(New)

	if r.State != Converged {
		r.State = Exhausted
		m.Log.WithFields(logrus.Fields{
			"iterations":  r.Iterations,
			"energy_bias": r.EnergyBias,
		}).Warn("barotropic: iteration limit reached before energy converged")
		if m.strict {
			return r, ErrNotConverged
		}
	}
	return r, nil
}

// update sets f[New] = f[Old] - dt*tend over the grid interior.
func (m *Model) update(f, tend *Field, dt float64) {
	nx := f.nlon
	m.sweep(m.js, m.je, func(j int) {
		o, n, d := f.Row(Old, j), f.Row(New, j), tend.Row(single, j)
		for k := 1; k <= nx; k++ {
			n[k] = o[k] - dt*d[k]
		}
	})
}
