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
	"math"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
)

// TotalEnergy returns the area-weighted total energy of level l,
// the sum of ut² + vt² + (gd+ghs)² times the latitude weight.
// The result does not depend on the number of workers.
func (m *Model) TotalEnergy(l TimeLevel) float64 {
	c := m.coef
	nx := m.gd.nlon
	m.sweep(m.js, m.je, func(j int) {
		ut, vt := m.ut.Row(l, j), m.vt.Row(l, j)
		gd, ghs := m.gd.Row(l, j), m.ghs.Row(single, j)
		var s float64
		for k := 1; k <= nx; k++ {
			h := gd[k] + ghs[k]
			s += ut[k]*ut[k] + vt[k]*vt[k] + h*h
		}
		m.rowSum[j] = s * c.CosLat[j]
	})
	return floats.Sum(m.rowSum)
}

// TotalMass returns the area-weighted sum of gd at level l.
func (m *Model) TotalMass(l TimeLevel) float64 {
	c := m.coef
	nx := m.gd.nlon
	m.sweep(m.js, m.je, func(j int) {
		m.rowSum[j] = floats.Sum(m.gd.Row(l, j)[1:nx+1]) * c.CosLat[j]
	})
	return floats.Sum(m.rowSum)
}

// MassDivergence returns the area-weighted sum of the most recently
// computed geopotential depth tendency and the sum of its absolute
// values. The first is zero to rounding when mass is conserved.
func (m *Model) MassDivergence() (sum, abs float64) {
	c := m.coef
	nx := m.gd.nlon
	for j := m.js; j <= m.je; j++ {
		var s, a float64
		for _, d := range m.dgd.Row(single, j)[1 : nx+1] {
			s += d
			a += math.Abs(d)
		}
		sum += s * c.CosLat[j]
		abs += a * c.CosLat[j]
	}
	return sum, abs
}

// checkMass applies the mass check policy to the current dgd.
func (m *Model) checkMass() error {
	if m.massPolicy == MassCheckOff {
		return nil
	}
	sum, abs := m.MassDivergence()
	if math.Abs(sum) <= m.massTol*math.Max(1, abs) {
		return nil
	}
	if m.massPolicy == MassCheckFail {
		return ErrMassDivergence
	}
	m.Log.WithFields(logrus.Fields{
		"sum":       sum,
		"abs_sum":   abs,
		"tolerance": m.massTol,
	}).Warn("barotropic: geopotential depth tendency does not conserve mass")
	return nil
}
