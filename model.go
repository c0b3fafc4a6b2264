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


// Package barotropic integrates the barotropic shallow-water equations
// on a longitude-latitude grid covering the sphere, using an implicit
// midpoint time integrator that conserves total energy.
package barotropic

import (
	"fmt"
	"math"
	"runtime"

	"github.com/ctessum/unit"
	"github.com/sirupsen/logrus"
)

// InitialCondition populates the old level of a model's prognostic
// fields and its surface geopotential.
type InitialCondition interface {
	Populate(m *Model) error
}

// Model holds the grid, the coefficients and the fields of a
// shallow-water simulation. A Model is not safe for concurrent use.
type Model struct {
	// Log receives progress and diagnostic messages.
	Log logrus.FieldLogger

	tm     *TimeManager
	domain Domain
	mesh   Mesh
	coef   *Coefficients
	js, je int

	radius, omega float64
	maxIter       int
	energyTol     float64
	strict        bool
	massPolicy    MassCheckPolicy
	massTol       float64
	workers       int

	// Prognostic and transformed state, with time levels.
	u, v, gd    *Field
	ut, vt, gdt *Field

	ghs *Field

	// Transient buffers.
	dut, dvt, dgd *Field
	gdu, gdv      *Field
	fu, fv        *Field

	rowSum   []float64
	firstRun bool
}

// Option configures a Model.
type Option func(*Model) error

// Radius sets the sphere radius [m].
func Radius(a float64) Option {
	return func(m *Model) error {
		m.radius = a
		return nil
	}
}

// Omega sets the planetary rotation rate [rad/s].
func Omega(omega float64) Option {
	return func(m *Model) error {
		m.omega = omega
		return nil
	}
}

// MaxIterations sets the iteration limit of each time step.
func MaxIterations(n int) Option {
	return func(m *Model) error {
		if n < 1 {
			return fmt.Errorf("barotropic: maximum iterations must be >= 1 but is %d", n)
		}
		m.maxIter = n
		return nil
	}
}

// EnergyTolerance sets the relative energy change below which the
// iteration is considered converged.
func EnergyTolerance(tol float64) Option {
	return func(m *Model) error {
		if !(tol > 0) {
			return fmt.Errorf("barotropic: energy tolerance must be > 0 but is %g", tol)
		}
		m.energyTol = tol
		return nil
	}
}

// StrictConvergence makes StepOnce return ErrNotConverged when the
// iteration limit is reached before convergence.
func StrictConvergence() Option {
	return func(m *Model) error {
		m.strict = true
		return nil
	}
}

// MassCheck sets the mass conservation policy and its relative
// tolerance.
func MassCheck(p MassCheckPolicy, tol float64) Option {
	return func(m *Model) error {
		if !(tol > 0) {
			return fmt.Errorf("barotropic: mass tolerance must be > 0 but is %g", tol)
		}
		m.massPolicy = p
		m.massTol = tol
		return nil
	}
}

// Workers sets the number of goroutines used for row sweeps.
// n <= 0 uses runtime.GOMAXPROCS.
func Workers(n int) Option {
	return func(m *Model) error {
		if n <= 0 {
			n = runtime.GOMAXPROCS(0)
		}
		m.workers = n
		return nil
	}
}

// Logger sets the logger.
func Logger(l logrus.FieldLogger) Option {
	return func(m *Model) error {
		m.Log = l
		return nil
	}
}

// UseDomain sets the domain the mesh is laid out on. By default the
// mesh covers a sphere with the radius set by Radius.
func UseDomain(d Domain) Option {
	return func(m *Model) error {
		m.domain = d
		return nil
	}
}

// Init creates a model with numLon longitudes and numLat latitudes
// on a sphere and allocates its fields.
func Init(tm *TimeManager, numLon, numLat int, opts ...Option) (*Model, error) {
	if tm == nil {
		return nil, fmt.Errorf("barotropic: nil time manager")
	}
	m := &Model{
		Log:        logrus.StandardLogger(),
		tm:         tm,
		radius:     EarthRadius,
		omega:      EarthOmega,
		maxIter:    8,
		energyTol:  5e-15,
		massPolicy: MassCheckWarn,
		massTol:    1e-10,
		workers:    runtime.GOMAXPROCS(0),
		firstRun:   true,
	}
	for _, o := range opts {
		if err := o(m); err != nil {
			return nil, err
		}
	}
	if m.domain == nil {
		d, err := NewSphereDomain(m.radius)
		if err != nil {
			return nil, err
		}
		m.domain = d
	}
	m.radius = m.domain.Radius()
	if !(m.radius > 0) {
		return nil, fmt.Errorf("barotropic: %s radius must be > 0 but is %g", m.domain.Name(), m.radius)
	}
	mesh, err := NewLatLonMesh(m.domain, numLon, numLat)
	if err != nil {
		return nil, err
	}
	m.mesh = mesh
	m.js, m.je = mesh.Js(FullGrid), mesh.Je(FullGrid)
	m.coef = NewCoefficients(mesh, m.omega)

	m.u = NewField(mesh, "u", "m s-1", "zonal wind speed", Vector, true)
	m.v = NewField(mesh, "v", "m s-1", "meridional wind speed", Vector, true)
	m.gd = NewField(mesh, "gd", "m2 s-2", "geopotential depth", Scalar, true)
	m.ghs = NewField(mesh, "ghs", "m2 s-2", "surface geopotential", Scalar, false)
	m.ut = NewField(mesh, "ut", "m2 s-2", "transformed zonal wind", Vector, true)
	m.vt = NewField(mesh, "vt", "m2 s-2", "transformed meridional wind", Vector, true)
	m.gdt = NewField(mesh, "gdt", "m s-1", "square root of geopotential depth", Scalar, true)
	m.dut = NewField(mesh, "dut", "m2 s-3", "zonal wind tendency", Vector, false)
	m.dvt = NewField(mesh, "dvt", "m2 s-3", "meridional wind tendency", Vector, false)
	m.dgd = NewField(mesh, "dgd", "m2 s-3", "geopotential depth tendency", Scalar, false)
	m.gdu = NewField(mesh, "gdu", "m3 s-3", "zonal mass flux", Vector, false)
	m.gdv = NewField(mesh, "gdv", "m3 s-3", "meridional mass flux", Vector, false)
	m.fu = NewField(mesh, "fu", "m3 s-3", "zonal momentum flux", Vector, false)
	m.fv = NewField(mesh, "fv", "m3 s-3", "meridional momentum flux", Vector, false)
	m.zeroPoles()
	m.rowSum = make([]float64, mesh.NumGrid(Lat, FullGrid))

	m.Log.WithFields(logrus.Fields{
		"numLon":  numLon,
		"numLat":  numLat,
		"radius":  m.radius,
		"workers": m.workers,
	}).Info("barotropic: initialized model")
	return m, nil
}

// Mesh returns the model mesh.
func (m *Model) Mesh() Mesh { return m.mesh }

// Domain returns the model domain.
func (m *Model) Domain() Domain { return m.domain }

// Coefficients returns the grid coefficients.
func (m *Model) Coefficients() *Coefficients { return m.coef }

// Omega returns the planetary rotation rate [rad/s].
func (m *Model) Omega() float64 { return m.omega }

// TimeManager returns the model clock.
func (m *Model) TimeManager() *TimeManager { return m.tm }

// ZonalWind returns the zonal wind u [m/s].
func (m *Model) ZonalWind() *Field { return m.u }

// MeridionalWind returns the meridional wind v [m/s].
func (m *Model) MeridionalWind() *Field { return m.v }

// GeopotentialDepth returns the geopotential depth gd [m²/s²].
func (m *Model) GeopotentialDepth() *Field { return m.gd }

// SurfaceGeopotential returns the surface geopotential ghs [m²/s²].
func (m *Model) SurfaceGeopotential() *Field { return m.ghs }

// Commit makes the new level the old level of the next step.
// The half level keeps the last midpoint estimate, which is the
// first guess of the next step.
func (m *Model) Commit() {
	for _, f := range []*Field{m.u, m.v, m.gd, m.ut, m.vt, m.gdt} {
		f.swap(Old, New)
	}
}

// ApplyBndCond fills the halos of the old level of the prognostic
// fields and of the surface geopotential. Initial conditions call it
// after populating the fields.
func (m *Model) ApplyBndCond() {
	for _, f := range []*Field{m.u, m.v, m.gd, m.ghs} {
		f.ApplyBndCond(Old, false)
	}
}

// SetInitialCondition populates the model state from ic.
func (m *Model) SetInitialCondition(ic InitialCondition) error {
	if err := ic.Populate(m); err != nil {
		return err
	}
	m.firstRun = true
	return nil
}

// LoadInput reads u, v, gd and ghs from the NetCDF file at path
// into the old level.
func (m *Model) LoadInput(path string) error {
	r := NewIOManager(m.mesh)
	r.Register(m.u, m.v, m.gd, m.ghs)
	if err := r.Read(path, Old); err != nil {
		return err
	}
	if lo := m.gd.Min(Old); lo < 0 {
		return fmt.Errorf("barotropic: loading input: geopotential depth must be >= 0 but minimum is %g", lo)
	}
	m.ApplyBndCond()
	m.firstRun = true
	return nil
}

// Run integrates the model until the time manager is finished.
// If out is not nil, the initial state and every scheduled output
// time are written to it.
func (m *Model) Run(out *Output) error {
	if out != nil {
		if err := out.Write(m, Old); err != nil {
			return err
		}
	}
	for !m.tm.Finished() {
		r, err := m.StepOnce(m.tm.StepSize())
		if err != nil {
			return fmt.Errorf("barotropic: step %d: %v", m.tm.Step()+1, err)
		}
		m.tm.Advance()
		m.Commit()
		m.Log.WithFields(logrus.Fields{
			"step":       m.tm.Step(),
			"time":       m.tm.Time(),
			"iterations": r.Iterations,
			"state":      r.State,
		}).Info("barotropic: completed time step")
		if out != nil && out.Due(m.tm.Step()) {
			if err := out.Write(m, Old); err != nil {
				return err
			}
		}
	}
	return nil
}

// CourantNumber returns the largest advective Courant number over
// the grid interior for time step dt [s] at the old level.
func (m *Model) CourantNumber(dt float64) (float64, error) {
	radius := unit.New(m.radius, unit.Meter)
	step := unit.New(dt, unit.Second)
	dlon := unit.New(m.mesh.GridInterval(Lon, FullGrid, 0), unit.Dimless)
	dlat := unit.New(m.mesh.GridInterval(Lat, FullGrid, 0), unit.Dimless)
	dy := unit.Mul(radius, dlat)
	nx := m.gd.nlon
	var cn float64
	for j := m.js + 1; j <= m.je-1; j++ {
		var umax, vmax float64
		u, v := m.u.Row(Old, j), m.v.Row(Old, j)
		for k := 1; k <= nx; k++ {
			umax = math.Max(umax, math.Abs(u[k]))
			vmax = math.Max(vmax, math.Abs(v[k]))
		}
		dx := unit.Mul(radius, unit.New(m.coef.CosLat[j], unit.Dimless), dlon)
		cu, err := courant(unit.New(umax, unit.MeterPerSecond), step, dx)
		if err != nil {
			return math.NaN(), err
		}
		cv, err := courant(unit.New(vmax, unit.MeterPerSecond), step, dy)
		if err != nil {
			return math.NaN(), err
		}
		cn = math.Max(cn, math.Max(cu, cv))
	}
	return cn, nil
}

// courant returns speed·dt/spacing, which must be dimensionless.
func courant(speed, dt, spacing *unit.Unit) (float64, error) {
	c := unit.Div(unit.Mul(speed, dt), spacing)
	if err := c.Check(unit.Dimless); err != nil {
		return math.NaN(), fmt.Errorf("barotropic: Courant number: %v", err)
	}
	return c.Value(), nil
}
