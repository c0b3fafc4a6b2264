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

// single is the level argument passed to single-level fields, which
// ignore it.
const single = Old

// geopotentialDepthTendency computes dgd from the level l state,
// pole rows included.
func (m *Model) geopotentialDepthTendency(l TimeLevel) {
	c := m.coef
	nx := m.gd.nlon
	m.sweep(m.js+1, m.je-1, func(j int) {
		ut, vt, gdt := m.ut.Row(l, j), m.vt.Row(l, j), m.gdt.Row(l, j)
		gdu, gdv := m.gdu.Row(single, j), m.gdv.Row(single, j)
		for k := range gdu {
			gdu[k] = ut[k] * gdt[k]
			gdv[k] = vt[k] * gdt[k] * c.CosLat[j]
		}
	})
	m.sweep(m.js+1, m.je-1, func(j int) {
		gdu := m.gdu.Row(single, j)
		gdvS, gdvN := m.gdv.Row(single, j-1), m.gdv.Row(single, j+1)
		dgd := m.dgd.Row(single, j)
		for k := 1; k <= nx; k++ {
			dgd[k] = (gdu[k+1]-gdu[k-1])*c.FactorLon[j] + (gdvN[k]-gdvS[k])*c.FactorLat[j]
		}
	})
	m.poleGeopotentialDepthTendency()
}

// zonalWindTendency computes dut from the level l state.
func (m *Model) zonalWindTendency(l TimeLevel) {
	m.advection(l, m.ut, m.dut)
	m.zonalCoriolis(l)
	m.zonalPressureGradient(l)
}

// meridionalWindTendency computes dvt from the level l state.
func (m *Model) meridionalWindTendency(l TimeLevel) {
	m.advection(l, m.vt, m.dvt)
	m.meridionalCoriolis(l)
	m.meridionalPressureGradient(l)
}

// advection sets dq to the advective tendency of the transformed
// wind component q, written in the mixed flux and advective form
// that makes it energy neutral.
func (m *Model) advection(l TimeLevel, q, dq *Field) {
	c := m.coef
	nx := m.gd.nlon
	m.sweep(m.js+1, m.je-1, func(j int) {
		qr, u, v := q.Row(l, j), m.u.Row(l, j), m.v.Row(l, j)
		fu, fv := m.fu.Row(single, j), m.fv.Row(single, j)
		for k := range fu {
			fu[k] = qr[k] * u[k]
			fv[k] = qr[k] * v[k] * c.CosLat[j]
		}
	})
	m.sweep(m.js+1, m.je-1, func(j int) {
		qr, qS, qN := q.Row(l, j), q.Row(l, j-1), q.Row(l, j+1)
		u, v := m.u.Row(l, j), m.v.Row(l, j)
		fu := m.fu.Row(single, j)
		fvS, fvN := m.fv.Row(single, j-1), m.fv.Row(single, j+1)
		d := dq.Row(single, j)
		for k := 1; k <= nx; k++ {
			dx1 := fu[k+1] - fu[k-1]
			dy1 := fvN[k] - fvS[k]
			dx2 := u[k] * (qr[k+1] - qr[k-1])
			dy2 := v[k] * (qN[k] - qS[k]) * c.CosLat[j]
			d[k] = 0.5 * ((dx1+dx2)*c.FactorLon[j] + (dy1+dy2)*c.FactorLat[j])
		}
	})
}

func (m *Model) zonalCoriolis(l TimeLevel) {
	c := m.coef
	nx := m.gd.nlon
	m.sweep(m.js+1, m.je-1, func(j int) {
		u, vt := m.u.Row(l, j), m.vt.Row(l, j)
		d := m.dut.Row(single, j)
		for k := 1; k <= nx; k++ {
			f := c.FactorCor[j] + u[k]*c.FactorCur[j]
			d[k] -= f * vt[k]
		}
	})
}

func (m *Model) meridionalCoriolis(l TimeLevel) {
	c := m.coef
	nx := m.gd.nlon
	m.sweep(m.js+1, m.je-1, func(j int) {
		u, ut := m.u.Row(l, j), m.ut.Row(l, j)
		d := m.dvt.Row(single, j)
		for k := 1; k <= nx; k++ {
			f := c.FactorCor[j] + u[k]*c.FactorCur[j]
			d[k] += f * ut[k]
		}
	})
}

func (m *Model) zonalPressureGradient(l TimeLevel) {
	c := m.coef
	nx := m.gd.nlon
	m.sweep(m.js+1, m.je-1, func(j int) {
		gd, gdt, ghs := m.gd.Row(l, j), m.gdt.Row(l, j), m.ghs.Row(single, j)
		d := m.dut.Row(single, j)
		for k := 1; k <= nx; k++ {
			dx := gd[k+1] - gd[k-1] + ghs[k+1] - ghs[k-1]
			d[k] += dx * c.FactorLon[j] * gdt[k]
		}
	})
}

func (m *Model) meridionalPressureGradient(l TimeLevel) {
	c := m.coef
	nx := m.gd.nlon
	m.sweep(m.js+1, m.je-1, func(j int) {
		gdS, gdN := m.gd.Row(l, j-1), m.gd.Row(l, j+1)
		ghsS, ghsN := m.ghs.Row(single, j-1), m.ghs.Row(single, j+1)
		gdt := m.gdt.Row(l, j)
		d := m.dvt.Row(single, j)
		for k := 1; k <= nx; k++ {
			dy := gdN[k] - gdS[k] + ghsN[k] - ghsS[k]
			d[k] += dy * c.FactorLat[j] * c.CosLat[j] * gdt[k]
		}
	})
}
