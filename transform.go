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

import "math"

// Transform computes the square-root transformed state at level l:
// gdt = sqrt(gd), ut = u*gdt and vt = v*gdt, halo included.
// gd must be non-negative.
func (m *Model) Transform(l TimeLevel) {
	m.sweep(-1, m.gd.nlat, func(j int) {
		u, v, gd := m.u.Row(l, j), m.v.Row(l, j), m.gd.Row(l, j)
		ut, vt, gdt := m.ut.Row(l, j), m.vt.Row(l, j), m.gdt.Row(l, j)
		for k := range gdt {
			gdt[k] = math.Sqrt(gd[k])
			ut[k] = u[k] * gdt[k]
			vt[k] = v[k] * gdt[k]
		}
	})
}

// Untransform recovers the wind components at level l from the
// transformed state: u = ut/gdt and v = vt/gdt. Only the grid interior
// is written; the caller applies the boundary conditions.
func (m *Model) Untransform(l TimeLevel) {
	nx := m.gd.nlon
	m.sweep(m.js, m.je, func(j int) {
		u, v := m.u.Row(l, j), m.v.Row(l, j)
		ut, vt, gdt := m.ut.Row(l, j), m.vt.Row(l, j), m.gdt.Row(l, j)
		for k := 1; k <= nx; k++ {
			u[k] = ut[k] / gdt[k]
			v[k] = vt[k] / gdt[k]
		}
	})
}

// seed initializes the half level from the old level before the
// first step.
func (m *Model) seed() {
	for _, f := range []*Field{m.u, m.v, m.gd} {
		f.Copy(Half, Old)
	}
	m.Transform(Old)
	for _, f := range []*Field{m.ut, m.vt, m.gdt} {
		f.Copy(Half, Old)
	}
}
