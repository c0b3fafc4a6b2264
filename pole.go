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

import "gonum.org/v1/gonum/floats"

// poleGeopotentialDepthTendency sets the pole rows of dgd from the
// meridional mass flux through the adjacent interior row. The result
// is uniform along each pole row. It must run after the interior
// fluxes are complete.
func (m *Model) poleGeopotentialDepthTendency() {
	c := m.coef
	nx := m.gd.nlon
	n := float64(nx)

	south := floats.Sum(m.gdv.Row(single, m.js+1)[1:nx+1]) * c.FactorLat[m.js] / n
	north := -floats.Sum(m.gdv.Row(single, m.je-1)[1:nx+1]) * c.FactorLat[m.je] / n

	ds, dn := m.dgd.Row(single, m.js), m.dgd.Row(single, m.je)
	for k := 1; k <= nx; k++ {
		ds[k] = south
		dn[k] = north
	}
}

// zeroPoles clears the pole rows of the transient buffers. The
// interior stencils never write them, so they stay zero.
func (m *Model) zeroPoles() {
	for _, f := range []*Field{m.dut, m.dvt, m.dgd, m.gdu, m.gdv, m.fu, m.fv} {
		for _, j := range []int{m.js, m.je} {
			row := f.Row(single, j)
			for k := range row {
				row[k] = 0
			}
		}
	}
}
