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

// EarthOmega is the default planetary rotation rate [rad/s].
const EarthOmega = 7.292e-5

// Coefficients holds per-latitude-row factors derived from the mesh
// geometry. It is built once by NewCoefficients and must not be
// modified afterward.
type Coefficients struct {
	CosLat    []float64 // cosine of latitude
	TanLat    []float64 // tangent of latitude
	FactorCor []float64 // Coriolis parameter 2Ω sinφ [1/s]
	FactorCur []float64 // curvature factor tanφ / a [1/m]
	FactorLon []float64 // 1/(2 Δλ a cosφ) [1/m]
	FactorLat []float64 // 1/(2 Δφ a cosφ) [1/m]
}

// NewCoefficients computes the coefficients for mesh m with planetary
// rotation rate omega [rad/s]. The mesh must be equidistant along
// both axes.
//
// cos(lat) vanishes at the poles, so the pole values of CosLat are
// replaced by a quarter of the cosine at the adjacent HALF latitude,
// which is the area weight of the polar cap. Every other pole
// coefficient that contains cos(lat) is derived from that value.
func NewCoefficients(m Mesh, omega float64) *Coefficients {
	n := m.NumGrid(Lat, FullGrid)
	js, je := m.Js(FullGrid), m.Je(FullGrid)
	a := m.Domain().Radius()
	dlon := m.GridInterval(Lon, FullGrid, 0)
	dlat := m.GridInterval(Lat, FullGrid, 0)

	c := &Coefficients{
		CosLat:    make([]float64, n),
		TanLat:    make([]float64, n),
		FactorCor: make([]float64, n),
		FactorCur: make([]float64, n),
		FactorLon: make([]float64, n),
		FactorLat: make([]float64, n),
	}
	for j := js + 1; j <= je-1; j++ {
		c.CosLat[j] = m.CosLat(FullGrid, j)
		c.TanLat[j] = m.TanLat(FullGrid, j)
	}
	c.CosLat[js] = m.CosLat(HalfGrid, m.Js(HalfGrid)) * 0.25
	c.CosLat[je] = m.CosLat(HalfGrid, m.Je(HalfGrid)) * 0.25
	c.TanLat[js] = -1 / c.CosLat[js]
	c.TanLat[je] = 1 / c.CosLat[je]

	for j := js; j <= je; j++ {
		c.FactorCor[j] = 2 * omega * m.SinLat(FullGrid, j)
		c.FactorCur[j] = c.TanLat[j] / a
		c.FactorLon[j] = 1 / (2 * dlon * a * c.CosLat[j])
		c.FactorLat[j] = 1 / (2 * dlat * a * c.CosLat[j])
	}
	return c
}
