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


// Package rossbyhaurwitz provides the Rossby-Haurwitz wave initial
// condition for the barotropic model. The wave is a steady-state
// solution of the nondivergent barotropic vorticity equation and moves
// eastward without change of shape in that system, which makes it a
// standard test of shallow-water models on the sphere.
package rossbyhaurwitz

import (
	"fmt"
	"math"

	"github.com/spatialmodel/barotropic"
)

// Gravity is the acceleration of gravity [m/s²].
const Gravity = 9.80616

// TestCase holds the wave parameters.
type TestCase struct {
	// R is the zonal wave number.
	R float64

	// Omega is the angular velocity of the wave [rad/s].
	Omega float64

	// Phi0 is the reference geopotential depth [m²/s²].
	Phi0 float64
}

// New returns the standard wave 4 test case with a reference depth
// of 8 km.
func New() *TestCase {
	return &TestCase{
		R:     4,
		Omega: 3.924e-6,
		Phi0:  Gravity * 8e3,
	}
}

// Populate implements barotropic.InitialCondition by setting the old
// level of the wind and geopotential depth fields of m. The surface
// geopotential is set to zero.
func (tc *TestCase) Populate(m *barotropic.Model) error {
	if _, ok := m.Domain().(*barotropic.SphereDomain); !ok {
		return &barotropic.DomainMismatchError{Want: "sphere", Got: m.Domain().Name()}
	}
	mesh := m.Mesh()
	u, v := m.ZonalWind(), m.MeridionalWind()
	gd, ghs := m.GeopotentialDepth(), m.SurfaceGeopotential()

	a := m.Domain().Radius()
	Ω := m.Omega()
	R := tc.R
	ω := tc.Omega
	R2 := R * R
	rp1 := R + 1
	rp2 := R + 2
	ω2 := ω * ω
	js, je := mesh.Js(barotropic.FullGrid), mesh.Je(barotropic.FullGrid)
	is, ie := mesh.Is(barotropic.FullGrid), mesh.Ie(barotropic.FullGrid)

	for j := js + 1; j <= je-1; j++ {
		cosLat := mesh.CosLat(barotropic.FullGrid, j)
		sinLat := mesh.SinLat(barotropic.FullGrid, j)
		cosLat2 := cosLat * cosLat
		cosLatR := math.Pow(cosLat, R)
		cosLatR2 := cosLatR * cosLatR

		A := (ω*Ω+0.5*ω2)*cosLat2 + 0.25*ω2*cosLatR2*(rp1*cosLat2+(2*R2-R-2)-2*R2/cosLat2)
		B := 2 * (ω*Ω + ω2) * cosLatR * ((R2 + 2*R + 2) - rp1*rp1*cosLat2) / rp1 / rp2
		C := 0.25 * ω2 * cosLatR2 * (rp1*cosLat2 - rp2)

		for i := is; i <= ie; i++ {
			lon := mesh.Lon(barotropic.FullGrid, i)
			cosRLon := math.Cos(R * lon)
			uu := cosLat + cosLatR/cosLat*sinLat*sinLat*cosRLon*R - cosLatR*cosLat*cosRLon
			u.Set(barotropic.Old, i, j, uu*a*ω)
			v.Set(barotropic.Old, i, j, -a*ω*R*cosLatR/cosLat*sinLat*math.Sin(R*lon))
			gd.Set(barotropic.Old, i, j, tc.Phi0+a*a*(A+B*cosRLon+C*math.Cos(2*R*lon)))
			ghs.Set(barotropic.Old, i, j, 0)
		}
	}
	for _, j := range []int{js, je} {
		for i := is; i <= ie; i++ {
			u.Set(barotropic.Old, i, j, 0)
			v.Set(barotropic.Old, i, j, 0)
			gd.Set(barotropic.Old, i, j, tc.Phi0)
			ghs.Set(barotropic.Old, i, j, 0)
		}
	}
	if lo := gd.Min(barotropic.Old); !(lo > 0) {
		return fmt.Errorf("rossbyhaurwitz: geopotential depth must be > 0 but minimum is %g", lo)
	}
	m.ApplyBndCond()
	return nil
}

func (tc *TestCase) String() string {
	return fmt.Sprintf("Rossby-Haurwitz wave (R=%g, ω=%g, Φ0=%g)", tc.R, tc.Omega, tc.Phi0)
}
