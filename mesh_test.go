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
	"testing"
)

func TestNewLatLonMesh(t *testing.T) {
	d, err := NewSphereDomain(EarthRadius)
	if err != nil {
		t.Fatal(err)
	}
	m, err := NewLatLonMesh(d, 8, 5)
	if err != nil {
		t.Fatal(err)
	}
	if n := m.NumGrid(Lon, FullGrid); n != 8 {
		t.Errorf("FULL longitudes: have %d, want 8", n)
	}
	if n := m.NumGrid(Lat, FullGrid); n != 5 {
		t.Errorf("FULL latitudes: have %d, want 5", n)
	}
	if n := m.NumGrid(Lat, HalfGrid); n != 4 {
		t.Errorf("HALF latitudes: have %d, want 4", n)
	}
	if m.Lat(FullGrid, 0) != -math.Pi/2 || m.Lat(FullGrid, 4) != math.Pi/2 {
		t.Errorf("poles at %g and %g", m.Lat(FullGrid, 0), m.Lat(FullGrid, 4))
	}
	if m.CosLat(FullGrid, 0) != 0 || m.CosLat(FullGrid, 4) != 0 {
		t.Errorf("cos(lat) at the poles should be zero")
	}
	if m.SinLat(FullGrid, 0) != -1 || m.SinLat(FullGrid, 4) != 1 {
		t.Errorf("sin(lat) at the poles should be -1 and 1")
	}
	if math.Abs(m.Lat(FullGrid, 2)) > 1e-15 {
		t.Errorf("middle latitude should be the equator but is %g", m.Lat(FullGrid, 2))
	}
	if want := math.Pi / 8; different(m.Lon(HalfGrid, 0), want, 1e-15) {
		t.Errorf("first HALF longitude: have %g, want %g", m.Lon(HalfGrid, 0), want)
	}
	if want := -math.Pi/2 + math.Pi/8; different(m.Lat(HalfGrid, 0), want, 1e-15) {
		t.Errorf("first HALF latitude: have %g, want %g", m.Lat(HalfGrid, 0), want)
	}
	if m.Is(FullGrid) != 0 || m.Ie(FullGrid) != 7 || m.Js(FullGrid) != 0 || m.Je(FullGrid) != 4 || m.Je(HalfGrid) != 3 {
		t.Errorf("index ranges: [%d %d] [%d %d] [%d %d]",
			m.Is(FullGrid), m.Ie(FullGrid), m.Js(FullGrid), m.Je(FullGrid), m.Js(HalfGrid), m.Je(HalfGrid))
	}
	for j, want := range []RowKind{PoleSouth, Interior, Interior, Interior, PoleNorth} {
		if k := m.RowKind(j); k != want {
			t.Errorf("row %d: have %v, want %v", j, k, want)
		}
	}
}

func TestLatLonMeshSymmetry(t *testing.T) {
	d, _ := NewSphereDomain(EarthRadius)
	for _, nlat := range []int{5, 64, 91} {
		m, err := NewLatLonMesh(d, 16, nlat)
		if err != nil {
			t.Fatal(err)
		}
		for _, s := range []Stagger{FullGrid, HalfGrid} {
			je := m.Je(s)
			for j := 0; j <= je; j++ {
				k := je - j
				if m.CosLat(s, j) != m.CosLat(s, k) || m.SinLat(s, j) != -m.SinLat(s, k) {
					t.Errorf("%d latitudes, %v rows %d and %d are not mirrored: cos %g/%g sin %g/%g",
						nlat, s, j, k, m.CosLat(s, j), m.CosLat(s, k), m.SinLat(s, j), m.SinLat(s, k))
				}
			}
		}
	}
}

func TestNewLatLonMeshInvalid(t *testing.T) {
	d, err := NewSphereDomain(EarthRadius)
	if err != nil {
		t.Fatal(err)
	}
	for _, test := range []struct {
		name           string
		numLon, numLat int
	}{
		{name: "odd longitudes", numLon: 9, numLat: 5},
		{name: "too few longitudes", numLon: 2, numLat: 5},
		{name: "too few latitudes", numLon: 8, numLat: 2},
	} {
		t.Run(test.name, func(t *testing.T) {
			if _, err := NewLatLonMesh(d, test.numLon, test.numLat); err == nil {
				t.Errorf("expected an error")
			}
		})
	}
	if _, err := NewSphereDomain(0); err == nil {
		t.Errorf("expected an error for zero radius")
	}
}

func TestNewCoefficients(t *testing.T) {
	d, _ := NewSphereDomain(EarthRadius)
	m, err := NewLatLonMesh(d, 128, 64)
	if err != nil {
		t.Fatal(err)
	}
	c := NewCoefficients(m, EarthOmega)
	je := m.Je(FullGrid)
	dlon := m.GridInterval(Lon, FullGrid, 0)
	dlat := m.GridInterval(Lat, FullGrid, 0)

	if want := 0.25 * math.Cos(-math.Pi/2+dlat/2); different(c.CosLat[0], want, 1e-14) {
		t.Errorf("south pole weight: have %g, want %g", c.CosLat[0], want)
	}
	if c.CosLat[0] != c.CosLat[je] {
		t.Errorf("pole weights should be equal: %g != %g", c.CosLat[0], c.CosLat[je])
	}
	if c.TanLat[0] >= 0 || c.TanLat[je] <= 0 {
		t.Errorf("pole tangents have the wrong sign: %g, %g", c.TanLat[0], c.TanLat[je])
	}
	if want := -2 * EarthOmega; different(c.FactorCor[0], want, 1e-14) {
		t.Errorf("south pole Coriolis parameter: have %g, want %g", c.FactorCor[0], want)
	}
	j := 20
	if want := 1 / (2 * dlon * EarthRadius * math.Cos(m.Lat(FullGrid, j))); different(c.FactorLon[j], want, 1e-14) {
		t.Errorf("FactorLon[%d]: have %g, want %g", j, c.FactorLon[j], want)
	}
	if want := math.Tan(m.Lat(FullGrid, j)) / EarthRadius; different(c.FactorCur[j], want, 1e-14) {
		t.Errorf("FactorCur[%d]: have %g, want %g", j, c.FactorCur[j], want)
	}

	// The latitude weights integrate cos(lat) from pole to pole.
	var area float64
	for _, w := range c.CosLat {
		area += w * dlat
	}
	if different(area, 2, 1e-2) {
		t.Errorf("area: have %g, want 2", area)
	}
}

func different(a, b, tolerance float64) bool {
	if 2*math.Abs(a-b)/math.Abs(a+b) > tolerance || math.IsNaN(a) || math.IsNaN(b) {
		return true
	}
	return false
}
