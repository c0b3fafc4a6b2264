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
)

// EarthRadius is the default sphere radius [m].
const EarthRadius = 6.371e6

// Domain describes the geometric domain a mesh is laid out on.
type Domain interface {
	// Name returns a short description of the domain type.
	Name() string

	// Radius returns the radius of curvature of the domain [m].
	Radius() float64
}

// SphereDomain is a spherical domain.
type SphereDomain struct {
	radius float64
}

// NewSphereDomain returns a sphere with the given radius [m].
func NewSphereDomain(radius float64) (*SphereDomain, error) {
	if !(radius > 0) {
		return nil, fmt.Errorf("barotropic: sphere radius must be > 0 but is %g", radius)
	}
	return &SphereDomain{radius: radius}, nil
}

// Name implements Domain.
func (s *SphereDomain) Name() string { return "sphere" }

// Radius implements Domain.
func (s *SphereDomain) Radius() float64 { return s.radius }

// Stagger specifies where along an axis a quantity is sampled.
type Stagger int

const (
	// FullGrid is the cell-center placement.
	FullGrid Stagger = iota
	// HalfGrid is the cell-edge placement.
	HalfGrid
)

func (s Stagger) String() string {
	switch s {
	case FullGrid:
		return "FULL"
	case HalfGrid:
		return "HALF"
	default:
		return fmt.Sprintf("Stagger(%d)", int(s))
	}
}

// Axis indices.
const (
	Lon = 0
	Lat = 1
)

// RowKind classifies a latitude row of the FULL grid.
type RowKind int

const (
	// Interior rows are strictly between the poles.
	Interior RowKind = iota
	// PoleSouth is the first FULL latitude row.
	PoleSouth
	// PoleNorth is the last FULL latitude row.
	PoleNorth
)

func (k RowKind) String() string {
	switch k {
	case Interior:
		return "interior"
	case PoleSouth:
		return "south pole"
	case PoleNorth:
		return "north pole"
	default:
		return fmt.Sprintf("RowKind(%d)", int(k))
	}
}

// Mesh is a structured longitude-latitude mesh.
type Mesh interface {
	// Domain returns the domain the mesh is laid out on.
	Domain() Domain

	// NumGrid returns the number of grid points along axis
	// for the given placement.
	NumGrid(axis int, s Stagger) int

	// GridInterval returns the grid spacing [radians] along axis
	// between point i and i+1.
	GridInterval(axis int, s Stagger, i int) float64

	// Is, Ie, Js and Je return the inclusive index ranges.
	Is(s Stagger) int
	Ie(s Stagger) int
	Js(s Stagger) int
	Je(s Stagger) int

	// Lon and Lat return grid coordinates [radians].
	Lon(s Stagger, i int) float64
	Lat(s Stagger, j int) float64

	CosLat(s Stagger, j int) float64
	SinLat(s Stagger, j int) float64
	TanLat(s Stagger, j int) float64

	// RowKind classifies FULL latitude row j.
	RowKind(j int) RowKind
}

// LatLonMesh is an equidistant longitude-latitude mesh with
// the poles on the FULL latitude grid.
type LatLonMesh struct {
	domain     Domain
	numLon     int
	numLat     int
	dlon, dlat float64

	lon  [2][]float64
	lat  [2][]float64
	cosL [2][]float64
	sinL [2][]float64
	tanL [2][]float64
}

// NewLatLonMesh creates a mesh with numLon longitudes and numLat
// latitudes (including both poles).
func NewLatLonMesh(d Domain, numLon, numLat int) (*LatLonMesh, error) {
	if numLon < 4 || numLon%2 != 0 {
		return nil, fmt.Errorf("barotropic: number of longitudes must be even and >= 4 but is %d", numLon)
	}
	if numLat < 3 {
		return nil, fmt.Errorf("barotropic: number of latitudes must be >= 3 but is %d", numLat)
	}
	m := &LatLonMesh{
		domain: d,
		numLon: numLon,
		numLat: numLat,
		dlon:   2 * math.Pi / float64(numLon),
		dlat:   math.Pi / float64(numLat-1),
	}
	for _, s := range []Stagger{FullGrid, HalfGrid} {
		shift := 0.
		nlat := numLat
		if s == HalfGrid {
			shift = 0.5
			nlat = numLat - 1
		}
		m.lon[s] = make([]float64, numLon)
		for i := range m.lon[s] {
			m.lon[s][i] = (float64(i) + shift) * m.dlon
		}
		m.lat[s] = make([]float64, nlat)
		m.cosL[s] = make([]float64, nlat)
		m.sinL[s] = make([]float64, nlat)
		m.tanL[s] = make([]float64, nlat)
		for j := range m.lat[s] {
			// The northern half mirrors the southern half exactly.
			if k := nlat - 1 - j; k < j {
				m.lat[s][j] = -m.lat[s][k]
				m.sinL[s][j], m.cosL[s][j] = -m.sinL[s][k], m.cosL[s][k]
				m.tanL[s][j] = -m.tanL[s][k]
				continue
			}
			φ := -math.Pi/2 + (float64(j)+shift)*m.dlat
			m.lat[s][j] = φ
			m.sinL[s][j], m.cosL[s][j] = math.Sincos(φ)
			m.tanL[s][j] = math.Tan(φ)
		}
	}
	// Make the pole values exact.
	m.lat[FullGrid][0], m.lat[FullGrid][numLat-1] = -math.Pi/2, math.Pi/2
	m.sinL[FullGrid][0], m.sinL[FullGrid][numLat-1] = -1, 1
	m.cosL[FullGrid][0], m.cosL[FullGrid][numLat-1] = 0, 0
	m.tanL[FullGrid][0], m.tanL[FullGrid][numLat-1] = math.Inf(-1), math.Inf(1)
	return m, nil
}

// Domain implements Mesh.
func (m *LatLonMesh) Domain() Domain { return m.domain }

// NumGrid implements Mesh.
func (m *LatLonMesh) NumGrid(axis int, s Stagger) int {
	if axis == Lon {
		return m.numLon
	}
	return len(m.lat[s])
}

// GridInterval implements Mesh. The mesh is equidistant, so i is ignored.
func (m *LatLonMesh) GridInterval(axis int, s Stagger, i int) float64 {
	if axis == Lon {
		return m.dlon
	}
	return m.dlat
}

// Is implements Mesh.
func (m *LatLonMesh) Is(s Stagger) int { return 0 }

// Ie implements Mesh.
func (m *LatLonMesh) Ie(s Stagger) int { return m.numLon - 1 }

// Js implements Mesh.
func (m *LatLonMesh) Js(s Stagger) int { return 0 }

// Je implements Mesh.
func (m *LatLonMesh) Je(s Stagger) int { return len(m.lat[s]) - 1 }

// Lon implements Mesh.
func (m *LatLonMesh) Lon(s Stagger, i int) float64 { return m.lon[s][i] }

// Lat implements Mesh.
func (m *LatLonMesh) Lat(s Stagger, j int) float64 { return m.lat[s][j] }

// CosLat implements Mesh.
func (m *LatLonMesh) CosLat(s Stagger, j int) float64 { return m.cosL[s][j] }

// SinLat implements Mesh.
func (m *LatLonMesh) SinLat(s Stagger, j int) float64 { return m.sinL[s][j] }

// TanLat implements Mesh.
func (m *LatLonMesh) TanLat(s Stagger, j int) float64 { return m.tanL[s][j] }

// RowKind implements Mesh.
func (m *LatLonMesh) RowKind(j int) RowKind {
	switch j {
	case 0:
		return PoleSouth
	case m.numLat - 1:
		return PoleNorth
	default:
		return Interior
	}
}
