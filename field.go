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

	"github.com/ctessum/sparse"
)

// TimeLevel selects one of the time slots of a double-buffered field.
type TimeLevel int

const (
	// Old is the committed state at the beginning of the step.
	Old TimeLevel = iota
	// Half is the midpoint estimate used to evaluate tendencies.
	Half
	// New is the state being iterated toward at the end of the step.
	New
)

func (l TimeLevel) String() string {
	switch l {
	case Old:
		return "old"
	case Half:
		return "half"
	case New:
		return "new"
	default:
		return fmt.Sprintf("TimeLevel(%d)", int(l))
	}
}

// Parity is the sign a field takes when it is reflected across a pole.
type Parity float64

const (
	// Scalar fields keep their sign across the pole.
	Scalar Parity = 1
	// Vector components change sign across the pole.
	Vector Parity = -1
)

// Field holds a gridded variable on the cell-center placement
// with a one-cell halo on every side. A field either has a single
// level or the three slots Old, Half and New.
type Field struct {
	Name     string
	Units    string
	LongName string
	Parity   Parity

	nlon, nlat int
	levels     []*sparse.DenseArray
}

// NewField creates a field on m. If timeLevels is true the field
// has the Old, Half and New slots.
func NewField(m Mesh, name, units, longName string, p Parity, timeLevels bool) *Field {
	f := &Field{
		Name:     name,
		Units:    units,
		LongName: longName,
		Parity:   p,
		nlon:     m.NumGrid(Lon, FullGrid),
		nlat:     m.NumGrid(Lat, FullGrid),
	}
	n := 1
	if timeLevels {
		n = 3
	}
	f.levels = make([]*sparse.DenseArray, n)
	for i := range f.levels {
		f.levels[i] = sparse.ZerosDense(f.nlat+2, f.nlon+2)
	}
	return f
}

// HasTimeLevels returns whether f is double-buffered.
func (f *Field) HasTimeLevels() bool { return len(f.levels) == 3 }

func (f *Field) level(l TimeLevel) []float64 {
	if len(f.levels) == 1 {
		return f.levels[0].Elements
	}
	return f.levels[l].Elements
}

// index returns the position of (i, j) in the padded storage,
// where i may range from -1 to nlon and j from -1 to nlat.
func (f *Field) index(i, j int) int {
	return (j+1)*(f.nlon+2) + i + 1
}

// At returns the value at longitude index i and latitude index j.
// Single-level fields ignore l.
func (f *Field) At(l TimeLevel, i, j int) float64 {
	return f.level(l)[f.index(i, j)]
}

// Set sets the value at longitude index i and latitude index j.
func (f *Field) Set(l TimeLevel, i, j int, v float64) {
	f.level(l)[f.index(i, j)] = v
}

// Row returns the padded storage of latitude row j. Element i+1 of the
// returned slice holds longitude index i.
func (f *Field) Row(l TimeLevel, j int) []float64 {
	start := f.index(-1, j)
	return f.level(l)[start : start+f.nlon+2]
}

// Array returns the underlying storage of level l.
func (f *Field) Array(l TimeLevel) *sparse.DenseArray {
	if len(f.levels) == 1 {
		return f.levels[0]
	}
	return f.levels[l]
}

// Copy copies level src into level dst, halo included.
func (f *Field) Copy(dst, src TimeLevel) {
	copy(f.level(dst), f.level(src))
}

// swap exchanges the storage of two levels.
func (f *Field) swap(a, b TimeLevel) {
	if len(f.levels) == 1 {
		return
	}
	f.levels[a], f.levels[b] = f.levels[b], f.levels[a]
}

// Grid returns the interior values of level l as a [lat][lon] array.
func (f *Field) Grid(l TimeLevel) [][]float64 {
	o := make([][]float64, f.nlat)
	for j := range o {
		o[j] = make([]float64, f.nlon)
		copy(o[j], f.Row(l, j)[1:f.nlon+1])
	}
	return o
}

// Min returns the minimum interior value of level l.
func (f *Field) Min(l TimeLevel) float64 {
	m := math.Inf(1)
	for j := 0; j < f.nlat; j++ {
		for _, v := range f.Row(l, j)[1 : f.nlon+1] {
			m = math.Min(m, v)
		}
	}
	return m
}

// ApplyBndCond fills the halo of level l: longitudes wrap around
// periodically and the rows beyond the poles are reflected across
// the pole with the field's parity. If updateHalf is true and l is
// New, the Half level is then set to the mean of the Old and New levels.
func (f *Field) ApplyBndCond(l TimeLevel, updateHalf bool) {
	d := f.level(l)
	nx := f.nlon
	for j := 0; j < f.nlat; j++ {
		row := f.Row(l, j)
		row[0] = row[nx]
		row[nx+1] = row[1]
	}
	p := float64(f.Parity)
	south, north := f.Row(l, -1), f.Row(l, f.nlat)
	for i := -1; i <= nx; i++ {
		ii := (i + nx/2 + nx) % nx
		south[i+1] = p * d[f.index(ii, 1)]
		north[i+1] = p * d[f.index(ii, f.nlat-2)]
	}
	if updateHalf && l == New && f.HasTimeLevels() {
		o, h, n := f.level(Old), f.level(Half), f.level(New)
		for i := range h {
			h[i] = 0.5 * (o[i] + n[i])
		}
	}
}
