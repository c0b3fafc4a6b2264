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
	"io/ioutil"
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.Out = ioutil.Discard
	return l
}

// smoothModel returns a model holding a smooth, positive-depth state
// that is not a steady solution.
func smoothModel(t *testing.T, numLon, numLat int, opts ...Option) *Model {
	tm, err := NewTimeManager(time.Time{}, time.Minute, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	m, err := Init(tm, numLon, numLat, append(opts, Logger(quietLogger()))...)
	if err != nil {
		t.Fatal(err)
	}
	mesh := m.Mesh()
	for j := 1; j < numLat-1; j++ {
		φ := mesh.Lat(FullGrid, j)
		for i := 0; i < numLon; i++ {
			λ := mesh.Lon(FullGrid, i)
			m.u.Set(Old, i, j, 20*math.Cos(φ)+5*math.Sin(2*λ)*math.Cos(φ))
			m.v.Set(Old, i, j, 3*math.Cos(λ)*math.Cos(φ))
			m.gd.Set(Old, i, j, 5e4+2e3*math.Sin(φ)*math.Cos(λ))
			m.ghs.Set(Old, i, j, 100*math.Cos(φ)*math.Cos(φ))
		}
	}
	for _, j := range []int{0, numLat - 1} {
		for i := 0; i < numLon; i++ {
			m.gd.Set(Old, i, j, 5e4)
		}
	}
	m.ApplyBndCond()
	return m
}

func TestTransformRoundTrip(t *testing.T) {
	m := smoothModel(t, 16, 9)
	wantU, wantV := m.u.Grid(Old), m.v.Grid(Old)
	m.Transform(Old)
	for j := -1; j <= 9; j++ {
		for i := -1; i <= 16; i++ {
			if have, want := m.gdt.At(Old, i, j)*m.gdt.At(Old, i, j), m.gd.At(Old, i, j); different(have, want, 1e-14) {
				t.Fatalf("gdt² at (%d, %d): have %g, want %g", i, j, have, want)
			}
		}
	}
	m.Untransform(Old)
	approx := cmpopts.EquateApprox(1e-14, 0)
	if diff := cmp.Diff(wantU, m.u.Grid(Old), approx); diff != "" {
		t.Errorf("u round trip (-want +have):\n%s", diff)
	}
	if diff := cmp.Diff(wantV, m.v.Grid(Old), approx); diff != "" {
		t.Errorf("v round trip (-want +have):\n%s", diff)
	}
}

func TestSeed(t *testing.T) {
	m := smoothModel(t, 16, 9)
	m.seed()
	for _, f := range []*Field{m.u, m.v, m.gd, m.ut, m.vt, m.gdt} {
		if diff := cmp.Diff(f.Grid(Old), f.Grid(Half)); diff != "" {
			t.Errorf("%s half level differs from old level:\n%s", f.Name, diff)
		}
	}
}

func TestMassDivergence(t *testing.T) {
	m := smoothModel(t, 32, 17)
	m.seed()
	m.geopotentialDepthTendency(Half)
	sum, abs := m.MassDivergence()
	if !(abs > 0) {
		t.Fatalf("tendency should not vanish, sum of absolute values is %g", abs)
	}
	if math.Abs(sum) > 1e-12*abs {
		t.Errorf("mass divergence %g is not zero to rounding (scale %g)", sum, abs)
	}
	if err := m.checkMass(); err != nil {
		t.Error(err)
	}
}

func TestPoleTendencyUniform(t *testing.T) {
	m := smoothModel(t, 32, 17)
	m.seed()
	m.geopotentialDepthTendency(Half)
	m.zonalWindTendency(Half)
	m.meridionalWindTendency(Half)
	for _, j := range []int{m.js, m.je} {
		d := m.dgd.Row(single, j)
		for k := 2; k <= 32; k++ {
			if d[k] != d[1] {
				t.Fatalf("row %d: dgd is not uniform: %g != %g", j, d[k], d[1])
			}
		}
		for _, f := range []*Field{m.dut, m.dvt} {
			for _, v := range f.Row(single, j) {
				if v != 0 {
					t.Fatalf("row %d: %s should be zero at the pole but is %g", j, f.Name, v)
				}
			}
		}
	}
}

// A fluid at rest with a flat surface stays at rest.
func TestRestState(t *testing.T) {
	tm, err := NewTimeManager(time.Time{}, time.Minute, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	m, err := Init(tm, 16, 9, Logger(quietLogger()))
	if err != nil {
		t.Fatal(err)
	}
	fillField(m.gd, Old, 16, 9, func(i, j int) float64 { return 1e4 })
	m.ApplyBndCond()
	r, err := m.StepOnce(60)
	if err != nil {
		t.Fatal(err)
	}
	if r.State != Converged || r.Iterations != 1 {
		t.Errorf("state %v after %d iterations", r.State, r.Iterations)
	}
	for _, f := range []*Field{m.u, m.v} {
		for _, row := range f.Grid(New) {
			for _, v := range row {
				if v != 0 {
					t.Fatalf("%s should stay zero but is %g", f.Name, v)
				}
			}
		}
	}
	if diff := cmp.Diff(m.gd.Grid(Old), m.gd.Grid(New)); diff != "" {
		t.Errorf("gd changed:\n%s", diff)
	}
}

func TestWorkerIndependence(t *testing.T) {
	m1 := smoothModel(t, 32, 17, Workers(1))
	m4 := smoothModel(t, 32, 17, Workers(4))
	r1, err := m1.StepOnce(120)
	if err != nil {
		t.Fatal(err)
	}
	r4, err := m4.StepOnce(120)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(r1, r4); diff != "" {
		t.Errorf("step results differ (-1 worker +4 workers):\n%s", diff)
	}
	for _, f := range [][2]*Field{{m1.u, m4.u}, {m1.v, m4.v}, {m1.gd, m4.gd}} {
		if diff := cmp.Diff(f[0].Grid(New), f[1].Grid(New)); diff != "" {
			t.Errorf("%s differs (-1 worker +4 workers):\n%s", f[0].Name, diff)
		}
	}
}
