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


package rossbyhaurwitz

import (
	"errors"
	"io/ioutil"
	"math"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/barotropic"
)

func newModel(t *testing.T, opts ...barotropic.Option) *barotropic.Model {
	tm, err := barotropic.NewTimeManager(time.Time{}, time.Minute, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	l := logrus.New()
	l.Out = ioutil.Discard
	m, err := barotropic.Init(tm, 64, 33, append(opts, barotropic.Logger(l))...)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestPopulate(t *testing.T) {
	m := newModel(t)
	tc := New()
	if err := m.SetInitialCondition(tc); err != nil {
		t.Fatal(err)
	}
	mesh := m.Mesh()
	u, v, gd := m.ZonalWind(), m.MeridionalWind(), m.GeopotentialDepth()
	a := mesh.Domain().Radius()

	// On the equator v vanishes and u = aω(1 - cos Rλ).
	j := 16
	if math.Abs(mesh.Lat(barotropic.FullGrid, j)) > 1e-12 {
		t.Fatalf("row %d is not the equator", j)
	}
	for _, i := range []int{0, 3, 8, 20} {
		λ := mesh.Lon(barotropic.FullGrid, i)
		want := a * tc.Omega * (1 - math.Cos(tc.R*λ))
		if have := u.At(barotropic.Old, i, j); math.Abs(have-want) > 1e-9 {
			t.Errorf("u at (%d, %d): have %g, want %g", i, j, have, want)
		}
		if have := v.At(barotropic.Old, i, j); math.Abs(have) > 1e-9 {
			t.Errorf("v at (%d, %d): have %g, want 0", i, j, have)
		}
	}

	for _, j := range []int{mesh.Js(barotropic.FullGrid), mesh.Je(barotropic.FullGrid)} {
		for i := mesh.Is(barotropic.FullGrid); i <= mesh.Ie(barotropic.FullGrid); i++ {
			if u.At(barotropic.Old, i, j) != 0 || v.At(barotropic.Old, i, j) != 0 {
				t.Fatalf("wind should vanish at pole row %d", j)
			}
			if gd.At(barotropic.Old, i, j) != tc.Phi0 {
				t.Fatalf("gd at pole row %d: have %g, want %g", j, gd.At(barotropic.Old, i, j), tc.Phi0)
			}
		}
	}

	// The wave is symmetric about the equator in u and gd.
	for _, i := range []int{1, 9} {
		for _, f := range []*barotropic.Field{u, gd} {
			n, s := f.At(barotropic.Old, i, 16+5), f.At(barotropic.Old, i, 16-5)
			if math.Abs(n-s) > 1e-9*math.Abs(n) {
				t.Errorf("%s is not symmetric: %g != %g", f.Name, n, s)
			}
		}
	}

	// Halos are filled.
	if have, want := gd.At(barotropic.Old, -1, 10), gd.At(barotropic.Old, 63, 10); have != want {
		t.Errorf("gd halo: have %g, want %g", have, want)
	}
	ghs := m.SurfaceGeopotential()
	for _, row := range ghs.Grid(barotropic.Old) {
		for _, x := range row {
			if x != 0 {
				t.Fatalf("surface geopotential should be zero but is %g", x)
			}
		}
	}
}

type planeDomain struct{}

func (planeDomain) Name() string    { return "plane" }
func (planeDomain) Radius() float64 { return barotropic.EarthRadius }

func TestDomainMismatch(t *testing.T) {
	m := newModel(t, barotropic.UseDomain(planeDomain{}))
	err := m.SetInitialCondition(New())
	var dm *barotropic.DomainMismatchError
	if !errors.As(err, &dm) {
		t.Fatalf("have error %v, want a domain mismatch", err)
	}
	if dm.Got != "plane" {
		t.Errorf("domain name: %s", dm.Got)
	}
}

func TestNonPositiveDepth(t *testing.T) {
	m := newModel(t)
	tc := New()
	tc.Phi0 = -1e5
	if err := m.SetInitialCondition(tc); err == nil {
		t.Error("expected an error for a negative depth")
	}
}
