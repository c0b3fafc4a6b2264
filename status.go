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
	"errors"
	"fmt"
)

// ErrNotConverged is returned by StepOnce in strict mode when the
// energy criterion was not met within the iteration limit. The
// returned StepResult still holds the last iterate.
var ErrNotConverged = errors.New("barotropic: implicit midpoint iteration did not converge")

// ErrMassDivergence is returned when the global sum of the
// geopotential depth tendency is not zero to rounding and the
// mass check policy is MassCheckFail.
var ErrMassDivergence = errors.New("barotropic: geopotential depth tendency does not conserve mass")

// DomainMismatchError is returned when an initial condition is applied
// to a domain it does not support.
type DomainMismatchError struct {
	Want string
	Got  string
}

func (e *DomainMismatchError) Error() string {
	return fmt.Sprintf("barotropic: initial condition requires a %s domain but the mesh is on a %s", e.Want, e.Got)
}

// IterState is the state of the implicit midpoint iteration.
type IterState int

const (
	// Seeded means the half level has been initialized from the old
	// level and no iteration has run yet.
	Seeded IterState = iota
	// Iterating means the iteration is in progress.
	Iterating
	// Converged means the energy criterion was met.
	Converged
	// Exhausted means the iteration limit was reached first.
	Exhausted
)

func (s IterState) String() string {
	switch s {
	case Seeded:
		return "seeded"
	case Iterating:
		return "iterating"
	case Converged:
		return "converged"
	case Exhausted:
		return "exhausted"
	default:
		return fmt.Sprintf("IterState(%d)", int(s))
	}
}

// StepResult summarizes a single time step.
type StepResult struct {
	// Iterations is the number of iterations that were run.
	Iterations int
	State      IterState

	// Energy0 and Energy1 are the total energy at the old level and
	// at the final iterate.
	Energy0, Energy1 float64

	// Mass0 and Mass1 are the total mass at the old level and at the
	// final iterate.
	Mass0, Mass1 float64

	// EnergyBias is the relative energy change of the final iterate.
	EnergyBias float64
}

func (r *StepResult) String() string {
	return fmt.Sprintf("%s after %d iterations (energy bias %.3g, mass change %.3g)",
		r.State, r.Iterations, r.EnergyBias, r.Mass1-r.Mass0)
}

// MassCheckPolicy specifies what happens when the mass conservation
// check fails.
type MassCheckPolicy int

const (
	// MassCheckWarn logs a warning.
	MassCheckWarn MassCheckPolicy = iota
	// MassCheckOff skips the check.
	MassCheckOff
	// MassCheckFail aborts the step with ErrMassDivergence.
	MassCheckFail
)

func (p MassCheckPolicy) String() string {
	switch p {
	case MassCheckWarn:
		return "warn"
	case MassCheckOff:
		return "off"
	case MassCheckFail:
		return "fail"
	default:
		return fmt.Sprintf("MassCheckPolicy(%d)", int(p))
	}
}

// ParseMassCheckPolicy converts "off", "warn" or "fail" to a policy.
func ParseMassCheckPolicy(s string) (MassCheckPolicy, error) {
	for _, p := range []MassCheckPolicy{MassCheckOff, MassCheckWarn, MassCheckFail} {
		if p.String() == s {
			return p, nil
		}
	}
	return MassCheckWarn, fmt.Errorf("barotropic: invalid mass check policy %q", s)
}
