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
	"time"
)

// TimeManager keeps track of model time with a fixed step size.
type TimeManager struct {
	start     time.Time
	stepSize  time.Duration
	runLength time.Duration
	step      int
}

// NewTimeManager returns a clock that starts at start and advances in
// steps of stepSize until runLength has elapsed.
func NewTimeManager(start time.Time, stepSize, runLength time.Duration) (*TimeManager, error) {
	if stepSize <= 0 {
		return nil, fmt.Errorf("barotropic: time step must be > 0 but is %v", stepSize)
	}
	if runLength < 0 {
		return nil, fmt.Errorf("barotropic: run length must be >= 0 but is %v", runLength)
	}
	return &TimeManager{start: start, stepSize: stepSize, runLength: runLength}, nil
}

// StepSize returns the step size [s].
func (t *TimeManager) StepSize() float64 { return t.stepSize.Seconds() }

// Advance moves the clock forward by one step.
func (t *TimeManager) Advance() { t.step++ }

// Finished returns whether the run length has been reached. A step
// that would overshoot the end of the run is still taken.
func (t *TimeManager) Finished() bool { return t.Elapsed() >= t.runLength }

// Step returns the number of completed steps.
func (t *TimeManager) Step() int { return t.step }

// Elapsed returns the model time elapsed since the start.
func (t *TimeManager) Elapsed() time.Duration { return time.Duration(t.step) * t.stepSize }

// Time returns the current model time.
func (t *TimeManager) Time() time.Time { return t.start.Add(t.Elapsed()) }
