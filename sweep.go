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

import "sync"

// sweep calls f for every latitude row from j0 to j1 inclusive.
// Rows are distributed across m.workers goroutines by stride and the
// call returns once every row is done. f must only write to row j of
// its outputs.
func (m *Model) sweep(j0, j1 int, f func(j int)) {
	nprocs := m.workers
	if nprocs <= 1 || j1-j0 < 1 {
		for j := j0; j <= j1; j++ {
			f(j)
		}
		return
	}
	var wg sync.WaitGroup
	wg.Add(nprocs)
	for pp := 0; pp < nprocs; pp++ {
		go func(pp int) {
			for j := j0 + pp; j <= j1; j += nprocs {
				f(j)
			}
			wg.Done()
		}(pp)
	}
	wg.Wait()
}
