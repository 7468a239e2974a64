/*
Copyright © 2021 the CropGrid authors.
This file is part of CropGrid.

CropGrid is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

CropGrid is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with CropGrid.  If not, see <http://www.gnu.org/licenses/>.
*/

package cropgrid

import (
	"fmt"
	"strings"
)

// InvalidSliceError indicates a slice specification whose length does not
// equal the number of dimensions it is being applied against.
type InvalidSliceError struct {
	Got, Want int
}

func (e InvalidSliceError) Error() string {
	return fmt.Sprintf("cropgrid: slice specification has %d selectors for %d dimensions", e.Got, e.Want)
}

// DimensionMismatchError indicates that a dimension of a wrapped variable
// could not be located in the target order given to Reorder.
type DimensionMismatchError struct {
	Dimension Dimension
}

func (e DimensionMismatchError) Error() string {
	return fmt.Sprintf("cropgrid: dimension %q (size %d) is missing from the target dimension order",
		e.Dimension.Name(), e.Dimension.Size())
}

// PersistError indicates an I/O failure writing or reading one of the
// fixed-width simulator files. It is fatal to the owning grid cell only.
type PersistError struct {
	Path string
	Err  error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("cropgrid: %s: %v", e.Path, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

// A CellError attributes a failure to one grid cell.
type CellError struct {
	Index int   // linear cell index in enumeration order
	Coord []int // one coordinate per spatial dimension
	Err   error
}

func (e *CellError) Error() string {
	return fmt.Sprintf("cropgrid: cell %d %v: %v", e.Index, e.Coord, e.Err)
}

func (e *CellError) Unwrap() error { return e.Err }

// A RunError aggregates the per-cell failures of a bounded-concurrency run.
type RunError struct {
	Cells []*CellError
}

func (e *RunError) Error() string {
	msgs := make([]string, len(e.Cells))
	for i, c := range e.Cells {
		msgs[i] = c.Error()
	}
	return fmt.Sprintf("cropgrid: %d cells failed: %s", len(e.Cells), strings.Join(msgs, "; "))
}
