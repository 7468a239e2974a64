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

// A Dimension is a named, fixed-size axis of a multidimensional variable.
// It is immutable once created. Within the dimension list of any one
// variable, names must be unique.
type Dimension struct {
	name string
	size int
}

// NewDimension creates a dimension with the given name and size.
// Size must be positive.
func NewDimension(name string, size int) Dimension {
	if size <= 0 {
		panic("cropgrid: dimension size must be positive")
	}
	return Dimension{name: name, size: size}
}

// Name returns the name of the dimension.
func (d Dimension) Name() string { return d.name }

// Size returns the number of coordinates along the dimension.
func (d Dimension) Size() int { return d.size }

// Equal reports whether d and o have the same name and size.
func (d Dimension) Equal(o Dimension) bool {
	return d.name == o.name && d.size == o.size
}

// A Selector chooses, for a single dimension, either one coordinate
// (FixedAt) or the whole dimension (Full).
type Selector struct {
	fixed bool
	index int
}

// FixedAt returns a selector that fixes a dimension to coordinate i.
// The index is not validated here; an out-of-range value surfaces as an
// extraction error when the selector is applied.
func FixedAt(i int) Selector { return Selector{fixed: true, index: i} }

// Full returns a selector that keeps the whole dimension.
func Full() Selector { return Selector{} }

// Fixed reports whether the selector fixes its dimension, and if so
// to which coordinate.
func (s Selector) Fixed() (int, bool) { return s.index, s.fixed }

// A SliceSpec describes which 1-D slice to extract from a variable:
// one selector per dimension, in the dimension order it is applied
// against. A spec whose length does not match that order is rejected
// with InvalidSliceError, never silently truncated or padded.
type SliceSpec []Selector
