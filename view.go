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

// A ReorderedVariable wraps a Variable and exposes the same data under a
// caller-chosen dimension order, so that consumers can address any
// variable with one canonical order (for example x, y, time) regardless
// of how the underlying store lays its dimensions out. The permutation
// between the two orders is computed once, at construction.
type ReorderedVariable struct {
	v     Variable
	order []Dimension

	// remap holds, for each dimension of the wrapped variable in its
	// native iteration order, the position of that dimension within
	// order.
	remap []int
}

// Reorder wraps v so that it is addressed using the target dimension
// order. Every dimension of v must appear (by name and size) in order;
// a dimension that cannot be located fails with DimensionMismatchError
// rather than being silently dropped, since an omission would otherwise
// surface much later as a confusing slice-length mismatch. order may be
// a superset of v's dimensions.
func Reorder(v Variable, order []Dimension) (*ReorderedVariable, error) {
	native := v.Dimensions()
	remap := make([]int, len(native))
	for i, d := range native {
		pos := -1
		for j, o := range order {
			if d.Equal(o) {
				pos = j
				break
			}
		}
		if pos < 0 {
			return nil, DimensionMismatchError{Dimension: d}
		}
		remap[i] = pos
	}
	o := make([]Dimension, len(order))
	copy(o, order)
	return &ReorderedVariable{v: v, order: o, remap: remap}, nil
}

// Name returns the name of the wrapped variable.
func (r *ReorderedVariable) Name() string { return r.v.Name() }

// Dimensions returns the target order, not the wrapped variable's
// native order.
func (r *ReorderedVariable) Dimensions() []Dimension {
	dims := make([]Dimension, len(r.order))
	copy(dims, r.order)
	return dims
}

// Slice translates spec, given in the target order, into the wrapped
// variable's native order and delegates to it. spec must have one
// selector per target-order dimension.
func (r *ReorderedVariable) Slice(spec SliceSpec) ([]float64, error) {
	if len(spec) != len(r.order) {
		return nil, InvalidSliceError{Got: len(spec), Want: len(r.order)}
	}
	native := make(SliceSpec, len(r.remap))
	for i, pos := range r.remap {
		native[i] = spec[pos]
	}
	return r.v.Slice(native)
}
