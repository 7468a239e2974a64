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

	"github.com/ctessum/sparse"
)

// A Variable exposes named, ordered dimensions and can be sliced into a
// 1-D sequence given a full slice specification. Concrete providers are
// DenseVariable (in-memory) and CDFVariable (NetCDF-backed).
type Variable interface {
	// Name returns the name of the variable.
	Name() string

	// Dimensions returns the ordered dimensions of the variable.
	Dimensions() []Dimension

	// Slice extracts the sequence selected by spec. The spec must have
	// exactly one selector per dimension, in dimension order; a length
	// mismatch fails with InvalidSliceError. Values along Full
	// dimensions are returned in dimension-order-major order.
	Slice(spec SliceSpec) ([]float64, error)
}

// extract walks the coordinates selected by spec over dims, calling get
// for each one. It implements Slice for any provider that can do random
// access by index vector.
func extract(dims []Dimension, spec SliceSpec, get func(index []int) float64) ([]float64, error) {
	if len(spec) != len(dims) {
		return nil, InvalidSliceError{Got: len(spec), Want: len(dims)}
	}
	n := 1
	index := make([]int, len(dims))
	for i, s := range spec {
		if j, ok := s.Fixed(); ok {
			if j < 0 || j >= dims[i].Size() {
				return nil, fmt.Errorf("cropgrid: index %d out of range for dimension %q (size %d)",
					j, dims[i].Name(), dims[i].Size())
			}
			index[i] = j
		} else {
			n *= dims[i].Size()
		}
	}
	out := make([]float64, 0, n)
	for {
		out = append(out, get(index))
		// Advance the rightmost Full dimension, odometer-style.
		i := len(dims) - 1
		for ; i >= 0; i-- {
			if _, ok := spec[i].Fixed(); ok {
				continue
			}
			index[i]++
			if index[i] < dims[i].Size() {
				break
			}
			index[i] = 0
		}
		if i < 0 {
			return out, nil
		}
	}
}

// A DenseVariable is an in-memory Variable backed by a sparse.DenseArray.
type DenseVariable struct {
	name string
	dims []Dimension
	data *sparse.DenseArray
}

// NewDenseVariable creates an in-memory variable from data. The shape of
// data must agree with the sizes of dims.
func NewDenseVariable(name string, dims []Dimension, data *sparse.DenseArray) (*DenseVariable, error) {
	if len(data.Shape) != len(dims) {
		return nil, fmt.Errorf("cropgrid: variable %s: array has %d axes for %d dimensions",
			name, len(data.Shape), len(dims))
	}
	for i, d := range dims {
		if data.Shape[i] != d.Size() {
			return nil, fmt.Errorf("cropgrid: variable %s: axis %d has length %d but dimension %q has size %d",
				name, i, data.Shape[i], d.Name(), d.Size())
		}
	}
	return &DenseVariable{name: name, dims: dims, data: data}, nil
}

// Name returns the name of the variable.
func (v *DenseVariable) Name() string { return v.name }

// Dimensions returns the ordered dimensions of the variable.
func (v *DenseVariable) Dimensions() []Dimension {
	dims := make([]Dimension, len(v.dims))
	copy(dims, v.dims)
	return dims
}

// Slice extracts the 1-D sequence selected by spec.
func (v *DenseVariable) Slice(spec SliceSpec) ([]float64, error) {
	return extract(v.dims, spec, func(index []int) float64 {
		return v.data.Get(index...)
	})
}
