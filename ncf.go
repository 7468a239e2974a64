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
	"os"
	"sync"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
)

// A CDFVariable is a Variable backed by a gridded NetCDF file. The
// variable's data is read once, on the first call to Slice, and held in
// memory afterwards; the per-cell extraction then never touches the file
// again, which keeps concurrent cell processing free of shared file
// state.
type CDFVariable struct {
	f    *cdf.File
	name string
	dims []Dimension

	loadOnce sync.Once
	loadErr  error
	data     *sparse.DenseArray
}

// NewCDFVariable wraps variable name within the open NetCDF file f.
func NewCDFVariable(f *cdf.File, name string) (*CDFVariable, error) {
	names := f.Header.Dimensions(name)
	if len(names) == 0 {
		return nil, fmt.Errorf("cropgrid: variable %v is not in the NetCDF file", name)
	}
	lengths := f.Header.Lengths(name)
	dims := make([]Dimension, len(names))
	for i, n := range names {
		if lengths[i] <= 0 {
			return nil, fmt.Errorf("cropgrid: variable %v: dimension %q has length %d", name, n, lengths[i])
		}
		dims[i] = NewDimension(n, lengths[i])
	}
	return &CDFVariable{f: f, name: name, dims: dims}, nil
}

// Name returns the name of the variable.
func (v *CDFVariable) Name() string { return v.name }

// Dimensions returns the variable's dimensions in the order they appear
// in the file.
func (v *CDFVariable) Dimensions() []Dimension {
	dims := make([]Dimension, len(v.dims))
	copy(dims, v.dims)
	return dims
}

// Slice extracts the 1-D sequence selected by spec.
func (v *CDFVariable) Slice(spec SliceSpec) ([]float64, error) {
	if len(spec) != len(v.dims) {
		return nil, InvalidSliceError{Got: len(spec), Want: len(v.dims)}
	}
	v.loadOnce.Do(func() { v.loadErr = v.load() })
	if v.loadErr != nil {
		return nil, v.loadErr
	}
	return extract(v.dims, spec, func(index []int) float64 {
		return v.data.Get(index...)
	})
}

func (v *CDFVariable) load() error {
	lengths := make([]int, len(v.dims))
	for i, d := range v.dims {
		lengths[i] = d.Size()
	}
	r := v.f.Reader(v.name, nil, nil)
	buf := r.Zero(-1)
	if _, err := r.Read(buf); err != nil {
		return fmt.Errorf("cropgrid: reading NetCDF variable %s: %v", v.name, err)
	}
	data := sparse.ZerosDense(lengths...)
	switch b := buf.(type) {
	case []float32:
		for i, val := range b {
			data.Elements[i] = float64(val)
		}
	case []float64:
		copy(data.Elements, b)
	default:
		return fmt.Errorf("cropgrid: NetCDF variable %s: unsupported data type %T", v.name, buf)
	}
	v.data = data
	return nil
}

// WriteGridVariable writes data as variable name to the NetCDF file w,
// defining one file dimension per entry of dims. The shape of data must
// agree with dims. Data is stored as 32-bit floats.
func WriteGridVariable(w *os.File, name string, dims []Dimension, data *sparse.DenseArray) error {
	if len(data.Shape) != len(dims) {
		return fmt.Errorf("cropgrid: variable %s: array has %d axes for %d dimensions",
			name, len(data.Shape), len(dims))
	}
	names := make([]string, len(dims))
	lengths := make([]int, len(dims))
	n := 1
	for i, d := range dims {
		if data.Shape[i] != d.Size() {
			return fmt.Errorf("cropgrid: variable %s: axis %d has length %d but dimension %q has size %d",
				name, i, data.Shape[i], d.Name(), d.Size())
		}
		names[i] = d.Name()
		lengths[i] = d.Size()
		n *= d.Size()
	}
	h := cdf.NewHeader(names, lengths)
	h.AddAttribute("", "comment", "CropGrid gridded driver data file")
	h.AddVariable(name, names, []float32{0})
	h.Define()
	for _, err := range h.Check() {
		return fmt.Errorf("cropgrid: creating NetCDF header for variable %s: %v", name, err)
	}

	f, err := cdf.Create(w, h) // writes the header to w
	if err != nil {
		return err
	}
	data32 := make([]float32, n)
	for i, e := range data.Elements {
		data32[i] = float32(e)
	}
	wr := f.Writer(name, make([]int, len(dims)), lengths)
	if _, err := wr.Write(data32); err != nil {
		return fmt.Errorf("cropgrid: writing variable %s to NetCDF file: %v", name, err)
	}
	return cdf.UpdateNumRecs(w)
}
