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
	"reflect"
	"testing"

	"github.com/ctessum/sparse"
)

// testVariable returns a 2×3×4 variable on (x, y, time) where the value
// at (i, j, k) is 100i + 10j + k.
func testVariable(t *testing.T) *DenseVariable {
	t.Helper()
	dims := []Dimension{
		NewDimension("x", 2),
		NewDimension("y", 3),
		NewDimension("time", 4),
	}
	data := sparse.ZerosDense(2, 3, 4)
	for i := 0; i < 2; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 4; k++ {
				data.Set(float64(100*i+10*j+k), i, j, k)
			}
		}
	}
	v, err := NewDenseVariable("surface_water__depth", dims, data)
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func TestDenseVariableSlice(t *testing.T) {
	v := testVariable(t)

	got, err := v.Slice(SliceSpec{FixedAt(1), FixedAt(2), Full()})
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{120, 121, 122, 123}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("slice = %v; want %v", got, want)
	}

	// Slicing along a non-trailing dimension.
	got, err = v.Slice(SliceSpec{Full(), FixedAt(1), FixedAt(3)})
	if err != nil {
		t.Fatal(err)
	}
	want = []float64{13, 113}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("slice = %v; want %v", got, want)
	}
}

func TestDenseVariableSliceLengthMismatch(t *testing.T) {
	v := testVariable(t)
	for _, spec := range []SliceSpec{
		{FixedAt(0), Full()},
		{FixedAt(0), FixedAt(0), Full(), Full()},
		{},
	} {
		_, err := v.Slice(spec)
		if _, ok := err.(InvalidSliceError); !ok {
			t.Errorf("spec of length %d: error = %v; want InvalidSliceError", len(spec), err)
		}
	}
}

func TestDenseVariableSliceOutOfRange(t *testing.T) {
	v := testVariable(t)
	if _, err := v.Slice(SliceSpec{FixedAt(2), FixedAt(0), Full()}); err == nil {
		t.Error("expected error for out-of-range index")
	}
}

func TestNewDenseVariableShapeMismatch(t *testing.T) {
	dims := []Dimension{NewDimension("x", 2), NewDimension("y", 3)}
	if _, err := NewDenseVariable("v", dims, sparse.ZerosDense(2, 4)); err == nil {
		t.Error("expected error for shape/dimension disagreement")
	}
	if _, err := NewDenseVariable("v", dims, sparse.ZerosDense(2, 3, 1)); err == nil {
		t.Error("expected error for axis count disagreement")
	}
}

func TestDimensionEqual(t *testing.T) {
	a := NewDimension("x", 2)
	if !a.Equal(NewDimension("x", 2)) {
		t.Error("identical dimensions should be equal")
	}
	if a.Equal(NewDimension("x", 3)) {
		t.Error("dimensions with different sizes should not be equal")
	}
	if a.Equal(NewDimension("y", 2)) {
		t.Error("dimensions with different names should not be equal")
	}
}
