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
)

func TestEnumerateCells(t *testing.T) {
	spatial := []Dimension{
		NewDimension("x", 2),
		NewDimension("y", 3),
	}
	got := EnumerateCells(spatial)
	want := [][]int{{0, 0}, {0, 1}, {0, 2}, {1, 0}, {1, 1}, {1, 2}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("cells = %v; want %v", got, want)
	}
}

func TestEnumerateCellsEmpty(t *testing.T) {
	got := EnumerateCells(nil)
	if len(got) != 1 || len(got[0]) != 0 {
		t.Errorf("cells = %v; want one empty coordinate", got)
	}
}

func TestSplitTime(t *testing.T) {
	dims := []Dimension{
		NewDimension("x", 2),
		NewDimension("y", 3),
		NewDimension("time", 5),
	}
	spatial, tdim, err := SplitTime(dims, "time")
	if err != nil {
		t.Fatal(err)
	}
	if tdim.Name() != "time" || tdim.Size() != 5 {
		t.Errorf("time dimension = %v", tdim)
	}
	want := []Dimension{NewDimension("x", 2), NewDimension("y", 3)}
	if !reflect.DeepEqual(spatial, want) {
		t.Errorf("spatial = %v; want %v", spatial, want)
	}

	if _, _, err := SplitTime(dims, "t"); err == nil {
		t.Error("expected error for missing time dimension")
	}
}

func TestCellSpec(t *testing.T) {
	dims := []Dimension{
		NewDimension("x", 2),
		NewDimension("time", 5),
		NewDimension("y", 3),
	}
	spec, err := CellSpec(dims, "time", []int{1, 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(spec) != 3 {
		t.Fatalf("spec length = %d; want 3", len(spec))
	}
	if i, ok := spec[0].Fixed(); !ok || i != 1 {
		t.Errorf("spec[0] = %v, %v; want fixed at 1", i, ok)
	}
	if _, ok := spec[1].Fixed(); ok {
		t.Error("spec[1] should keep the time dimension full")
	}
	if i, ok := spec[2].Fixed(); !ok || i != 2 {
		t.Errorf("spec[2] = %v, %v; want fixed at 2", i, ok)
	}

	if _, err := CellSpec(dims, "time", []int{1}); err == nil {
		t.Error("expected error for short coordinate")
	}
	if _, err := CellSpec(dims, "time", []int{1, 2, 3}); err == nil {
		t.Error("expected error for long coordinate")
	}
}
