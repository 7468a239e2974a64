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

package cropgridutil

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/ctessum/cdf"
	"github.com/spatialmodel/cropgrid"
)

// TestWriteTestGridInvalidShape checks that a non-positive grid shape,
// which can arrive from a configuration file, is reported as an error
// rather than panicking.
func TestWriteTestGridInvalidShape(t *testing.T) {
	shapes := []struct {
		nx, ny, days int
	}{
		{0, 5, 10},
		{5, 0, 10},
		{5, 5, 0},
		{-1, 5, 10},
	}
	for _, s := range shapes {
		if err := WriteTestGrid("unused.nc", "v", s.nx, s.ny, s.days); err == nil {
			t.Errorf("nx=%d, ny=%d, days=%d: expected error", s.nx, s.ny, s.days)
		}
	}
}

func TestWriteTestGrid(t *testing.T) {
	dir, err := ioutil.TempDir("", "cropgrid")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "data.nc")

	if err := WriteTestGrid(path, "surface_water__depth", 2, 3, 4); err != nil {
		t.Fatal(err)
	}

	r, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	f, err := cdf.Open(r)
	if err != nil {
		t.Fatal(err)
	}
	v, err := cropgrid.NewCDFVariable(f, "surface_water__depth")
	if err != nil {
		t.Fatal(err)
	}
	wantSizes := map[string]int{"x": 2, "y": 3, "time": 4}
	for _, d := range v.Dimensions() {
		if d.Size() != wantSizes[d.Name()] {
			t.Errorf("dimension %q size = %d; want %d", d.Name(), d.Size(), wantSizes[d.Name()])
		}
	}
	series, err := v.Slice(cropgrid.SliceSpec{cropgrid.FixedAt(1), cropgrid.FixedAt(2), cropgrid.Full()})
	if err != nil {
		t.Fatal(err)
	}
	for i, val := range series {
		if val != 1.0 {
			t.Errorf("series[%d] = %v; want 1", i, val)
		}
	}
}
