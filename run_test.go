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
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/ctessum/sparse"
)

// fakeSimulator mimics the SimpleCrop executable: it reads the weather
// deck from data/ and writes plant and soil output files whose data rows
// are derived from it, so that different cells produce different
// outputs. The irrigation column of soil.out echoes the rainfall input.
const fakeSimulator = `#!/bin/sh
mkdir -p output
{
	for i in 1 2 3 4 5 6; do echo " header $i"; done
	awk '{printf "%s 0.0 0.0 0.0 0.0 %s 0.0 0.0 1.86 2.25 2.23 0.02 260.97 1.80 1.00 1.00\n", $1, $5}' data/weather.inp
} > output/soil.out
{
	for i in 1 2 3 4 5 6 7 8 9; do echo " header $i"; done
	awk '{printf "%s 2.0 0.0 0.30 0.25 0.05 0.00 0.01\n", $1}' data/weather.inp
} > output/plant.out
`

const failingSimulator = `#!/bin/sh
exit 2
`

func writeScript(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "simplecrop")
	if err := ioutil.WriteFile(path, []byte(content), 0755); err != nil {
		t.Fatal(err)
	}
	return path
}

// testDriver returns a 2×2 spatial grid with 2 time steps where the
// driver value of cell (i, j) is 0.01·(2i+j) on every day, so the
// substituted rainfall of cell (i, j) is exactly 2i+j.
func testDriver(t *testing.T) Variable {
	t.Helper()
	dims := []Dimension{
		NewDimension("x", 2),
		NewDimension("y", 2),
		NewDimension("time", 2),
	}
	data := sparse.ZerosDense(2, 2, 2)
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			for k := 0; k < 2; k++ {
				data.Set(0.01*float64(2*i+j), i, j, k)
			}
		}
	}
	v, err := NewDenseVariable("surface_water__depth", dims, data)
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func testRunner(t *testing.T, dir, script string, workers int) *Runner {
	t.Helper()
	return &Runner{
		Executable: writeScript(t, dir, script),
		Template: &Config{
			Daily:  UniformDailyData(2, 0, 20, 4.4, 0, 5.1, 10.7),
			Yearly: DefaultYearlyData(),
		},
		Driver:  testDriver(t),
		WorkDir: dir,
		Workers: workers,
	}
}

func TestRunnerSequential(t *testing.T) {
	dir, err := ioutil.TempDir("", "cropgrid")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	results, err := testRunner(t, dir, fakeSimulator, 1).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 4 {
		t.Fatalf("got %d results; want 4", len(results))
	}
	wantCoords := [][]int{{0, 0}, {0, 1}, {1, 0}, {1, 1}}
	for i, res := range results {
		if res.State != CellCompleted {
			t.Fatalf("cell %d state = %v; want completed", i, res.State)
		}
		if !reflect.DeepEqual(res.Coord, wantCoords[i]) {
			t.Errorf("cell %d coordinate = %v; want %v", i, res.Coord, wantCoords[i])
		}
		if res.Data == nil || res.Data.Soil == nil || res.Data.Plant == nil {
			t.Fatalf("cell %d has no parsed output", i)
		}
		if got := len(res.Data.Soil.DayOfYear); got != 2 {
			t.Fatalf("cell %d has %d soil records; want 2", i, got)
		}
		// The fake simulator echoes the substituted rainfall back
		// through the irrigation column.
		if got, want := res.Data.Soil.Irrigation[0], float64(i); got != want {
			t.Errorf("cell %d echoed rainfall = %v; want %v", i, got, want)
		}
	}
}

func TestRunnerDeterminism(t *testing.T) {
	seqDir, err := ioutil.TempDir("", "cropgrid")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(seqDir)
	conDir, err := ioutil.TempDir("", "cropgrid")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(conDir)

	seq, err := testRunner(t, seqDir, fakeSimulator, 1).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	con, err := testRunner(t, conDir, fakeSimulator, 2).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(seq) != len(con) {
		t.Fatalf("result counts differ: %d vs %d", len(seq), len(con))
	}
	for i := range seq {
		if !reflect.DeepEqual(seq[i].Data, con[i].Data) {
			t.Errorf("cell %d datasets differ between sequential and concurrent runs", i)
		}
	}
}

func TestRunnerFailFast(t *testing.T) {
	dir, err := ioutil.TempDir("", "cropgrid")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	results, err := testRunner(t, dir, failingSimulator, 1).Run(context.Background())
	cellErr, ok := err.(*CellError)
	if !ok {
		t.Fatalf("error = %v; want CellError", err)
	}
	if cellErr.Index != 0 || !reflect.DeepEqual(cellErr.Coord, []int{0, 0}) {
		t.Errorf("failure attributed to cell %d %v; want cell 0 [0 0]", cellErr.Index, cellErr.Coord)
	}
	if results[0].State != CellFailed {
		t.Errorf("cell 0 state = %v; want failed", results[0].State)
	}
	// No further cells may launch after the first failure.
	for _, res := range results[1:] {
		if res.State != CellPending {
			t.Errorf("cell %d state = %v; want pending", res.Index, res.State)
		}
	}
}

func TestRunnerConcurrentAggregatesFailures(t *testing.T) {
	dir, err := ioutil.TempDir("", "cropgrid")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	results, err := testRunner(t, dir, failingSimulator, 2).Run(context.Background())
	runErr, ok := err.(*RunError)
	if !ok {
		t.Fatalf("error = %v; want RunError", err)
	}
	if len(runErr.Cells) != 4 {
		t.Errorf("aggregated %d failures; want 4", len(runErr.Cells))
	}
	for _, res := range results {
		if res.State != CellFailed {
			t.Errorf("cell %d state = %v; want failed", res.Index, res.State)
		}
	}
}

func TestRunnerCancel(t *testing.T) {
	for _, workers := range []int{1, 2} {
		dir, err := ioutil.TempDir("", "cropgrid")
		if err != nil {
			t.Fatal(err)
		}
		defer os.RemoveAll(dir)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		results, err := testRunner(t, dir, fakeSimulator, workers).Run(ctx)
		if err != context.Canceled {
			t.Fatalf("workers = %d: error = %v; want context.Canceled", workers, err)
		}
		// Cells that had not started when the context was cancelled must
		// never launch: no inputs written, no process spawned.
		for _, res := range results {
			if res.State != CellPending {
				t.Errorf("workers = %d: cell %d state = %v; want pending", workers, res.Index, res.State)
			}
			if _, err := os.Stat(res.Dir); !os.IsNotExist(err) {
				t.Errorf("workers = %d: cell %d directory %s exists after cancelled run", workers, res.Index, res.Dir)
			}
		}
	}
}
