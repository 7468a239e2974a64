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
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"
)

// CellState is the processing state of one grid cell.
type CellState int

const (
	// CellPending means processing of the cell has not started.
	CellPending CellState = iota
	// CellInputsWritten means the cell's input decks are on disk but the
	// simulator has not been started.
	CellInputsWritten
	// CellRunning means the simulator process is running.
	CellRunning
	// CellCompleted means the simulator exited successfully and the
	// cell's outputs have been parsed.
	CellCompleted
	// CellFailed means the cell failed; the error is attributed to this
	// cell only and other cells' directories are unaffected.
	CellFailed
)

func (s CellState) String() string {
	switch s {
	case CellPending:
		return "pending"
	case CellInputsWritten:
		return "inputs written"
	case CellRunning:
		return "running"
	case CellCompleted:
		return "completed"
	case CellFailed:
		return "failed"
	}
	return fmt.Sprintf("CellState(%d)", int(s))
}

// A CellResult records the outcome of one grid cell.
type CellResult struct {
	Index int       // linear index in enumeration order
	Coord []int     // one coordinate per spatial dimension
	Dir   string    // the cell's isolated working directory
	State CellState // final state
	Data  *Dataset  // parsed outputs; nil unless State is CellCompleted
	Err   error     // the cell's failure; nil unless State is CellFailed
}

// A Runner executes the SimpleCrop model once for every cell of the
// driver variable's spatial grid. Cells are processed in enumeration
// order; each cell gets an isolated working directory and the runner
// always waits for a cell's process to exit before reading its outputs.
type Runner struct {
	// Executable is the path to the SimpleCrop executable. It is
	// resolved to an absolute path before any cell runs, because each
	// process starts in a different working directory.
	Executable string

	// Template is the base configuration. It is copied for every cell
	// and never mutated.
	Template *Config

	// Driver is the gridded variable whose per-cell time series is
	// substituted into the template as rainfall. It is typically a
	// ReorderedVariable, so that cells are enumerated in a caller-chosen
	// canonical order.
	Driver Variable

	// TimeDim is the name of the temporal dimension. Defaults to "time".
	TimeDim string

	// WorkDir is the directory under which the per-cell run directories
	// (runs/0, runs/1, ...) are created.
	WorkDir string

	// Workers is the maximum number of simulator processes running at
	// once. Zero or one selects strict sequential fail-fast execution:
	// the runner stops launching cells after the first failure. With
	// more than one worker the runner keeps going and aggregates all
	// cell failures into a RunError.
	Workers int

	// DriverConversion is the factor applied to the extracted driver
	// series before substitution. Zero selects RainfallConversion.
	DriverConversion float64

	// MsgChan is an optional channel over which progress updates are
	// sent. If nil, no updates are sent.
	MsgChan chan string
}

func (r *Runner) msg(format string, args ...interface{}) {
	if r.MsgChan != nil {
		r.MsgChan <- fmt.Sprintf(format, args...)
	}
}

// Run processes every grid cell and returns one result per cell, in
// enumeration order. In sequential mode the returned error is the first
// cell failure (cells after it are left pending); in bounded-concurrency
// mode it is a RunError aggregating all failures. Canceling ctx keeps
// unstarted cells from launching and kills running simulator processes,
// whose cells are then marked failed. Because every cell is independent
// and confined to its own directory, results are identical in either
// mode regardless of scheduling.
func (r *Runner) Run(ctx context.Context) ([]*CellResult, error) {
	exe, err := filepath.Abs(r.Executable)
	if err != nil {
		return nil, fmt.Errorf("cropgrid: resolving executable path %s: %v", r.Executable, err)
	}
	timeDim := r.TimeDim
	if timeDim == "" {
		timeDim = "time"
	}
	conv := r.DriverConversion
	if conv == 0 {
		conv = RainfallConversion
	}

	dims := r.Driver.Dimensions()
	spatial, _, err := SplitTime(dims, timeDim)
	if err != nil {
		return nil, err
	}
	cells := EnumerateCells(spatial)
	results := make([]*CellResult, len(cells))
	for i, coord := range cells {
		results[i] = &CellResult{
			Index: i,
			Coord: coord,
			Dir:   filepath.Join(r.WorkDir, "runs", strconv.Itoa(i)),
			State: CellPending,
		}
	}

	if r.Workers > 1 {
		return results, r.runConcurrent(ctx, exe, dims, timeDim, conv, results)
	}
	return results, r.runSequential(ctx, exe, dims, timeDim, conv, results)
}

func (r *Runner) runSequential(ctx context.Context, exe string, dims []Dimension, timeDim string, conv float64, results []*CellResult) error {
	for _, res := range results {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.runCell(ctx, exe, dims, timeDim, conv, res)
		if res.State == CellFailed {
			return res.Err
		}
	}
	return nil
}

func (r *Runner) runConcurrent(ctx context.Context, exe string, dims []Dimension, timeDim string, conv float64, results []*CellResult) error {
	var wg sync.WaitGroup
	sem := make(chan struct{}, r.Workers)
	for _, res := range results {
		// Checked before the select: with a cancelled context and a free
		// semaphore slot both cases would be ready and the select would
		// choose between them at random, launching cells that must stay
		// pending.
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return err
		}
		select {
		case <-ctx.Done():
			wg.Wait()
			return ctx.Err()
		case sem <- struct{}{}:
		}
		wg.Add(1)
		go func(res *CellResult) {
			defer wg.Done()
			defer func() { <-sem }()
			r.runCell(ctx, exe, dims, timeDim, conv, res)
		}(res)
	}
	wg.Wait()
	var failed []*CellError
	for _, res := range results {
		if res.State == CellFailed {
			failed = append(failed, res.Err.(*CellError))
		}
	}
	if len(failed) > 0 {
		return &RunError{Cells: failed}
	}
	return nil
}

// runCell drives one cell through the pending, inputs written, running
// and completed/failed states. Outputs are read synchronously, directly
// after a successful wait for the process to exit; they are never read
// while the process may still be writing them.
func (r *Runner) runCell(ctx context.Context, exe string, dims []Dimension, timeDim string, conv float64, res *CellResult) {
	fail := func(err error) {
		res.State = CellFailed
		res.Err = &CellError{Index: res.Index, Coord: res.Coord, Err: err}
		r.msg("cell %d %v failed: %v\n", res.Index, res.Coord, err)
	}

	spec, err := CellSpec(dims, timeDim, res.Coord)
	if err != nil {
		fail(err)
		return
	}
	series, err := r.Driver.Slice(spec)
	if err != nil {
		fail(err)
		return
	}
	cfg := r.Template.CellConfig(series, conv)
	if err := cfg.WriteInputs(res.Dir); err != nil {
		fail(err)
		return
	}
	res.State = CellInputsWritten
	outDir := filepath.Join(res.Dir, "output")
	if err := os.MkdirAll(outDir, os.ModePerm); err != nil {
		fail(&PersistError{Path: outDir, Err: err})
		return
	}

	cmd := exec.CommandContext(ctx, exe)
	cmd.Dir = res.Dir
	res.State = CellRunning
	r.msg("running cell %d %v in %s\n", res.Index, res.Coord, res.Dir)
	if err := cmd.Run(); err != nil {
		fail(fmt.Errorf("running %s: %v", exe, err))
		return
	}

	data, err := LoadDataSet(res.Dir)
	if err != nil {
		fail(err)
		return
	}
	res.Data = data
	res.State = CellCompleted
	r.msg("cell %d %v completed\n", res.Index, res.Coord)
}
