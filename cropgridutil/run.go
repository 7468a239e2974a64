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
	"context"
	"fmt"
	"os"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/cropgrid"
)

// Run loads the driver variable from the NetCDF file at inputData,
// reorders it into dimOrder, and executes the SimpleCrop model once per
// grid cell under workDir.
func Run(ctx context.Context, exe, inputData, varName string, dimOrder []string, timeDim, workDir string, workers int) error {
	log := logrus.WithFields(logrus.Fields{
		"variable": varName,
		"input":    inputData,
	})
	log.Info("loading driver variable")

	f, err := os.Open(inputData)
	if err != nil {
		return fmt.Errorf("cropgrid: problem loading input data: %v", err)
	}
	defer f.Close()
	cf, err := cdf.Open(f)
	if err != nil {
		return fmt.Errorf("cropgrid: problem loading input data: %v", err)
	}
	v, err := cropgrid.NewCDFVariable(cf, varName)
	if err != nil {
		return err
	}

	order, err := targetOrder(v, dimOrder)
	if err != nil {
		return err
	}
	driver, err := cropgrid.Reorder(v, order)
	if err != nil {
		return err
	}

	days := 0
	for _, d := range driver.Dimensions() {
		if d.Name() == timeDim {
			days = d.Size()
		}
	}

	yearly := cropgrid.DefaultYearlyData()
	yearly.DayOfPlanting = Cfg.GetInt("DayOfPlanting")
	yearly.PrintoutFreq = Cfg.GetInt("PrintoutFreq")
	template := &cropgrid.Config{
		Daily: cropgrid.UniformDailyData(days,
			Cfg.GetFloat64("Daily.Irrigation"),
			Cfg.GetFloat64("Daily.TempMax"),
			Cfg.GetFloat64("Daily.TempMin"),
			0, // rainfall is substituted per cell from the driver
			Cfg.GetFloat64("Daily.EnergyFlux"),
			Cfg.GetFloat64("Daily.ParFlux")),
		Yearly: yearly,
	}

	runner := &cropgrid.Runner{
		Executable:       exe,
		Template:         template,
		Driver:           driver,
		TimeDim:          timeDim,
		WorkDir:          workDir,
		Workers:          workers,
		DriverConversion: Cfg.GetFloat64("RainfallConversion"),
		MsgChan:          outChan(),
	}
	results, err := runner.Run(ctx)
	for _, res := range results {
		if res.State == cropgrid.CellFailed {
			logrus.WithFields(logrus.Fields{
				"cell":  res.Index,
				"coord": res.Coord,
				"dir":   res.Dir,
			}).Error(res.Err)
		}
	}
	if err != nil {
		return err
	}
	log.WithField("cells", len(results)).Info("run completed")
	return nil
}

// targetOrder resolves the configured dimension names against the
// variable's dimensions. Every name in dimOrder must name a dimension
// of v; sizes are taken from the variable.
func targetOrder(v cropgrid.Variable, dimOrder []string) ([]cropgrid.Dimension, error) {
	native := v.Dimensions()
	order := make([]cropgrid.Dimension, len(dimOrder))
	for i, name := range dimOrder {
		found := false
		for _, d := range native {
			if d.Name() == name {
				order[i] = d
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("cropgrid: DimensionOrder names dimension %q, which variable %s does not have", name, v.Name())
		}
	}
	return order, nil
}

// WriteTestGrid writes a sample NetCDF driver file with a uniform
// variable of the given grid shape, for trial runs of the model.
func WriteTestGrid(path, varName string, nx, ny, days int) error {
	if nx <= 0 || ny <= 0 || days <= 0 {
		return fmt.Errorf("cropgrid: test grid shape must be positive: nx=%d, ny=%d, days=%d", nx, ny, days)
	}
	dims := []cropgrid.Dimension{
		cropgrid.NewDimension("x", nx),
		cropgrid.NewDimension("y", ny),
		cropgrid.NewDimension("time", days),
	}
	data := sparse.ZerosDense(nx, ny, days)
	for i := range data.Elements {
		data.Elements[i] = 1.0
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cropgrid: creating test grid file: %v", err)
	}
	defer f.Close()
	if err := cropgrid.WriteGridVariable(f, varName, dims, data); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"path":     path,
		"variable": varName,
	}).Info("wrote test grid")
	return nil
}
