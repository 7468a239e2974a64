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

// Package cropgridutil holds the configuration and command-line surface
// of the CropGrid model.
package cropgridutil

import (
	"context"
	"fmt"
	"os"

	"github.com/lnashier/viper"
	"github.com/spatialmodel/cropgrid"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to CropGrid.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "SimpleCropExe",
			usage: `
              SimpleCropExe is the path to the SimpleCrop executable that is
              run once for every grid cell.`,
			defaultVal: "simplecrop",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "InputData",
			usage: `
              InputData is the path to the NetCDF file holding the gridded
              driver variable.`,
			defaultVal: "data.nc",
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), testgridCmd.Flags()},
		},
		{
			name: "VariableName",
			usage: `
              VariableName is the name of the gridded driver variable whose
              per-cell time series is substituted into the model inputs.`,
			defaultVal: "surface_water__depth",
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), testgridCmd.Flags()},
		},
		{
			name: "DimensionOrder",
			usage: `
              DimensionOrder is the canonical dimension order used to address
              the driver variable, regardless of how the file lays its
              dimensions out. It must contain every dimension of the variable.`,
			defaultVal: []string{"x", "y", "time"},
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "TimeDimension",
			usage: `
              TimeDimension is the name of the temporal dimension of the
              driver variable. All other dimensions are treated as spatial
              grid dimensions.`,
			defaultVal: "time",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "WorkDir",
			usage: `
              WorkDir is the directory under which the per-cell run
              directories (runs/0, runs/1, ...) are created.`,
			defaultVal: ".",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Workers",
			usage: `
              Workers is the maximum number of simulator processes that may
              run at once. With one worker, cells run sequentially and the
              run stops at the first cell failure; with more than one,
              failures are collected and reported together at the end.`,
			defaultVal: 1,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "RainfallConversion",
			usage: `
              RainfallConversion is the factor applied to the extracted
              driver series before it is substituted as rainfall.`,
			defaultVal: cropgrid.RainfallConversion,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "DayOfPlanting",
			usage: `
              DayOfPlanting is the day of year on which planting occurs
              (the DOYP simulation control parameter).`,
			defaultVal: 121,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "PrintoutFreq",
			usage: `
              PrintoutFreq is the output printout frequency in days
              (the FROP simulation control parameter).`,
			defaultVal: 3,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Daily.Irrigation",
			usage: `
              Daily.Irrigation is the irrigation amount applied on every
              simulated day [mm].`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Daily.TempMax",
			usage: `
              Daily.TempMax is the maximum temperature on every simulated
              day [°C].`,
			defaultVal: 20.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Daily.TempMin",
			usage: `
              Daily.TempMin is the minimum temperature on every simulated
              day [°C].`,
			defaultVal: 4.4,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Daily.EnergyFlux",
			usage: `
              Daily.EnergyFlux is the solar radiation on every simulated
              day [MJ/m²/d].`,
			defaultVal: 5.1,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Daily.ParFlux",
			usage: `
              Daily.ParFlux is the photosynthetically active radiation on
              every simulated day [MJ/m²/d].`,
			defaultVal: 10.7,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "TestGrid.Nx",
			usage: `
              TestGrid.Nx is the number of cells in the x direction of the
              sample grid written by the testgrid command.`,
			defaultVal: 5,
			flagsets:   []*pflag.FlagSet{testgridCmd.Flags()},
		},
		{
			name: "TestGrid.Ny",
			usage: `
              TestGrid.Ny is the number of cells in the y direction of the
              sample grid written by the testgrid command.`,
			defaultVal: 5,
			flagsets:   []*pflag.FlagSet{testgridCmd.Flags()},
		},
		{
			name: "TestGrid.Days",
			usage: `
              TestGrid.Days is the length of the time dimension of the
              sample grid written by the testgrid command.`,
			defaultVal: 10,
			flagsets:   []*pflag.FlagSet{testgridCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("CROPGRID")

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case []string:
				if option.shorthand == "" {
					set.StringSlice(option.name, option.defaultVal.([]string), option.usage)
				} else {
					set.StringSliceP(option.name, option.shorthand, option.defaultVal.([]string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(runCmd)
	Root.AddCommand(testgridCmd)
}

// outChan returns a channel printing to standard output.
func outChan() chan string {
	outChan := make(chan string)
	go func() {
		for {
			msg := <-outChan
			fmt.Printf(msg)
		}
	}()
	return outChan
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("cropgrid: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "cropgrid",
	Short: "A gridded driver for the SimpleCrop point simulation model.",
	Long: `CropGrid runs the SimpleCrop crop growth model once for every cell of a
gridded driver field, writing each cell's inputs into an isolated working
directory and collecting the per-cell outputs.

Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'CROPGRID_var' where 'var'
is the name of the variable to be set. Many configuration variables are
additionally allowed to contain environment variables within them.
Refer to https://github.com/spf13/viper for additional configuration
information.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of CropGrid.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("CropGrid v%s\n", cropgrid.Version)
	},
	DisableAutoGenTag: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the model over every grid cell.",
	Long: `run executes the SimpleCrop model once for every cell of the gridded
driver variable, in a deterministic cell order, and reports a summary of the
per-cell results.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// The dimension order may come from a flag (a string slice) or
		// from a configuration file (a list of interface{} values).
		dimOrder, err := cast.ToStringSliceE(Cfg.Get("DimensionOrder"))
		if err != nil {
			return fmt.Errorf("cropgrid: DimensionOrder must be a list of dimension names: %v", err)
		}
		return Run(context.Background(),
			os.ExpandEnv(Cfg.GetString("SimpleCropExe")),
			os.ExpandEnv(Cfg.GetString("InputData")),
			Cfg.GetString("VariableName"),
			dimOrder,
			Cfg.GetString("TimeDimension"),
			os.ExpandEnv(Cfg.GetString("WorkDir")),
			Cfg.GetInt("Workers"))
	},
	DisableAutoGenTag: true,
}

var testgridCmd = &cobra.Command{
	Use:   "testgrid",
	Short: "Write a sample gridded driver file",
	Long: `testgrid writes a small NetCDF file holding a uniform gridded driver
variable, for use in trial runs of the model.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return WriteTestGrid(
			os.ExpandEnv(Cfg.GetString("InputData")),
			Cfg.GetString("VariableName"),
			Cfg.GetInt("TestGrid.Nx"),
			Cfg.GetInt("TestGrid.Ny"),
			Cfg.GetInt("TestGrid.Days"))
	},
	DisableAutoGenTag: true,
}
