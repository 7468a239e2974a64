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
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// The fixed-column layouts below are dictated by the SimpleCrop
// executable and must not be changed.

// check verifies that every daily series holds one value per simulated
// day. A template whose series lengths disagree (for example after a
// driver substitution of a different length) must be rejected here
// rather than indexing out of range in the deck writers.
func (d *DailyData) check() error {
	n := len(d.TempMax)
	series := []struct {
		name string
		s    []float64
	}{
		{"Irrigation", d.Irrigation},
		{"TempMin", d.TempMin},
		{"Rainfall", d.Rainfall},
		{"EnergyFlux", d.EnergyFlux},
		{"PhotosyntheticEnergyFlux", d.PhotosyntheticEnergyFlux},
	}
	for _, ss := range series {
		if len(ss.s) != n {
			return fmt.Errorf("cropgrid: daily series %s has %d values for %d simulated days", ss.name, len(ss.s), n)
		}
	}
	return nil
}

// SaveWeather writes the weather.inp deck: one line per day holding the
// day number, solar radiation, maximum and minimum temperature,
// rainfall, a blank block and photosynthetically active radiation.
func (d *DailyData) SaveWeather(w io.Writer) error {
	for i := range d.TempMax {
		_, err := fmt.Fprintf(w, "%5d  %4.1f  %4.1f  %4.1f%6.1f              %4.1f\n",
			i+1, d.EnergyFlux[i], d.TempMax[i], d.TempMin[i],
			d.Rainfall[i], d.PhotosyntheticEnergyFlux[i])
		if err != nil {
			return err
		}
	}
	return nil
}

// SaveIrrigation writes the irrig.inp deck: one line per day holding the
// day number and the irrigation amount.
func (d *DailyData) SaveIrrigation(w io.Writer) error {
	for i, obs := range d.Irrigation {
		if _, err := fmt.Fprintf(w, "%5d  %1.1f\n", i+1, obs); err != nil {
			return err
		}
	}
	return nil
}

// SavePlantConfig writes the plant.inp deck: the 17 plant parameters on
// one line followed by the fixed label line.
func (y *YearlyData) SavePlantConfig(w io.Writer) error {
	_, err := fmt.Fprintf(w,
		" %7.4f %7.4f %7.4f %7.4f %7.4f %7.4f %7.4f %7.4f %7.4f %7.4f %7.4f %7.4f %7.4f %7.4f %7.4f %7.4f %7.4f\n",
		y.PlantLeavesMaxNumber, y.PlantEmp2, y.PlantEmp1, y.PlantDensity, y.PlantNb,
		y.PlantLeafMaxAppearanceRate, y.PlantGrowthCanopyFraction, y.PlantMinReproGrowthTemp,
		y.PlantReproPhaseDuration, y.PlantLeavesNumberOf, y.PlantLeafAreaIndex, y.PlantMatter,
		y.PlantMatterRoot, y.PlantMatterCanopy, y.PlantMatterLeavesRemoved,
		y.PlantDevelopmentPhase, y.PlantLeafSpecificArea)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, "   Lfmax    EMP2    EMP1      PD      nb      rm      fc      tb   intot       n     lai       w      wr      wc      p1      f1    sla\n")
	return err
}

// SaveSoilConfig writes the soil.inp deck: the 7 soil parameters on one
// line followed by the fixed label and unit lines.
func (y *YearlyData) SaveSoilConfig(w io.Writer) error {
	_, err := fmt.Fprintf(w, "     %5.2f     %5.2f     %5.2f     %7.2f     %5.2f     %5.2f     %5.2f\n",
		y.SoilWaterContentWiltingPoint, y.SoilWaterContentFieldCapacity,
		y.SoilWaterContentSaturation, y.SoilProfileDepth, y.SoilDrainageDailyPercent,
		y.SoilRunoffCurveNumber, y.SoilWaterStorage)
	if err != nil {
		return err
	}
	if _, err = io.WriteString(w, "       WPp       FCp       STp          DP      DRNp        CN        SWC\n"); err != nil {
		return err
	}
	_, err = io.WriteString(w, "  (cm3/cm3) (cm3/cm3) (cm3/cm3)        (cm)  (frac/d)        -       (mm)\n")
	return err
}

// SaveSimulationConfig writes the simctrl.inp deck: the day of planting
// and printout frequency followed by the fixed label line.
func (y *YearlyData) SaveSimulationConfig(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "%6d %5d\n", y.DayOfPlanting, y.PrintoutFreq); err != nil {
		return err
	}
	_, err := io.WriteString(w, "  DOYP  FROP\n")
	return err
}

// WriteInputs writes all five input decks into dir/data, creating the
// directory as needed. Any failure is a PersistError; no partially
// usable input set is reported as success.
func (c *Config) WriteInputs(dir string) error {
	if err := c.Daily.check(); err != nil {
		return err
	}
	dp := filepath.Join(dir, "data")
	if err := os.MkdirAll(dp, os.ModePerm); err != nil {
		return &PersistError{Path: dp, Err: err}
	}
	files := []struct {
		name string
		save func(io.Writer) error
	}{
		{"weather.inp", c.Daily.SaveWeather},
		{"irrig.inp", c.Daily.SaveIrrigation},
		{"plant.inp", c.Yearly.SavePlantConfig},
		{"soil.inp", c.Yearly.SaveSoilConfig},
		{"simctrl.inp", c.Yearly.SaveSimulationConfig},
	}
	for _, file := range files {
		p := filepath.Join(dp, file.name)
		if err := writeFile(p, file.save); err != nil {
			return &PersistError{Path: p, Err: err}
		}
	}
	return nil
}

func writeFile(path string, save func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if err := save(w); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// A PlantDataSet is the plant growth time series parsed from one cell's
// plant.out file.
type PlantDataSet struct {
	DayOfYear       []int
	LeafCount       []float64
	AccumulatedTemp []float64
	Matter          []float64
	MatterCanopy    []float64
	MatterFruit     []float64
	MatterRoot      []float64
	LeafAreaIndex   []float64
}

// plantHeaderLines is the number of header lines preceding the data rows
// in plant.out.
const plantHeaderLines = 9

// soilHeaderLines is the number of header lines preceding the data rows
// in soil.out.
const soilHeaderLines = 6

// parseRow splits a line on whitespace and parses the first token as a
// day of year and the rest as floating point values. It returns false if
// the column count does not match want or any token fails to parse; such
// rows are dropped by the callers in favor of recovering whatever data a
// partially written output file still holds.
func parseRow(line string, want int) (doy int, vals []float64, ok bool) {
	fields := strings.Fields(line)
	if len(fields) != want+1 {
		return 0, nil, false
	}
	doy, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, nil, false
	}
	vals = make([]float64, want)
	for i, f := range fields[1:] {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return 0, nil, false
		}
		vals[i] = v
	}
	return doy, vals, true
}

// ReadPlantDataSet parses a plant.out stream. Malformed rows are
// dropped, so the record count may be less than the number of lines.
func ReadPlantDataSet(r io.Reader) (*PlantDataSet, error) {
	p := new(PlantDataSet)
	scanner := bufio.NewScanner(r)
	for i := 0; scanner.Scan(); i++ {
		if i < plantHeaderLines {
			continue
		}
		// Columns are doy, n, intc, w, wc, wr, wf, lai.
		doy, v, ok := parseRow(scanner.Text(), 7)
		if !ok {
			continue
		}
		p.DayOfYear = append(p.DayOfYear, doy)
		p.LeafCount = append(p.LeafCount, v[0])
		p.AccumulatedTemp = append(p.AccumulatedTemp, v[1])
		p.Matter = append(p.Matter, v[2])
		p.MatterCanopy = append(p.MatterCanopy, v[3])
		p.MatterRoot = append(p.MatterRoot, v[4])
		p.MatterFruit = append(p.MatterFruit, v[5])
		p.LeafAreaIndex = append(p.LeafAreaIndex, v[6])
	}
	return p, scanner.Err()
}

// A SoilDataSet is the soil water time series parsed from one cell's
// soil.out file. The raw weather columns that SimpleCrop echoes back
// (radiation, temperatures, rain) are discarded.
type SoilDataSet struct {
	DayOfYear              []int
	Irrigation             []float64
	Runoff                 []float64
	Infiltration           []float64
	Drainage               []float64
	Evapotranspiration     []float64
	Evaporation            []float64
	PotentialTranspiration []float64
	WaterStorage           []float64
	WaterProfileRatio      []float64
	WaterDeficitStress     []float64
	WaterExcessStress      []float64
}

// ReadSoilDataSet parses a soil.out stream. Malformed rows are dropped.
func ReadSoilDataSet(r io.Reader) (*SoilDataSet, error) {
	s := new(SoilDataSet)
	scanner := bufio.NewScanner(r)
	for i := 0; scanner.Scan(); i++ {
		if i < soilHeaderLines {
			continue
		}
		// Columns are doy, srad, tmax, tmin, rain, irr, rof, inf, drn,
		// etp, esa, epa, swc, swc/dp, swfac1, swfac2. The first four
		// values echo the weather inputs and are discarded.
		doy, v, ok := parseRow(scanner.Text(), 15)
		if !ok {
			continue
		}
		s.DayOfYear = append(s.DayOfYear, doy)
		s.Irrigation = append(s.Irrigation, v[4])
		s.Runoff = append(s.Runoff, v[5])
		s.Infiltration = append(s.Infiltration, v[6])
		s.Drainage = append(s.Drainage, v[7])
		s.Evapotranspiration = append(s.Evapotranspiration, v[8])
		s.Evaporation = append(s.Evaporation, v[9])
		s.PotentialTranspiration = append(s.PotentialTranspiration, v[10])
		s.WaterStorage = append(s.WaterStorage, v[11])
		s.WaterProfileRatio = append(s.WaterProfileRatio, v[12])
		s.WaterDeficitStress = append(s.WaterDeficitStress, v[13])
		s.WaterExcessStress = append(s.WaterExcessStress, v[14])
	}
	return s, scanner.Err()
}

// A Dataset holds the parsed outputs of one SimpleCrop run.
type Dataset struct {
	Plant *PlantDataSet
	Soil  *SoilDataSet
}

// LoadDataSet reads plant.out and soil.out from dir/output. Open and
// read failures are PersistErrors; individual malformed rows within the
// files are dropped.
func LoadDataSet(dir string) (*Dataset, error) {
	op := filepath.Join(dir, "output")
	plant, err := loadPlant(filepath.Join(op, "plant.out"))
	if err != nil {
		return nil, err
	}
	soil, err := loadSoil(filepath.Join(op, "soil.out"))
	if err != nil {
		return nil, err
	}
	return &Dataset{Plant: plant, Soil: soil}, nil
}

func loadPlant(path string) (*PlantDataSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &PersistError{Path: path, Err: err}
	}
	defer f.Close()
	p, err := ReadPlantDataSet(f)
	if err != nil {
		return nil, &PersistError{Path: path, Err: err}
	}
	return p, nil
}

func loadSoil(path string) (*SoilDataSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &PersistError{Path: path, Err: err}
	}
	defer f.Close()
	s, err := ReadSoilDataSet(f)
	if err != nil {
		return nil, &PersistError{Path: path, Err: err}
	}
	return s, nil
}
