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

// DailyData holds the time-varying inputs to one SimpleCrop run, one
// value per simulated day.
type DailyData struct {
	Irrigation []float64 // irrigation [mm]

	TempMax                  []float64 // maximum temperature [°C]
	TempMin                  []float64 // minimum temperature [°C]
	Rainfall                 []float64 // rainfall [mm]
	EnergyFlux               []float64 // solar radiation [MJ/m²/d]
	PhotosyntheticEnergyFlux []float64 // photosynthetically active radiation [MJ/m²/d]
}

// Copy returns a deep copy of d.
func (d *DailyData) Copy() *DailyData {
	c := func(s []float64) []float64 {
		o := make([]float64, len(s))
		copy(o, s)
		return o
	}
	return &DailyData{
		Irrigation:               c(d.Irrigation),
		TempMax:                  c(d.TempMax),
		TempMin:                  c(d.TempMin),
		Rainfall:                 c(d.Rainfall),
		EnergyFlux:               c(d.EnergyFlux),
		PhotosyntheticEnergyFlux: c(d.PhotosyntheticEnergyFlux),
	}
}

// UniformDailyData returns daily data where every field holds the same
// value on each of days days. It is a convenient starting template when
// only the substituted driver series varies across the grid.
func UniformDailyData(days int, irrigation, tempMax, tempMin, rainfall, energyFlux, parFlux float64) *DailyData {
	fill := func(v float64) []float64 {
		s := make([]float64, days)
		for i := range s {
			s[i] = v
		}
		return s
	}
	return &DailyData{
		Irrigation:               fill(irrigation),
		TempMax:                  fill(tempMax),
		TempMin:                  fill(tempMin),
		Rainfall:                 fill(rainfall),
		EnergyFlux:               fill(energyFlux),
		PhotosyntheticEnergyFlux: fill(parFlux),
	}
}

// YearlyData holds the scalar plant, soil and simulation-control
// parameters of one SimpleCrop run.
type YearlyData struct {
	// Plant parameters.
	PlantLeavesMaxNumber       float64 // lfmax
	PlantEmp2                  float64 // EMP2
	PlantEmp1                  float64 // EMP1
	PlantDensity               float64 // pd
	PlantNb                    float64 // nb
	PlantLeafMaxAppearanceRate float64 // rm
	PlantGrowthCanopyFraction  float64 // fc
	PlantMinReproGrowthTemp    float64 // tb
	PlantReproPhaseDuration    float64 // intot
	PlantLeavesNumberOf        float64 // n
	PlantLeafAreaIndex         float64 // lai
	PlantMatter                float64 // w
	PlantMatterRoot            float64 // wr
	PlantMatterCanopy          float64 // wc
	PlantMatterLeavesRemoved   float64 // p1
	PlantDevelopmentPhase      float64 // f1
	PlantLeafSpecificArea      float64 // sla

	// Soil parameters.
	SoilWaterContentWiltingPoint  float64 // WPp [cm³/cm³]
	SoilWaterContentFieldCapacity float64 // FCp [cm³/cm³]
	SoilWaterContentSaturation    float64 // STp [cm³/cm³]
	SoilProfileDepth              float64 // DP [cm]
	SoilDrainageDailyPercent      float64 // DRNp [frac/d]
	SoilRunoffCurveNumber         float64 // CN
	SoilWaterStorage              float64 // SWC [mm]

	// Simulation control.
	DayOfPlanting int // DOYP
	PrintoutFreq  int // FROP
}

// DefaultYearlyData returns the parameter values of the SimpleCrop
// reference deck.
func DefaultYearlyData() YearlyData {
	return YearlyData{
		PlantLeavesMaxNumber:       12.0,
		PlantEmp2:                  0.64,
		PlantEmp1:                  0.104,
		PlantDensity:               5.0,
		PlantNb:                    5.3,
		PlantLeafMaxAppearanceRate: 0.100,
		PlantGrowthCanopyFraction:  0.85,
		PlantMinReproGrowthTemp:    10.0,
		PlantReproPhaseDuration:    300.0,
		PlantLeavesNumberOf:        2.0,
		PlantLeafAreaIndex:         0.013,
		PlantMatter:                0.3,
		PlantMatterRoot:            0.045,
		PlantMatterCanopy:          0.255,
		PlantMatterLeavesRemoved:   0.03,
		PlantDevelopmentPhase:      0.028,
		PlantLeafSpecificArea:      0.035,

		SoilWaterContentWiltingPoint:  0.06,
		SoilWaterContentFieldCapacity: 0.17,
		SoilWaterContentSaturation:    0.28,
		SoilProfileDepth:              145.00,
		SoilDrainageDailyPercent:      0.10,
		SoilRunoffCurveNumber:         55.00,
		SoilWaterStorage:              246.50,

		DayOfPlanting: 121,
		PrintoutFreq:  3,
	}
}

// A Config is the complete input to one SimpleCrop run.
type Config struct {
	Daily  *DailyData
	Yearly YearlyData
}

// RainfallConversion is the default factor applied to the extracted
// driver series before it is substituted as rainfall: the gridded
// infiltration depth is a fraction, SimpleCrop expects a percent-scaled
// depth.
const RainfallConversion = 100.

// CellConfig returns an independent copy of the template configuration
// with the cell's extracted driver series, multiplied by conv,
// substituted as rainfall. The template is never mutated; every grid
// cell receives its own copy.
func (c *Config) CellConfig(driver []float64, conv float64) *Config {
	daily := c.Daily.Copy()
	daily.Rainfall = make([]float64, len(driver))
	for i, v := range driver {
		daily.Rainfall[i] = v * conv
	}
	return &Config{Daily: daily, Yearly: c.Yearly}
}
