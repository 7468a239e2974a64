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

import "fmt"

// SplitTime partitions dims into the temporal dimension named timeName
// and the spatial dimensions (all others, keeping their order). There
// must be exactly one temporal dimension.
func SplitTime(dims []Dimension, timeName string) (spatial []Dimension, time Dimension, err error) {
	found := false
	for _, d := range dims {
		if d.Name() == timeName {
			if found {
				return nil, Dimension{}, fmt.Errorf("cropgrid: duplicate time dimension %q", timeName)
			}
			time = d
			found = true
			continue
		}
		spatial = append(spatial, d)
	}
	if !found {
		return nil, Dimension{}, fmt.Errorf("cropgrid: no time dimension %q among %d dimensions", timeName, len(dims))
	}
	return spatial, time, nil
}

// EnumerateCells returns one coordinate tuple for every combination of
// coordinates of the given spatial dimensions: the Cartesian product of
// 0..size for each dimension, with the leftmost dimension varying
// slowest. The enumeration order is fixed and reproducible; it defines
// the linear cell index used for working-directory naming.
func EnumerateCells(spatial []Dimension) [][]int {
	n := 1
	for _, d := range spatial {
		n *= d.Size()
	}
	if len(spatial) == 0 {
		return [][]int{{}}
	}
	cells := make([][]int, 0, n)
	coord := make([]int, len(spatial))
	for {
		c := make([]int, len(coord))
		copy(c, coord)
		cells = append(cells, c)
		i := len(coord) - 1
		for ; i >= 0; i-- {
			coord[i]++
			if coord[i] < spatial[i].Size() {
				break
			}
			coord[i] = 0
		}
		if i < 0 {
			return cells
		}
	}
}

// CellSpec builds the slice specification that extracts one cell's time
// series: every spatial dimension is fixed to its coordinate and the
// temporal dimension is kept Full. dims is the full target-order
// dimension list, coord one coordinate per non-temporal dimension in the
// same order.
func CellSpec(dims []Dimension, timeName string, coord []int) (SliceSpec, error) {
	spec := make(SliceSpec, len(dims))
	j := 0
	for i, d := range dims {
		if d.Name() == timeName {
			spec[i] = Full()
			continue
		}
		if j >= len(coord) {
			return nil, fmt.Errorf("cropgrid: coordinate %v too short for %d spatial dimensions", coord, len(dims)-1)
		}
		spec[i] = FixedAt(coord[j])
		j++
	}
	if j != len(coord) {
		return nil, fmt.Errorf("cropgrid: coordinate %v has %d entries for %d spatial dimensions", coord, len(coord), j)
	}
	return spec, nil
}
