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

// Command cropgrid is a command-line interface for running the
// SimpleCrop model over a gridded driver field.
package main

import (
	"fmt"
	"os"

	"github.com/spatialmodel/cropgrid/cropgridutil"
)

func main() {
	if err := cropgridutil.Root.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
}
