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

// Package cropgrid runs the SimpleCrop point simulation model over every
// cell of a gridded driver field. A multidimensional variable (for example
// infiltrated water depth on an x, y, time grid) is decomposed into
// independent per-cell daily time series; each series is written into the
// fixed-column input decks that the SimpleCrop executable expects, the
// executable is run once per grid cell in an isolated working directory,
// and its fixed-column output files are parsed back into structured
// per-cell datasets.
package cropgrid

// Version gives the version number of this version of CropGrid.
const Version = "0.1.0"
