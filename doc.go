/*
Copyright © 2025 the InMAP authors.
This file is part of berkeleyearth.

berkeleyearth is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

berkeleyearth is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with berkeleyearth.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package berkeleyearth reads and post-processes the Berkeley Earth daily
// gridded land surface temperature datasets.
//
// Raw files are located through a Source, normalized so that every dataset
// has a decoded time axis and "lat"/"lon" coordinates, and then reduced
// with the climatology, data availability and masking operations in this
// package. Derived fields can be saved back under the Source's
// post-processing directory.
package berkeleyearth

// Version is the version of this package.
const Version = "0.1.0"
