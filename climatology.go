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

package berkeleyearth

import (
	"fmt"

	"github.com/ctessum/sparse"
)

const (
	dayNumberDim = "day_number"
	dayOfYearDim = "dayofyear"
)

// ExtendClimatology returns the "climatology" field of ds labeled by day of
// year, with a 366th day added as the mean of the first and 365th days so
// that leap years can be matched.
func ExtendClimatology(ds *Dataset) (*Array, error) {
	clim, err := ds.Array("climatology")
	if err != nil {
		return nil, err
	}
	if len(clim.Dims) == 0 || (clim.Dims[0] != dayNumberDim && clim.Dims[0] != dayOfYearDim) {
		return nil, fmt.Errorf("berkeleyearth: climatology dimensions %v do not start with %s: %w", clim.Dims, dayNumberDim, ErrSchema)
	}
	if n := clim.Data.Shape[0]; n != 365 {
		return nil, fmt.Errorf("berkeleyearth: climatology has %d days, want 365: %w", n, ErrSchema)
	}
	first := take(clim.Data, 0, []int{0})
	last := take(clim.Data, 0, []int{364})
	leap := sparse.ZerosDense(first.Shape...)
	for i := range leap.Elements {
		leap.Elements[i] = (first.Elements[i] + last.Elements[i]) / 2
	}
	data, err := concat([]*sparse.DenseArray{clim.Data, leap}, 0)
	if err != nil {
		return nil, err
	}
	dims := replaceDim(clim.Dims, clim.Dims[0], dayOfYearDim)
	out := clim.newArray(dims, data)
	doy := make([]float64, 366)
	for i := range doy {
		doy[i] = float64(i + 1)
	}
	out.Coords[dayOfYearDim] = doy
	return out, nil
}

// AddClimatology returns the absolute temperature: the "temperature"
// anomaly of ds plus the climatology of each time step's day of year.
func AddClimatology(ds *Dataset) (*Array, error) {
	clim, err := ExtendClimatology(ds)
	if err != nil {
		return nil, err
	}
	temp, err := ds.Array("temperature")
	if err != nil {
		return nil, err
	}
	if temp.Axis(timeDim) != 0 || temp.Time == nil {
		return nil, fmt.Errorf("berkeleyearth: temperature dimensions %v do not start with a decoded %s axis: %w", temp.Dims, timeDim, ErrSchema)
	}
	if len(temp.Dims) != len(clim.Dims) {
		return nil, fmt.Errorf("berkeleyearth: temperature dimensions %v do not match climatology %v: %w", temp.Dims, clim.Dims, ErrSchema)
	}
	for i := 1; i < len(temp.Dims); i++ {
		if temp.Dims[i] != clim.Dims[i] || temp.Data.Shape[i] != clim.Data.Shape[i] {
			return nil, fmt.Errorf("berkeleyearth: temperature shape %v%v does not match climatology %v%v: %w",
				temp.Dims, temp.Data.Shape, clim.Dims, clim.Data.Shape, ErrSchema)
		}
	}
	idx := make([]int, len(temp.Time))
	for i, t := range temp.Time {
		idx[i] = t.YearDay() - 1
	}
	data := take(clim.Data, 0, idx)
	for i, v := range temp.Data.Elements {
		data.Elements[i] += v
	}
	return temp.newArray(append([]string(nil), temp.Dims...), data), nil
}
