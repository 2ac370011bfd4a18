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
	"math"

	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	yearDim  = "year"
	landMask = "land_mask"
)

// LandWithoutData returns 1 at land grid points where dataVariable has no
// data at any time step and 0 elsewhere. dataVariable defaults to
// "temperature".
func LandWithoutData(ds *Dataset, dataVariable string) (*Array, error) {
	if dataVariable == "" {
		dataVariable = "temperature"
	}
	data, err := ds.Array(dataVariable)
	if err != nil {
		return nil, err
	}
	mask, err := ds.Array(landMask)
	if err != nil {
		return nil, err
	}
	axis := data.Axis(timeDim)
	if axis < 0 {
		return nil, fmt.Errorf("berkeleyearth: %s has no %s dimension: %w", dataVariable, timeDim, ErrSchema)
	}
	missing := dropAxis(reduce(data.Data, axis, [][]int{all(data.Data.Shape[axis])}, allMissing), axis)
	dims := removeDim(data.Dims, timeDim)
	if !equalStrings(dims, mask.Dims) || !equalInts(missing.Shape, mask.Data.Shape) {
		return nil, fmt.Errorf("berkeleyearth: %s grid %v%v does not match %s %v%v: %w",
			dataVariable, dims, missing.Shape, landMask, mask.Dims, mask.Data.Shape, ErrSchema)
	}
	for i, m := range mask.Data.Elements {
		if !(m > 0) {
			missing.Elements[i] = 0
		}
	}
	out := mask.newArray(dims, missing)
	out.Name = "land_without_data"
	out.Attrs = make(map[string]interface{})
	return out, nil
}

// CleanLandMask returns the land mask of ds with the grid points that never
// have any data set to 0.
func CleanLandMask(ds *Dataset, dataVariable string) (*Array, error) {
	noData, err := LandWithoutData(ds, dataVariable)
	if err != nil {
		return nil, err
	}
	mask, err := ds.Array(landMask)
	if err != nil {
		return nil, err
	}
	out := mask.newArray(append([]string(nil), mask.Dims...), sparse.ZerosDense(mask.Data.Shape...))
	for i, v := range mask.Data.Elements {
		if noData.Data.Elements[i] == 1 {
			v = 0
		}
		out.Data.Elements[i] = v
	}
	return out, nil
}

// AnnualAvailability returns, for each calendar year, the fraction of days
// with data at each grid point. The number of days in a year is the largest
// day of year present in a's time axis for that year, so a partial final
// year is judged against the days it covers.
func AnnualAvailability(a *Array) (*Array, error) {
	groups, years, err := yearGroups(a)
	if err != nil {
		return nil, err
	}
	nDays := make([]float64, len(groups))
	for g, grp := range groups {
		for _, i := range grp {
			nDays[g] = math.Max(nDays[g], float64(a.Time[i].YearDay()))
		}
	}
	axis := a.Axis(timeDim)
	count := reduce(a.Data, axis, groups, countValid)
	outer, n, inner := split(count.Shape, axis)
	for o := 0; o < outer; o++ {
		for g := 0; g < n; g++ {
			for k := 0; k < inner; k++ {
				count.Elements[(o*n+g)*inner+k] /= nDays[g]
			}
		}
	}
	return annualArray(a, count, years), nil
}

// RequireValid returns data with values removed where too little data
// went into them. notNull is the fraction of valid days per year, as
// returned by AnnualAvailability. Values in years where notNull does not
// exceed validDays are removed first; then all years are removed at grid
// points where the number of remaining years does not exceed validYears
// times the number of years.
func RequireValid(data, notNull *Array, validDays, validYears float64) (*Array, error) {
	if !(validDays >= 0 && validDays <= 1) {
		return nil, fmt.Errorf("berkeleyearth: valid days fraction %g not in [0, 1]: %w", validDays, ErrInvalidArgument)
	}
	if !(validYears >= 0 && validYears <= 1) {
		return nil, fmt.Errorf("berkeleyearth: valid years fraction %g not in [0, 1]: %w", validYears, ErrInvalidArgument)
	}
	if !equalStrings(data.Dims, notNull.Dims) || !equalInts(data.Data.Shape, notNull.Data.Shape) {
		return nil, fmt.Errorf("berkeleyearth: data %v%v and availability %v%v do not match: %w",
			data.Dims, data.Data.Shape, notNull.Dims, notNull.Data.Shape, ErrSchema)
	}
	axis := data.Axis(yearDim)
	if axis < 0 {
		return nil, fmt.Errorf("berkeleyearth: %s has no %s dimension: %w", data.Name, yearDim, ErrSchema)
	}
	out := data.newArray(append([]string(nil), data.Dims...), sparse.ZerosDense(data.Data.Shape...))
	for i, v := range data.Data.Elements {
		if !(notNull.Data.Elements[i] > validDays) {
			v = math.NaN()
		}
		out.Data.Elements[i] = v
	}

	outer, nYears, inner := split(out.Data.Shape, axis)
	need := float64(nYears) * validYears
	for o := 0; o < outer; o++ {
		for k := 0; k < inner; k++ {
			var valid float64
			for y := 0; y < nYears; y++ {
				if !math.IsNaN(out.Data.Elements[(o*nYears+y)*inner+k]) {
					valid++
				}
			}
			if valid > need {
				continue
			}
			for y := 0; y < nYears; y++ {
				out.Data.Elements[(o*nYears+y)*inner+k] = math.NaN()
			}
		}
	}
	return out, nil
}

// AnnualMax returns the largest value of each calendar year, ignoring
// missing values.
func AnnualMax(a *Array) (*Array, error) { return annualReduce(a, nanMax) }

// AnnualMin returns the smallest value of each calendar year, ignoring
// missing values.
func AnnualMin(a *Array) (*Array, error) { return annualReduce(a, nanMin) }

// AnnualMean returns the mean of each calendar year, ignoring missing values.
func AnnualMean(a *Array) (*Array, error) { return annualReduce(a, nanMean) }

func annualReduce(a *Array, f func([]float64) float64) (*Array, error) {
	groups, years, err := yearGroups(a)
	if err != nil {
		return nil, err
	}
	return annualArray(a, reduce(a.Data, a.Axis(timeDim), groups, f), years), nil
}

// yearGroups returns the positions along the time axis of a belonging to
// each calendar year, in order of first appearance.
func yearGroups(a *Array) (groups [][]int, years []float64, err error) {
	if a.Axis(timeDim) < 0 || a.Time == nil {
		return nil, nil, fmt.Errorf("berkeleyearth: %s has no decoded %s axis: %w", a.Name, timeDim, ErrSchema)
	}
	pos := make(map[int]int)
	for i, t := range a.Time {
		y := t.Year()
		g, ok := pos[y]
		if !ok {
			g = len(groups)
			pos[y] = g
			groups = append(groups, nil)
			years = append(years, float64(y))
		}
		groups[g] = append(groups[g], i)
	}
	return groups, years, nil
}

func annualArray(a *Array, data *sparse.DenseArray, years []float64) *Array {
	out := a.newArray(replaceDim(a.Dims, timeDim, yearDim), data)
	out.Coords[yearDim] = years
	return out
}

func nanValues(vals []float64) []float64 {
	o := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(v) {
			o = append(o, v)
		}
	}
	return o
}

func nanMax(vals []float64) float64 {
	v := nanValues(vals)
	if len(v) == 0 {
		return math.NaN()
	}
	return floats.Max(v)
}

func nanMin(vals []float64) float64 {
	v := nanValues(vals)
	if len(v) == 0 {
		return math.NaN()
	}
	return floats.Min(v)
}

func nanMean(vals []float64) float64 {
	v := nanValues(vals)
	if len(v) == 0 {
		return math.NaN()
	}
	return stat.Mean(v, nil)
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
