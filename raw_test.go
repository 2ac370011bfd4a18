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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ctessum/sparse"
)

var (
	testLats = []float64{-70, -30.5, 45.5}
	testLons = []float64{-120.5, 10.5}
)

// testValue is the temperature anomaly stored in the raw test files.
func testValue(t time.Time, j, k int) float64 {
	return float64(t.YearDay()) + 1000*float64(j) + 100*float64(k)
}

// testClimatology is the climatology stored in the raw test files.
func testClimatology(day, j, k int) float64 {
	return float64(day) / 10
}

// rawDataset creates a dataset laid out like a raw Berkeley Earth file
// with one row per day from first to last, inclusive.
func rawDataset(first, last time.Time) *Dataset {
	var days []time.Time
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	nt, nlat, nlon := len(days), len(testLats), len(testLons)

	ds := NewDataset()
	ds.Attrs["title"] = "Test Berkeley Earth data"
	fields := map[string]func(time.Time) float64{
		"year":        func(t time.Time) float64 { return float64(t.Year()) },
		"month":       func(t time.Time) float64 { return float64(t.Month()) },
		"day":         func(t time.Time) float64 { return float64(t.Day()) },
		"date_number": func(t time.Time) float64 { return float64(t.Year()) + float64(t.YearDay()-1)/365 },
	}
	for name, f := range fields {
		data := sparse.ZerosDense(nt)
		for i, d := range days {
			data.Elements[i] = f(d)
		}
		ds.Vars[name] = NewVariable([]string{"time"}, data)
	}
	timeCoord := make([]float64, nt)
	for i, d := range days {
		timeCoord[i] = fields["date_number"](d)
	}
	ds.Coords["time"] = timeCoord
	ds.Coords["latitude"] = testLats
	ds.Coords["longitude"] = testLons
	dayNumber := make([]float64, 365)
	for i := range dayNumber {
		dayNumber[i] = float64(i + 1)
	}
	ds.Coords["day_number"] = dayNumber

	temp := sparse.ZerosDense(nt, nlat, nlon)
	for i, d := range days {
		for j := 0; j < nlat; j++ {
			for k := 0; k < nlon; k++ {
				v := testValue(d, j, k)
				if k == 1 && j == 2 {
					v = math.NaN() // land without any data
				}
				temp.Set(v, i, j, k)
			}
		}
	}
	ds.Vars["temperature"] = NewVariable([]string{"time", "latitude", "longitude"}, temp)
	ds.Vars["temperature"].Attrs["units"] = "degree C"

	clim := sparse.ZerosDense(365, nlat, nlon)
	for i := 0; i < 365; i++ {
		for j := 0; j < nlat; j++ {
			for k := 0; k < nlon; k++ {
				clim.Set(testClimatology(i+1, j, k), i, j, k)
			}
		}
	}
	ds.Vars["climatology"] = NewVariable([]string{"day_number", "latitude", "longitude"}, clim)

	mask := sparse.ZerosDense(nlat, nlon)
	for i := range mask.Elements {
		mask.Elements[i] = 1
	}
	mask.Elements[0] = 0 // sea
	ds.Vars["land_mask"] = NewVariable([]string{"latitude", "longitude"}, mask)
	return ds
}

// writeRawFiles writes raw test files for variable below root/version,
// one per decade, covering first to last.
func writeRawFiles(t *testing.T, root, version, variable string, first, last time.Time) {
	t.Helper()
	dir := filepath.Join(root, version, "raw", variable)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	for start := first; !start.After(last); {
		decade := start.Year() / 10 * 10
		end := time.Date(decade+9, time.December, 31, 0, 0, 0, 0, time.UTC)
		if end.After(last) {
			end = last
		}
		path := filepath.Join(dir, fmt.Sprintf("Complete_%s_Daily_LatLong1_%d.nc", variable, decade))
		if err := WriteDataset(path, rawDataset(start, end)); err != nil {
			t.Fatal(err)
		}
		start = end.AddDate(0, 0, 1)
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// newTestArray returns an array with the given dimensions holding vals.
func newTestArray(dims []string, shape []int, vals []float64) *Array {
	data := sparse.ZerosDense(shape...)
	copy(data.Elements, vals)
	return &Array{
		Name:     "test",
		Variable: *NewVariable(dims, data),
		Coords:   make(map[string][]float64),
	}
}
