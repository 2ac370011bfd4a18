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
	"time"
)

// dateFields are the raw per-row calendar fields replaced by the time axis.
var dateFields = []string{"year", "month", "day", "date_number"}

// renames maps raw coordinate names to their standard names.
var renames = map[string]string{
	"longitude": "lon",
	"latitude":  "lat",
}

// Normalize converts a raw Berkeley Earth dataset into one with a daily
// time axis. The time stamps are built from the integer year, month and
// day fields, which are dropped along with date_number, and the latitude
// and longitude coordinates are renamed to lat and lon.
func Normalize(raw *Dataset) (*Dataset, error) {
	for _, f := range []string{"year", "month", "day", "date_number", "longitude", "latitude"} {
		if !raw.Has(f) {
			return nil, fmt.Errorf("berkeleyearth: normalizing dataset: missing field %q: %w", f, ErrSchema)
		}
	}

	var n int
	fields := make([][]float64, 3)
	for i, f := range dateFields[:3] {
		v, ok := raw.Vars[f]
		if !ok || len(v.Dims) != 1 || v.Dims[0] != timeDim {
			return nil, fmt.Errorf("berkeleyearth: normalizing dataset: field %q must be one-dimensional along %s: %w", f, timeDim, ErrSchema)
		}
		if i == 0 {
			n = v.Data.Shape[0]
		} else if v.Data.Shape[0] != n {
			return nil, fmt.Errorf("berkeleyearth: normalizing dataset: field %q has %d rows, want %d: %w", f, v.Data.Shape[0], n, ErrSchema)
		}
		fields[i] = v.Data.Elements
	}

	t := make([]time.Time, n)
	for i := range t {
		y, m, d := fields[0][i], fields[1][i], fields[2][i]
		if math.IsNaN(y) || math.IsNaN(m) || math.IsNaN(d) {
			return nil, fmt.Errorf("berkeleyearth: normalizing dataset: row %d has a missing date: %w", i, ErrSchema)
		}
		t[i] = time.Date(int(y), time.Month(int(m)), int(d), 0, 0, 0, 0, time.UTC)
		if t[i].Year() != int(y) || int(t[i].Month()) != int(m) || t[i].Day() != int(d) {
			return nil, fmt.Errorf("berkeleyearth: normalizing dataset: row %d: %g-%g-%g is not a valid date: %w", i, y, m, d, ErrSchema)
		}
	}

	ds := NewDataset()
	for k, a := range raw.Attrs {
		ds.Attrs[k] = a
	}
	for name, v := range raw.Vars {
		if isDateField(name) || name == timeDim {
			continue
		}
		dims := v.Dims
		for from, to := range renames {
			dims = replaceDim(dims, from, to)
		}
		o := *v
		o.Dims = dims
		ds.Vars[rename(name)] = &o
	}
	for name, c := range raw.Coords {
		if isDateField(name) || name == timeDim {
			continue
		}
		ds.Coords[rename(name)] = c
	}
	ds.Time = t
	return ds, nil
}

func isDateField(name string) bool {
	for _, f := range dateFields {
		if f == name {
			return true
		}
	}
	return false
}

func rename(name string) string {
	if n, ok := renames[name]; ok {
		return n
	}
	return name
}
