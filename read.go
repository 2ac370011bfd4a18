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
	"time"

	"github.com/ctessum/sparse"
	"github.com/sirupsen/logrus"
)

// ReadLatest reads the most recent raw file of variable and normalizes it.
func (s *Source) ReadLatest(variable string) (*Dataset, error) {
	files, err := s.Files(variable)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("berkeleyearth: no files for variable %s in %s: %w", variable, filepath.Join(s.DataRoot, s.Version), ErrNotFound)
	}
	last := files[len(files)-1]
	s.log().WithFields(logrus.Fields{"variable": variable, "file": last}).Debug("opening latest file")
	raw, err := OpenDataset(last)
	if err != nil {
		return nil, err
	}
	return Normalize(raw)
}

// ReadFull reads all raw files of variable, joins them along time and
// normalizes the result.
func (s *Source) ReadFull(variable string) (*Dataset, error) {
	files, err := s.Files(variable)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("berkeleyearth: no files for variable %s in %s: %w", variable, filepath.Join(s.DataRoot, s.Version), ErrNotFound)
	}
	parts := make([]*Dataset, len(files))
	for i, f := range files {
		s.log().WithFields(logrus.Fields{"variable": variable, "file": f}).Debug("opening file")
		if parts[i], err = OpenDataset(f); err != nil {
			return nil, err
		}
	}
	raw, err := ConcatTime(parts...)
	if err != nil {
		return nil, err
	}
	return Normalize(raw)
}

// Read reads variable for the given period. If removeAntarctica is true,
// latitudes south of 60°S are dropped.
//
// If the last day read is not the end of a year, a warning naming that day
// is logged and returned; the data are returned regardless. Only the last
// day is checked, so gaps earlier in the final year go unreported.
func (s *Source) Read(variable string, period Period, removeAntarctica bool) (ds *Dataset, warnings []string, err error) {
	ds, err = s.ReadFull(variable)
	if err != nil {
		return nil, nil, err
	}
	if removeAntarctica {
		if ds, err = ds.SelCoord("lat", -60, math.Inf(1)); err != nil {
			return nil, nil, err
		}
	}
	if ds, err = ds.SelTime(period); err != nil {
		return nil, nil, err
	}
	if n := len(ds.Time); n > 0 && ds.Time[n-1].YearDay() < 365 {
		last := ds.Time[n-1].Format("2006-01-02")
		msg := fmt.Sprintf("Last day not at end of year: %s", last)
		s.log().WithFields(logrus.Fields{"variable": variable, "last_day": last}).Warn(msg)
		warnings = append(warnings, msg)
	}
	return ds, warnings, nil
}

// ReadPost reads the post-processed data post of variable.
func (s *Source) ReadPost(variable, post string) (*Dataset, error) {
	path := s.PostPath(variable, post)
	s.log().WithFields(logrus.Fields{"variable": variable, "file": path}).Debug("opening post-processed file")
	return OpenDataset(path)
}

// WritePost saves ds as the post-processed data post of variable,
// creating the directory if needed and replacing any existing file.
func (s *Source) WritePost(variable, post string, ds *Dataset) error {
	path := s.PostPath(variable, post)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("berkeleyearth: creating post-processing directory: %v", err)
	}
	s.log().WithFields(logrus.Fields{"variable": variable, "file": path}).Info("writing post-processed file")
	return WriteDataset(path, ds)
}

// ConcatTime joins datasets along the time dimension in the given order.
// Variables without a time dimension are taken from the first dataset and
// must have the same shape in all others.
func ConcatTime(datasets ...*Dataset) (*Dataset, error) {
	if len(datasets) == 0 {
		return nil, fmt.Errorf("berkeleyearth: no datasets to concatenate: %w", ErrNotFound)
	}
	first := datasets[0]
	out := first.shallowCopy()
	for name, v := range first.Vars {
		axis := v.Axis(timeDim)
		parts := make([]*sparse.DenseArray, 0, len(datasets))
		for i, d := range datasets {
			w, ok := d.Vars[name]
			if !ok {
				return nil, fmt.Errorf("berkeleyearth: variable %s missing from dataset %d: %w", name, i, ErrSchema)
			}
			if axis < 0 {
				if !equalInts(w.Data.Shape, v.Data.Shape) {
					return nil, fmt.Errorf("berkeleyearth: variable %s has shape %v in dataset %d but %v in dataset 0: %w",
						name, w.Data.Shape, i, v.Data.Shape, ErrSchema)
				}
				continue
			}
			if w.Axis(timeDim) != axis {
				return nil, fmt.Errorf("berkeleyearth: variable %s has inconsistent dimensions %v and %v: %w", name, v.Dims, w.Dims, ErrSchema)
			}
			parts = append(parts, w.Data)
		}
		if axis < 0 {
			continue
		}
		data, err := concat(parts, axis)
		if err != nil {
			return nil, fmt.Errorf("berkeleyearth: variable %s: %w", name, err)
		}
		out.Vars[name] = v.withData(data)
	}
	for name, c := range first.Coords {
		var joined []float64
		for i, d := range datasets {
			dc, ok := d.Coords[name]
			if !ok {
				return nil, fmt.Errorf("berkeleyearth: coordinate %s missing from dataset %d: %w", name, i, ErrSchema)
			}
			if name == timeDim {
				joined = append(joined, dc...)
			} else if len(dc) != len(c) {
				return nil, fmt.Errorf("berkeleyearth: coordinate %s has %d values in dataset %d but %d in dataset 0: %w",
					name, len(dc), i, len(c), ErrSchema)
			}
		}
		if name == timeDim {
			out.Coords[name] = joined
		}
	}
	if first.Time != nil {
		var t []time.Time
		for i, d := range datasets {
			if d.Time == nil {
				return nil, fmt.Errorf("berkeleyearth: dataset %d has no time axis: %w", i, ErrSchema)
			}
			t = append(t, d.Time...)
		}
		out.Time = t
	}
	return out, nil
}

// isel returns ds restricted to the given positions along dim.
func (ds *Dataset) isel(dim string, idx []int) *Dataset {
	out := ds.shallowCopy()
	for name, v := range ds.Vars {
		if axis := v.Axis(dim); axis >= 0 {
			out.Vars[name] = v.withData(take(v.Data, axis, idx))
		}
	}
	if c, ok := ds.Coords[dim]; ok {
		o := make([]float64, len(idx))
		for j, i := range idx {
			o[j] = c[i]
		}
		out.Coords[dim] = o
	}
	if dim == timeDim && ds.Time != nil {
		o := make([]time.Time, len(idx))
		for j, i := range idx {
			o[j] = ds.Time[i]
		}
		out.Time = o
	}
	return out
}

// SelCoord returns ds restricted to the labels of dim within [lo, hi].
func (ds *Dataset) SelCoord(dim string, lo, hi float64) (*Dataset, error) {
	c, ok := ds.Coords[dim]
	if !ok {
		return nil, fmt.Errorf("berkeleyearth: selecting on coordinate %s: %w", dim, ErrSchema)
	}
	var idx []int
	for i, v := range c {
		if v >= lo && v <= hi {
			idx = append(idx, i)
		}
	}
	return ds.isel(dim, idx), nil
}

// SelTime returns ds restricted to the days within p.
func (ds *Dataset) SelTime(p Period) (*Dataset, error) {
	if ds.Time == nil {
		return nil, fmt.Errorf("berkeleyearth: selecting on time: dataset has no time axis: %w", ErrSchema)
	}
	var idx []int
	for i, t := range ds.Time {
		if p.Contains(t) {
			idx = append(idx, i)
		}
	}
	return ds.isel(timeDim, idx), nil
}
