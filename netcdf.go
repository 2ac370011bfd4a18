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
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"
	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
)

var (
	magicCDF  = []byte("CDF")
	magicHDF5 = []byte("\x89HDF")
)

// timeUnits is the encoding used for the time coordinate of files
// written by WriteDataset.
const timeUnits = "days since 1970-01-01"

// OpenDataset reads all numeric variables from the NetCDF file at path.
// Classic (CDF-1 and CDF-2) files and NetCDF-4 (HDF5) files are supported.
// One-dimensional variables named after their dimension become coordinates;
// a "time" coordinate with CF units is decoded into ds.Time.
// Fill values become NaN and packed values are unpacked.
func OpenDataset(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("berkeleyearth: opening %s: %w", path, ErrNotFound)
		}
		return nil, fmt.Errorf("berkeleyearth: opening %s: %v", path, err)
	}
	defer f.Close()

	magic := make([]byte, 4)
	if _, err := io.ReadFull(f, magic); err != nil {
		return nil, fmt.Errorf("berkeleyearth: reading %s: %v", path, err)
	}
	var ds *Dataset
	switch {
	case bytes.HasPrefix(magic, magicCDF):
		ds, err = readClassic(f)
	case bytes.Equal(magic, magicHDF5):
		ds, err = readHDF5(path)
	default:
		return nil, fmt.Errorf("berkeleyearth: %s is not a NetCDF file", path)
	}
	if err != nil {
		return nil, fmt.Errorf("berkeleyearth: reading %s: %w", path, err)
	}
	return ds, nil
}

// readClassic reads a NetCDF classic file.
func readClassic(f *os.File) (*Dataset, error) {
	ff, err := cdf.Open(f)
	if err != nil {
		return nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	nrec := int(ff.Header.NumRecs(fi.Size()))

	ds := NewDataset()
	for _, a := range ff.Header.Attributes("") {
		ds.Attrs[a] = ff.Header.GetAttribute("", a)
	}
	for _, name := range ff.Header.Variables() {
		if _, isChar := ff.Header.ZeroValue(name, 0).(string); isChar {
			continue
		}
		dims := ff.Header.Lengths(name)
		shape := append([]int(nil), dims...)
		isRecord := ff.Header.IsRecordVariable(name)
		if isRecord {
			shape[0] = nrec
		}
		data := sparse.ZerosDense(shape...)
		if len(data.Elements) > 0 {
			var end []int
			if isRecord {
				end = make([]int, len(shape))
				for i, s := range shape {
					end[i] = s - 1
				}
			}
			r := ff.Reader(name, nil, end)
			buf := r.Zero(len(data.Elements))
			if _, err := r.Read(buf); err != nil {
				return nil, fmt.Errorf("variable %s: %v", name, err)
			}
			vals, _, err := flatten(buf)
			if err != nil {
				return nil, fmt.Errorf("variable %s: %v", name, err)
			}
			copy(data.Elements, vals)
		}
		v := NewVariable(ff.Header.Dimensions(name), data)
		for _, a := range ff.Header.Attributes(name) {
			v.Attrs[a] = ff.Header.GetAttribute(name, a)
		}
		if err := ds.addDecoded(name, v); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

// readHDF5 reads a NetCDF-4 file.
func readHDF5(path string) (*Dataset, error) {
	g, err := netcdf.Open(path)
	if err != nil {
		return nil, err
	}
	defer g.Close()
	return readGroup(g)
}

// readGroup reads the numeric variables of a NetCDF-4 group. Variables
// without dimension names are only kept when they hold a single value.
func readGroup(g api.Group) (*Dataset, error) {
	ds := NewDataset()
	if attrs := g.Attributes(); attrs != nil {
		for _, k := range attrs.Keys() {
			ds.Attrs[k], _ = attrs.Get(k)
		}
	}
	for _, name := range g.ListVariables() {
		nv, err := g.GetVariable(name)
		if err != nil {
			return nil, fmt.Errorf("variable %s: %v", name, err)
		}
		vals, shape, err := flatten(nv.Values)
		if err != nil {
			// Strings and compound types have no place in a numeric dataset.
			continue
		}
		if len(shape) != len(nv.Dimensions) {
			switch {
			case len(nv.Dimensions) == 0 && len(vals) == 1:
				shape = nil
			case len(nv.Dimensions) == 0:
				// No dimension scales to label the axes with.
				continue
			default:
				return nil, fmt.Errorf("variable %s has %d dimensions but %d-d values: %w", name, len(nv.Dimensions), len(shape), ErrSchema)
			}
		}
		data := sparse.ZerosDense(shape...)
		copy(data.Elements, vals)
		v := NewVariable(append([]string(nil), nv.Dimensions...), data)
		if nv.Attributes != nil {
			for _, k := range nv.Attributes.Keys() {
				v.Attrs[k], _ = nv.Attributes.Get(k)
			}
		}
		if err := ds.addDecoded(name, v); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

// addDecoded unpacks v and adds it to ds as a variable or coordinate.
func (ds *Dataset) addDecoded(name string, v *Variable) error {
	unpack(v)
	if len(v.Dims) != 1 || v.Dims[0] != name {
		ds.Vars[name] = v
		return nil
	}
	if name == timeDim {
		if units, ok := v.Attrs["units"].(string); ok && strings.Contains(units, " since ") {
			t, err := decodeTime(v.Data.Elements, units)
			if err != nil {
				return err
			}
			ds.Time = t
			return nil
		}
	}
	ds.Coords[name] = v.Data.Elements
	return nil
}

// unpack replaces fill values with NaN and applies scale_factor and
// add_offset.
func unpack(v *Variable) {
	for _, key := range []string{"_FillValue", "missing_value"} {
		fill, ok := firstValue(v.Attrs[key])
		if !ok || math.IsNaN(fill) {
			continue
		}
		for i, e := range v.Data.Elements {
			if e == fill {
				v.Data.Elements[i] = math.NaN()
			}
		}
	}
	scale, hasScale := firstValue(v.Attrs["scale_factor"])
	offset, hasOffset := firstValue(v.Attrs["add_offset"])
	if !hasScale {
		scale = 1
	}
	if hasScale || hasOffset {
		for i, e := range v.Data.Elements {
			v.Data.Elements[i] = e*scale + offset
		}
	}
	for _, key := range []string{"_FillValue", "missing_value", "scale_factor", "add_offset"} {
		delete(v.Attrs, key)
	}
}

// firstValue returns the first element of a numeric attribute.
func firstValue(attr interface{}) (float64, bool) {
	if attr == nil {
		return 0, false
	}
	vals, _, err := flatten(attr)
	if err != nil || len(vals) == 0 {
		return 0, false
	}
	return vals[0], true
}

// flatten converts a scalar, slice, or nested slice of numbers into
// row-major float64 values and the corresponding shape.
func flatten(values interface{}) ([]float64, []int, error) {
	switch v := values.(type) {
	case []float64:
		return append([]float64(nil), v...), []int{len(v)}, nil
	case []float32:
		o := make([]float64, len(v))
		for i, e := range v {
			o[i] = float64(e)
		}
		return o, []int{len(v)}, nil
	case []int32:
		o := make([]float64, len(v))
		for i, e := range v {
			o[i] = float64(e)
		}
		return o, []int{len(v)}, nil
	case []int16:
		o := make([]float64, len(v))
		for i, e := range v {
			o[i] = float64(e)
		}
		return o, []int{len(v)}, nil
	case []uint8:
		o := make([]float64, len(v))
		for i, e := range v {
			o[i] = float64(e)
		}
		return o, []int{len(v)}, nil
	}
	rv := reflect.ValueOf(values)
	if !rv.IsValid() {
		return nil, nil, fmt.Errorf("nil values")
	}
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		x, err := toFloat(rv)
		if err != nil {
			return nil, nil, err
		}
		return []float64{x}, nil, nil
	}
	var out []float64
	var shape []int
	for i := 0; i < rv.Len(); i++ {
		vals, s, err := flatten(rv.Index(i).Interface())
		if err != nil {
			return nil, nil, err
		}
		if i == 0 {
			shape = append([]int{rv.Len()}, s...)
		} else if !equalInts(s, shape[1:]) {
			return nil, nil, fmt.Errorf("ragged array")
		}
		out = append(out, vals...)
	}
	if shape == nil {
		shape = []int{0}
	}
	return out, shape, nil
}

func toFloat(v reflect.Value) (float64, error) {
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		return v.Float(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint()), nil
	}
	return 0, fmt.Errorf("non-numeric value of type %s", v.Type())
}

func equalInts(a, b []int) bool {
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

// decodeTime converts CF-style numeric times ("<unit> since <date>").
func decodeTime(vals []float64, units string) ([]time.Time, error) {
	parts := strings.SplitN(units, " since ", 2)
	var step time.Duration
	switch strings.ToLower(strings.TrimSpace(parts[0])) {
	case "days", "day", "d":
		step = 24 * time.Hour
	case "hours", "hour", "h":
		step = time.Hour
	case "minutes", "minute", "min":
		step = time.Minute
	case "seconds", "second", "s":
		step = time.Second
	default:
		return nil, fmt.Errorf("time units %q: %w", units, ErrSchema)
	}
	ref, err := parseReferenceTime(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, fmt.Errorf("time units %q: %v: %w", units, err, ErrSchema)
	}
	t := make([]time.Time, len(vals))
	for i, v := range vals {
		t[i] = ref.Add(time.Duration(math.Round(v * float64(step/time.Second))) * time.Second)
	}
	return t, nil
}

func parseReferenceTime(s string) (time.Time, error) {
	var err error
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02T15:04:05Z07:00", "2006-01-02 15:04:05Z07:00", "2006-01-02", "2006-1-2"} {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

// WriteDataset writes ds to a new classic NetCDF file at path. Data
// variables and coordinates are stored as float64, and ds.Time as days
// since 1970-01-01. Every dimension must have a nonzero length.
func WriteDataset(path string, ds *Dataset) error {
	lengths := make(map[string]int)
	setLen := func(dim string, n int) error {
		if n == 0 {
			return fmt.Errorf("berkeleyearth: writing %s: dimension %s is empty", path, dim)
		}
		if l, ok := lengths[dim]; ok && l != n {
			return fmt.Errorf("berkeleyearth: writing %s: dimension %s has lengths %d and %d: %w", path, dim, l, n, ErrSchema)
		}
		lengths[dim] = n
		return nil
	}
	names := ds.Names()
	for _, name := range names {
		v := ds.Vars[name]
		for i, d := range v.Dims {
			if err := setLen(d, v.Data.Shape[i]); err != nil {
				return err
			}
		}
	}
	coordNames := make([]string, 0, len(ds.Coords))
	for c, vals := range ds.Coords {
		if c == timeDim && ds.Time != nil {
			continue
		}
		if err := setLen(c, len(vals)); err != nil {
			return err
		}
		coordNames = append(coordNames, c)
	}
	sort.Strings(coordNames)
	if ds.Time != nil {
		if err := setLen(timeDim, len(ds.Time)); err != nil {
			return err
		}
	}

	dimNames := make([]string, 0, len(lengths))
	for d := range lengths {
		dimNames = append(dimNames, d)
	}
	sort.Strings(dimNames)
	dimLengths := make([]int, len(dimNames))
	for i, d := range dimNames {
		dimLengths[i] = lengths[d]
	}

	h := cdf.NewHeader(dimNames, dimLengths)
	for k, a := range ds.Attrs {
		if attr := attrValue(a); attr != nil {
			h.AddAttribute("", k, attr)
		}
	}
	for _, c := range coordNames {
		h.AddVariable(c, []string{c}, []float64{0})
	}
	if ds.Time != nil {
		h.AddVariable(timeDim, []string{timeDim}, []float64{0})
		h.AddAttribute(timeDim, "units", timeUnits)
		h.AddAttribute(timeDim, "calendar", "standard")
	}
	for _, name := range names {
		v := ds.Vars[name]
		h.AddVariable(name, v.Dims, []float64{0})
		for k, a := range v.Attrs {
			if attr := attrValue(a); attr != nil {
				h.AddAttribute(name, k, attr)
			}
		}
	}
	h.Define()

	w, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("berkeleyearth: writing %s: %v", path, err)
	}
	f, err := cdf.Create(w, h)
	if err != nil {
		w.Close()
		return fmt.Errorf("berkeleyearth: writing %s: %v", path, err)
	}
	for _, c := range coordNames {
		if err := writeNCF(f, c, ds.Coords[c]); err != nil {
			w.Close()
			return fmt.Errorf("berkeleyearth: writing %s variable %s: %v", path, c, err)
		}
	}
	if ds.Time != nil {
		days := make([]float64, len(ds.Time))
		for i, t := range ds.Time {
			days[i] = float64(t.Unix()) / 86400
		}
		if err := writeNCF(f, timeDim, days); err != nil {
			w.Close()
			return fmt.Errorf("berkeleyearth: writing %s variable time: %v", path, err)
		}
	}
	for _, name := range names {
		if err := writeNCF(f, name, ds.Vars[name].Data.Elements); err != nil {
			w.Close()
			return fmt.Errorf("berkeleyearth: writing %s variable %s: %v", path, name, err)
		}
	}
	if err := cdf.UpdateNumRecs(w); err != nil {
		w.Close()
		return fmt.Errorf("berkeleyearth: writing %s: %v", path, err)
	}
	return w.Close()
}

// writeNCF writes all values of variable name.
func writeNCF(f *cdf.File, name string, values interface{}) error {
	end := f.Header.Lengths(name)
	start := make([]int, len(end))
	w := f.Writer(name, start, end)
	if _, err := w.Write(values); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// attrValue converts an attribute into one of the types a NetCDF classic
// header accepts, or nil if it cannot be stored.
func attrValue(a interface{}) interface{} {
	switch v := a.(type) {
	case string, []float64, []float32, []int32, []int16, []uint8:
		return v
	case float64:
		return []float64{v}
	case float32:
		return []float32{v}
	case int:
		return []int32{int32(v)}
	case int32:
		return []int32{v}
	}
	return nil
}
