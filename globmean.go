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
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// AnnualSeries is a table of annual values indexed by calendar year.
type AnnualSeries struct {
	Years  []int
	Values []float64
}

// Len returns the number of years in the series.
func (s *AnnualSeries) Len() int { return len(s.Years) }

// Value returns the value for year and whether the year is present.
func (s *AnnualSeries) Value(year int) (float64, bool) {
	for i, y := range s.Years {
		if y == year {
			return s.Values[i], true
		}
	}
	return math.NaN(), false
}

// ParseGlobalMean parses a whitespace-delimited annual summary table.
// Text after a '%' is ignored, as are blank lines. The first column holds
// the year and the second the annual value; any other columns are ignored.
func ParseGlobalMean(r io.Reader) (*AnnualSeries, error) {
	s := new(AnnualSeries)
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if i := strings.IndexByte(text, '%'); i >= 0 {
			text = text[:i]
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 2 {
			return nil, fmt.Errorf("berkeleyearth: global mean line %d: want at least 2 columns but have %d: %w",
				line, len(fields), ErrParse)
		}
		year, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("berkeleyearth: global mean line %d: year %q: %w", line, fields[0], ErrParse)
		}
		v, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("berkeleyearth: global mean line %d: value %q: %w", line, fields[1], ErrParse)
		}
		s.Years = append(s.Years, year)
		s.Values = append(s.Values, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("berkeleyearth: reading global mean: %v: %w", err, ErrParse)
	}
	return s, nil
}

// Anomaly returns a copy of s with the mean over the years in ref
// subtracted. Missing values are ignored when computing the mean.
func Anomaly(s *AnnualSeries, ref Period) (*AnnualSeries, error) {
	var vals []float64
	for i, y := range s.Years {
		if ref.ContainsYear(y) && !math.IsNaN(s.Values[i]) {
			vals = append(vals, s.Values[i])
		}
	}
	if len(vals) == 0 {
		return nil, fmt.Errorf("berkeleyearth: no global mean values in reference period %s: %w", ref, ErrInsufficientData)
	}
	mean := stat.Mean(vals, nil)
	o := &AnnualSeries{
		Years:  append([]int(nil), s.Years...),
		Values: make([]float64, len(s.Values)),
	}
	for i, v := range s.Values {
		o.Values[i] = v - mean
	}
	return o, nil
}

// ReadGlobalMean reads the annual global mean temperature table. If ref is
// not nil, the values are returned as anomalies relative to ref.
func (s *Source) ReadGlobalMean(ref *Period) (*AnnualSeries, error) {
	path := s.GlobalMeanPath()
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("berkeleyearth: global mean file %s: %w", path, ErrNotFound)
		}
		return nil, fmt.Errorf("berkeleyearth: opening global mean file: %v", err)
	}
	defer f.Close()
	s.log().WithField("file", path).Debug("reading global mean")
	series, err := ParseGlobalMean(f)
	if err != nil {
		return nil, err
	}
	if ref == nil {
		return series, nil
	}
	return Anomaly(series, *ref)
}
