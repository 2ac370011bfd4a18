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

package berkeleyutil

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/berkeleyearth"
)

// Files prints the raw files of variable, one per line.
func Files(w io.Writer, s *berkeleyearth.Source, variable string) error {
	files, err := s.Files(variable)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		logrus.WithField("variable", variable).Warn("no raw files found")
	}
	for _, f := range files {
		fmt.Fprintln(w, f)
	}
	return nil
}

// Latest prints a summary of the latest raw file of variable.
func Latest(w io.Writer, s *berkeleyearth.Source, variable string) error {
	ds, err := s.ReadLatest(variable)
	if err != nil {
		return err
	}
	if n := len(ds.Time); n > 0 {
		fmt.Fprintf(w, "time: %d days from %s to %s\n", n,
			ds.Time[0].Format("2006-01-02"), ds.Time[n-1].Format("2006-01-02"))
	}
	for _, name := range ds.Names() {
		v := ds.Vars[name]
		fmt.Fprintf(w, "%s(%s): %v\n", name, strings.Join(v.Dims, ", "), v.Data.Shape)
	}
	return nil
}

// GlobalMean prints the annual global mean temperature, as anomalies
// relative to ref if ref is not nil.
func GlobalMean(w io.Writer, s *berkeleyearth.Source, ref *berkeleyearth.Period) error {
	series, err := s.ReadGlobalMean(ref)
	if err != nil {
		return err
	}
	for i, y := range series.Years {
		fmt.Fprintf(w, "%d\t%.3f\n", y, series.Values[i])
	}
	return nil
}

// Availability calculates the annual data availability of dataVariable
// and saves it as the post-processed data post of variable.
func Availability(w io.Writer, s *berkeleyearth.Source, variable, dataVariable string,
	period berkeleyearth.Period, removeAntarctica bool, post string) error {
	ds, _, err := s.Read(variable, period, removeAntarctica)
	if err != nil {
		return err
	}
	data, err := ds.Array(dataVariable)
	if err != nil {
		return err
	}
	avail, err := berkeleyearth.AnnualAvailability(data)
	if err != nil {
		return err
	}
	avail.Name = "availability"
	return writePost(w, s, variable, post, avail)
}

// LandMask removes the land grid points that never have data in any of the
// raw files of variable from the land mask and saves the result as the
// post-processed data post.
func LandMask(w io.Writer, s *berkeleyearth.Source, variable, dataVariable, post string) error {
	ds, err := s.ReadFull(variable)
	if err != nil {
		return err
	}
	mask, err := berkeleyearth.CleanLandMask(ds, dataVariable)
	if err != nil {
		return err
	}
	return writePost(w, s, variable, post, mask)
}

// AnnualConfig holds the settings for Annual.
type AnnualConfig struct {
	Variable, DataVariable string
	Period                 berkeleyearth.Period
	RemoveAntarctica       bool

	// Stat is one of "max", "min" or "mean".
	Stat string

	// Absolute specifies whether the climatology is added to the daily
	// anomalies first. The climatology belongs to the temperature field,
	// so DataVariable must be "temperature" when Absolute is set.
	Absolute bool

	ValidDays, ValidYears float64
	Post                  string
}

// Annual calculates an annual statistic of the daily data, removes the
// values with too little underlying data and saves the result.
func Annual(w io.Writer, s *berkeleyearth.Source, c AnnualConfig) error {
	var reduce func(*berkeleyearth.Array) (*berkeleyearth.Array, error)
	switch c.Stat {
	case "max":
		reduce = berkeleyearth.AnnualMax
	case "min":
		reduce = berkeleyearth.AnnualMin
	case "mean":
		reduce = berkeleyearth.AnnualMean
	default:
		return fmt.Errorf("berkeleyearth: invalid annual statistic %q: %w", c.Stat, berkeleyearth.ErrInvalidArgument)
	}
	if c.Absolute && c.DataVariable != "temperature" {
		return fmt.Errorf("berkeleyearth: absolute values need the temperature field, not %q: %w", c.DataVariable, berkeleyearth.ErrInvalidArgument)
	}
	ds, _, err := s.Read(c.Variable, c.Period, c.RemoveAntarctica)
	if err != nil {
		return err
	}
	data, err := ds.Array(c.DataVariable)
	if err != nil {
		return err
	}
	daily := data
	if c.Absolute {
		if daily, err = berkeleyearth.AddClimatology(ds); err != nil {
			return err
		}
	}
	annual, err := reduce(daily)
	if err != nil {
		return err
	}
	notNull, err := berkeleyearth.AnnualAvailability(data)
	if err != nil {
		return err
	}
	valid, err := berkeleyearth.RequireValid(annual, notNull, c.ValidDays, c.ValidYears)
	if err != nil {
		return err
	}
	valid.Name = c.DataVariable + "_" + c.Stat
	return writePost(w, s, c.Variable, c.Post, valid)
}

func writePost(w io.Writer, s *berkeleyearth.Source, variable, post string, a *berkeleyearth.Array) error {
	if err := s.WritePost(variable, post, a.Dataset()); err != nil {
		return err
	}
	fmt.Fprintln(w, s.PostPath(variable, post))
	return nil
}
