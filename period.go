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
	"strings"
	"time"
)

// Period is an inclusive range of days. A zero Start or End leaves that
// side of the range open.
type Period struct {
	Start, End time.Time
}

// YearRange returns the period from 1 January of first to 31 December
// of last.
func YearRange(first, last int) Period {
	return Period{
		Start: time.Date(first, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(last, time.December, 31, 0, 0, 0, 0, time.UTC),
	}
}

// ParsePeriod parses a range given as partial dates in the formats
// "2006", "2006-01" or "2006-01-02". The end of the range extends to the
// last day of the year or month it names, so ParsePeriod("1950", "2020")
// covers 1950-01-01 through 2020-12-31. An empty string leaves that side
// open.
func ParsePeriod(start, end string) (Period, error) {
	var p Period
	var err error
	if start != "" {
		if p.Start, _, err = parsePartialDate(start); err != nil {
			return Period{}, err
		}
	}
	if end != "" {
		var last time.Time
		if _, last, err = parsePartialDate(end); err != nil {
			return Period{}, err
		}
		p.End = last
	}
	if !p.Start.IsZero() && !p.End.IsZero() && p.End.Before(p.Start) {
		return Period{}, fmt.Errorf("berkeleyearth: period %s to %s ends before it starts: %w", start, end, ErrInvalidArgument)
	}
	return p, nil
}

// parsePartialDate returns the first and last day covered by s.
func parsePartialDate(s string) (first, last time.Time, err error) {
	s = strings.TrimSpace(s)
	switch strings.Count(s, "-") {
	case 0:
		first, err = time.Parse("2006", s)
		last = first.AddDate(1, 0, -1)
	case 1:
		first, err = time.Parse("2006-01", s)
		last = first.AddDate(0, 1, -1)
	default:
		first, err = time.Parse("2006-01-02", s)
		last = first
	}
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("berkeleyearth: parsing date %q: %v: %w", s, err, ErrInvalidArgument)
	}
	return first, last, nil
}

// Contains returns whether t falls on a day within p.
func (p Period) Contains(t time.Time) bool {
	d := truncateDay(t)
	if !p.Start.IsZero() && d.Before(truncateDay(p.Start)) {
		return false
	}
	if !p.End.IsZero() && d.After(truncateDay(p.End)) {
		return false
	}
	return true
}

// ContainsYear returns whether any day of year falls within p.
func (p Period) ContainsYear(year int) bool {
	if !p.Start.IsZero() && year < p.Start.Year() {
		return false
	}
	if !p.End.IsZero() && year > p.End.Year() {
		return false
	}
	return true
}

func (p Period) String() string {
	f := func(t time.Time) string {
		if t.IsZero() {
			return "..."
		}
		return t.Format("2006-01-02")
	}
	return f(p.Start) + "/" + f(p.End)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
