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
	"errors"
	"testing"
	"time"
)

func TestParsePeriod(t *testing.T) {
	for _, test := range []struct {
		start, end string
		want       Period
	}{
		{start: "2006", end: "2010", want: Period{Start: date(2006, time.January, 1), End: date(2010, time.December, 31)}},
		{start: "2006-03", end: "2008-02", want: Period{Start: date(2006, time.March, 1), End: date(2008, time.February, 29)}},
		{start: "2006-03-15", end: "2006-03-15", want: Period{Start: date(2006, time.March, 15), End: date(2006, time.March, 15)}},
		{start: "", end: "1999", want: Period{End: date(1999, time.December, 31)}},
		{start: "1999", end: "", want: Period{Start: date(1999, time.January, 1)}},
	} {
		t.Run(test.start+"/"+test.end, func(t *testing.T) {
			have, err := ParsePeriod(test.start, test.end)
			if err != nil {
				t.Fatal(err)
			}
			if !have.Start.Equal(test.want.Start) || !have.End.Equal(test.want.End) {
				t.Errorf("want %v but have %v", test.want, have)
			}
		})
	}
	for _, bad := range [][2]string{{"2006", "2005"}, {"20x6", ""}, {"", "2006-13"}} {
		if _, err := ParsePeriod(bad[0], bad[1]); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("%v: want ErrInvalidArgument but have %v", bad, err)
		}
	}
}

func TestPeriodContains(t *testing.T) {
	p := YearRange(2000, 2001)
	for _, test := range []struct {
		t    time.Time
		want bool
	}{
		{t: date(1999, time.December, 31), want: false},
		{t: date(2000, time.January, 1), want: true},
		{t: time.Date(2001, time.December, 31, 12, 0, 0, 0, time.UTC), want: true},
		{t: date(2002, time.January, 1), want: false},
	} {
		if have := p.Contains(test.t); have != test.want {
			t.Errorf("%v: want %v but have %v", test.t, test.want, have)
		}
	}
	if !(Period{}).Contains(date(1066, time.October, 14)) {
		t.Error("an open period contains every day")
	}
	if !p.ContainsYear(2001) || p.ContainsYear(2002) {
		t.Error("ContainsYear")
	}
	if want, have := "2000-01-01/2001-12-31", p.String(); want != have {
		t.Errorf("want %s but have %s", want, have)
	}
	if want, have := ".../2001-12-31", (Period{End: p.End}).String(); want != have {
		t.Errorf("want %s but have %s", want, have)
	}
}
