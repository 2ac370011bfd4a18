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
	"math"
	"testing"
	"time"

	"gonum.org/v1/gonum/floats"
)

func TestLandWithoutData(t *testing.T) {
	ds, err := Normalize(rawDataset(date(2001, time.January, 1), date(2001, time.January, 10)))
	if err != nil {
		t.Fatal(err)
	}
	noData, err := LandWithoutData(ds, "")
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"lat", "lon"}; !equalStrings(noData.Dims, want) {
		t.Errorf("dims: want %v but have %v", want, noData.Dims)
	}
	want := []float64{
		0, 0,
		0, 0,
		0, 1,
	}
	if !floats.Equal(noData.Data.Elements, want) {
		t.Errorf("want %v but have %v", want, noData.Data.Elements)
	}

	t.Run("sea points are not flagged", func(t *testing.T) {
		for i := 0; i < 10; i++ {
			ds.Vars["temperature"].Data.Set(math.NaN(), i, 0, 0)
		}
		noData, err := LandWithoutData(ds, "temperature")
		if err != nil {
			t.Fatal(err)
		}
		if noData.Get(0, 0) != 0 {
			t.Error("a point outside the land mask should not be flagged")
		}
	})

	mask, err := CleanLandMask(ds, "")
	if err != nil {
		t.Fatal(err)
	}
	want = []float64{
		0, 1,
		1, 1,
		1, 0,
	}
	if !floats.Equal(mask.Data.Elements, want) {
		t.Errorf("clean mask: want %v but have %v", want, mask.Data.Elements)
	}
	if orig := ds.Vars["land_mask"].Data.Get(2, 1); orig != 1 {
		t.Error("the land mask of the dataset was modified")
	}

	if _, err := LandWithoutData(ds, "precipitation"); !errors.Is(err, ErrSchema) {
		t.Errorf("want ErrSchema but have %v", err)
	}
}

// dailyArray returns a [time, point] array with one row per day from first
// to last, with f giving the value at each day and point.
func dailyArray(first, last time.Time, points int, f func(i int, d time.Time, p int) float64) *Array {
	var days []time.Time
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	vals := make([]float64, len(days)*points)
	for i, d := range days {
		for p := 0; p < points; p++ {
			vals[i*points+p] = f(i, d, p)
		}
	}
	a := newTestArray([]string{"time", "point"}, []int{len(days), points}, vals)
	a.Time = days
	return a
}

func TestAnnualAvailability(t *testing.T) {
	a := dailyArray(date(2000, time.January, 1), date(2002, time.January, 10), 3, func(i int, d time.Time, p int) float64 {
		switch {
		case p == 1 && i%2 == 1:
			return math.NaN()
		case p == 2:
			return math.NaN()
		}
		return 1
	})
	avail, err := AnnualAvailability(a)
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"year", "point"}; !equalStrings(avail.Dims, want) {
		t.Errorf("dims: want %v but have %v", want, avail.Dims)
	}
	if want := []float64{2000, 2001, 2002}; !floats.Equal(avail.Coords["year"], want) {
		t.Errorf("years: want %v but have %v", want, avail.Coords["year"])
	}
	want := []float64{
		1, 183.0 / 366, 0,
		1, 183.0 / 365, 0,
		1, 5.0 / 10, 0,
	}
	if !floats.EqualApprox(avail.Data.Elements, want, 1e-12) {
		t.Errorf("want %v but have %v", want, avail.Data.Elements)
	}
	for _, v := range avail.Data.Elements {
		if v < 0 || v > 1 {
			t.Errorf("availability %g not in [0, 1]", v)
		}
	}
	if _, err := AnnualAvailability(newTestArray([]string{"point"}, []int{2}, nil)); !errors.Is(err, ErrSchema) {
		t.Errorf("want ErrSchema but have %v", err)
	}
}

func TestRequireValid(t *testing.T) {
	const years = 10
	data := make([]float64, years*2)
	notNull := make([]float64, years*2)
	for y := 0; y < years; y++ {
		data[y*2], data[y*2+1] = float64(y), float64(-y)
		notNull[y*2] = 0.95
		if y < 3 {
			notNull[y*2+1] = 0.95
		}
	}
	dims, shape := []string{"year", "point"}, []int{years, 2}
	d := newTestArray(dims, shape, data)
	n := newTestArray(dims, shape, notNull)

	valid, err := RequireValid(d, n, 0.9, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	for y := 0; y < years; y++ {
		if have := valid.Get(y, 0); have != float64(y) {
			t.Errorf("point A year %d: want %d but have %g", y, y, have)
		}
		if have := valid.Get(y, 1); !math.IsNaN(have) {
			t.Errorf("point B year %d: want NaN but have %g", y, have)
		}
	}
	if d.Get(1, 1) != -1 {
		t.Error("input was modified")
	}

	t.Run("days threshold", func(t *testing.T) {
		valid, err := RequireValid(d, n, 0.96, 0)
		if err != nil {
			t.Fatal(err)
		}
		if have := countValid(valid.Data.Elements); have != 0 {
			t.Errorf("want no valid values but have %g", have)
		}
	})
	t.Run("years threshold", func(t *testing.T) {
		valid, err := RequireValid(d, n, 0.9, 0.2)
		if err != nil {
			t.Fatal(err)
		}
		if have := countValid(valid.Data.Elements); have != years+3 {
			t.Errorf("want %d valid values but have %g", years+3, have)
		}
	})
	t.Run("invalid fractions", func(t *testing.T) {
		for _, f := range [][2]float64{{1.1, 0.5}, {0.5, -0.1}, {math.NaN(), 0.5}} {
			if _, err := RequireValid(d, n, f[0], f[1]); !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("%v: want ErrInvalidArgument but have %v", f, err)
			}
		}
	})
	t.Run("mismatched shape", func(t *testing.T) {
		short := newTestArray(dims, []int{years - 1, 2}, notNull)
		if _, err := RequireValid(d, short, 0.9, 0.5); !errors.Is(err, ErrSchema) {
			t.Errorf("want ErrSchema but have %v", err)
		}
	})
}

func TestAnnualReductions(t *testing.T) {
	a := dailyArray(date(2001, time.December, 30), date(2003, time.January, 2), 2, func(i int, d time.Time, p int) float64 {
		if p == 1 && d.Year() == 2003 {
			return math.NaN()
		}
		if p == 1 && d.YearDay() == 100 {
			return math.NaN()
		}
		return float64(d.YearDay())
	})
	for _, test := range []struct {
		name string
		f    func(*Array) (*Array, error)
		want []float64
	}{
		{name: "max", f: AnnualMax, want: []float64{365, 365, 365, 365, 2, math.NaN()}},
		{name: "min", f: AnnualMin, want: []float64{364, 364, 1, 1, 1, math.NaN()}},
		{name: "mean", f: AnnualMean, want: []float64{364.5, 364.5, 183, (365*366/2 - 100) / 364.0, 1.5, math.NaN()}},
	} {
		t.Run(test.name, func(t *testing.T) {
			have, err := test.f(a)
			if err != nil {
				t.Fatal(err)
			}
			if !floats.EqualApprox(have.Data.Elements[:4], test.want[:4], 1e-9) ||
				have.Data.Elements[4] != test.want[4] || !math.IsNaN(have.Data.Elements[5]) {
				t.Errorf("want %v but have %v", test.want, have.Data.Elements)
			}
			if want := []float64{2001, 2002, 2003}; !floats.Equal(have.Coords["year"], want) {
				t.Errorf("years: want %v but have %v", want, have.Coords["year"])
			}
		})
	}
}
