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
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func TestSourceDefaults(t *testing.T) {
	s := NewSource("", "")
	if s.DataRoot != DefaultDataRoot {
		t.Errorf("data root: want %s but have %s", DefaultDataRoot, s.DataRoot)
	}
	if s.Version != DefaultVersion {
		t.Errorf("version: want %s but have %s", DefaultVersion, s.Version)
	}
	if s.Log == nil {
		t.Error("logger should not be nil")
	}
	v := s.WithVersion("v2020")
	if v.Version != "v2020" || s.Version != DefaultVersion {
		t.Errorf("WithVersion should return a modified copy: have %s and %s", v.Version, s.Version)
	}
}

func TestSourcePaths(t *testing.T) {
	s := NewSource("data", "v1")
	want := filepath.Join("data", "v1", "post", "TMAX", "TMAX_annual_max.nc")
	if have := s.PostPath("TMAX", "annual_max"); have != want {
		t.Errorf("want %s but have %s", want, have)
	}
	want = filepath.Join("data", "v1", "raw", "Land_and_Ocean_summary.txt")
	if have := s.GlobalMeanPath(); have != want {
		t.Errorf("want %s but have %s", want, have)
	}
}

func TestFiles(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "v1", "raw", "TMIN")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	for _, f := range []string{
		"Complete_TMIN_Daily_LatLong1_2020.nc",
		"Complete_TMIN_Daily_LatLong1_1880.nc",
		"Complete_TMIN_Daily_LatLong1_1950.nc",
		"Complete_TMAX_Daily_LatLong1_1960.nc",
		"notes.txt",
	} {
		if err := os.WriteFile(filepath.Join(dir, f), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}
	s := NewSource(root, "v1")

	t.Run("sorted", func(t *testing.T) {
		files, err := s.Files("TMIN")
		if err != nil {
			t.Fatal(err)
		}
		if len(files) != 3 {
			t.Fatalf("want 3 files but have %d: %v", len(files), files)
		}
		if !sort.StringsAreSorted(files) {
			t.Errorf("files are not in order: %v", files)
		}
		if filepath.Base(files[2]) != "Complete_TMIN_Daily_LatLong1_2020.nc" {
			t.Errorf("last file: have %s", files[2])
		}
	})
	t.Run("no matches", func(t *testing.T) {
		files, err := s.Files("TAVG")
		if err != nil {
			t.Fatal(err)
		}
		if files == nil || len(files) != 0 {
			t.Errorf("want empty list but have %#v", files)
		}
	})
	t.Run("latest missing", func(t *testing.T) {
		_, err := s.ReadLatest("TAVG")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("want ErrNotFound but have %v", err)
		}
	})
}
