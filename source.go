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
	"path/filepath"
	"sort"

	"github.com/sirupsen/logrus"
)

// Default locations of the Berkeley Earth data.
const (
	DefaultDataRoot = "../data/BerkeleyEarth"
	DefaultVersion  = "v2025"
)

// Source locates and reads one version of the Berkeley Earth data set
// stored below DataRoot. The expected layout is
//
//	<DataRoot>/<Version>/raw/<variable>/Complete_<variable>_Daily_LatLong1_<decade>.nc
//	<DataRoot>/<Version>/raw/Land_and_Ocean_summary.txt
//	<DataRoot>/<Version>/post/<variable>/<variable>_<post>.nc
//
// Diagnostics are sent to Log, which defaults to the standard logrus logger.
type Source struct {
	DataRoot string
	Version  string
	Log      logrus.FieldLogger
}

// NewSource returns a Source for the given root directory and version.
// Empty arguments are replaced by DefaultDataRoot and DefaultVersion.
func NewSource(dataRoot, version string) *Source {
	if dataRoot == "" {
		dataRoot = DefaultDataRoot
	}
	if version == "" {
		version = DefaultVersion
	}
	return &Source{DataRoot: dataRoot, Version: version, Log: logrus.StandardLogger()}
}

// WithVersion returns a copy of s reading the given data version.
func (s *Source) WithVersion(version string) *Source {
	o := *s
	o.Version = version
	return &o
}

func (s *Source) log() logrus.FieldLogger {
	if s.Log == nil {
		return logrus.StandardLogger()
	}
	return s.Log
}

// Files returns the raw per-decade files of variable, sorted by name, which
// orders them in time. It returns an empty slice if nothing matches.
func (s *Source) Files(variable string) ([]string, error) {
	pattern := filepath.Join(s.DataRoot, s.Version, "raw", variable,
		fmt.Sprintf("Complete_%s_Daily_LatLong1_*.nc", variable))
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("berkeleyearth: file pattern %s: %v", pattern, err)
	}
	if files == nil {
		files = []string{}
	}
	sort.Strings(files)
	return files, nil
}

// PostPath returns the location of post-processed data post of variable.
func (s *Source) PostPath(variable, post string) string {
	return filepath.Join(s.DataRoot, s.Version, "post", variable,
		fmt.Sprintf("%s_%s.nc", variable, post))
}

// GlobalMeanPath returns the location of the global mean summary table.
func (s *Source) GlobalMeanPath() string {
	return filepath.Join(s.DataRoot, s.Version, "raw", "Land_and_Ocean_summary.txt")
}
