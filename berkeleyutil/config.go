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
	"os"
	"strings"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/berkeleyearth"
	"github.com/spf13/cast"
)

// source returns the data source specified by the configuration, with
// environment variables in DataRoot expanded.
func source(cfg *viper.Viper) *berkeleyearth.Source {
	s := berkeleyearth.NewSource(os.ExpandEnv(cfg.GetString("DataRoot")), cfg.GetString("Version"))
	s.Log = logrus.StandardLogger()
	return s
}

// readPeriod returns the period between StartDate and EndDate.
func readPeriod(cfg *viper.Viper) (berkeleyearth.Period, error) {
	return period(cfg, "StartDate", "EndDate")
}

// refPeriod returns the reference period between RefStart and RefEnd, or
// nil if neither is set.
func refPeriod(cfg *viper.Viper) (*berkeleyearth.Period, error) {
	p, err := period(cfg, "RefStart", "RefEnd")
	if err != nil {
		return nil, err
	}
	if p.Start.IsZero() && p.End.IsZero() {
		return nil, nil
	}
	return &p, nil
}

// period parses the dates stored under the two keys. Configuration files
// may hold the dates as numbers (for example RefStart = 1951), so the
// values are converted to strings first.
func period(cfg *viper.Viper, startKey, endKey string) (berkeleyearth.Period, error) {
	start, err := cast.ToStringE(cfg.Get(startKey))
	if err != nil {
		return berkeleyearth.Period{}, fmt.Errorf("berkeleyearth: reading %s: %v", startKey, err)
	}
	end, err := cast.ToStringE(cfg.Get(endKey))
	if err != nil {
		return berkeleyearth.Period{}, fmt.Errorf("berkeleyearth: reading %s: %v", endKey, err)
	}
	p, err := berkeleyearth.ParsePeriod(os.ExpandEnv(start), os.ExpandEnv(end))
	if err != nil {
		return berkeleyearth.Period{}, fmt.Errorf("berkeleyearth: invalid %s/%s: %w", startKey, endKey, err)
	}
	return p, nil
}

// checkStat makes sure that an acceptable annual statistic was specified.
func checkStat(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "max", "min", "mean":
		return s, nil
	}
	return s, fmt.Errorf("the Stat variable in the configuration file "+
		"needs to be set to either max, min, or mean, but is currently set to `%s`", s)
}

// postName returns the configured Post name, or def if it is empty.
func postName(cfg *viper.Viper, def string) string {
	if p := os.ExpandEnv(cfg.GetString("Post")); p != "" {
		return p
	}
	return def
}
