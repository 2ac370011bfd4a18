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

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/berkeleyearth"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to the berkeley command.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "DataRoot",
			usage: `
              DataRoot is the directory holding the Berkeley Earth data, with
              one subdirectory per data set version. It can include
              environment variables.`,
			defaultVal: berkeleyearth.DefaultDataRoot,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Version",
			usage: `
              Version is the Berkeley Earth data set version to use.`,
			defaultVal: berkeleyearth.DefaultVersion,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "LogLevel",
			usage: `
              LogLevel is the minimum level of log messages to print. Valid
              options are "debug", "info", "warning" and "error".`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Variable",
			usage: `
              Variable is the daily variable to process, for example
              "TMAX", "TMIN" or "TAVG".`,
			shorthand:  "v",
			defaultVal: "TMAX",
			flagsets: []*pflag.FlagSet{filesCmd.Flags(), latestCmd.Flags(), availabilityCmd.Flags(),
				landmaskCmd.Flags(), annualCmd.Flags()},
		},
		{
			name: "DataVariable",
			usage: `
              DataVariable is the field within the data set that holds the
              daily values.`,
			defaultVal: "temperature",
			flagsets:   []*pflag.FlagSet{availabilityCmd.Flags(), landmaskCmd.Flags(), annualCmd.Flags()},
		},
		{
			name: "StartDate",
			usage: `
              StartDate is the first day to read. Format = "YYYY", "YYYY-MM"
              or "YYYY-MM-DD". If it is empty, reading starts at the
              beginning of the record.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{availabilityCmd.Flags(), annualCmd.Flags()},
		},
		{
			name: "EndDate",
			usage: `
              EndDate is the last day to read. Format = "YYYY", "YYYY-MM"
              or "YYYY-MM-DD"; a year or month includes all of its days. If
              it is empty, reading continues to the end of the record.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{availabilityCmd.Flags(), annualCmd.Flags()},
		},
		{
			name: "RemoveAntarctica",
			usage: `
              If RemoveAntarctica is true, latitudes south of 60°S are dropped.`,
			defaultVal: true,
			flagsets:   []*pflag.FlagSet{availabilityCmd.Flags(), annualCmd.Flags()},
		},
		{
			name: "RefStart",
			usage: `
              RefStart is the first year of the reference period that global mean
              anomalies are calculated relative to. If RefStart and RefEnd are both
              empty, the values are printed as read.`,
			defaultVal: "1850",
			flagsets:   []*pflag.FlagSet{globmeanCmd.Flags()},
		},
		{
			name: "RefEnd",
			usage: `
              RefEnd is the last year of the reference period.`,
			defaultVal: "1900",
			flagsets:   []*pflag.FlagSet{globmeanCmd.Flags()},
		},
		{
			name: "Stat",
			usage: `
              Stat is the annual statistic to calculate. Valid options are
              "max", "min" and "mean".`,
			defaultVal: "max",
			flagsets:   []*pflag.FlagSet{annualCmd.Flags()},
		},
		{
			name: "Absolute",
			usage: `
              If Absolute is true, the climatology is added to the daily
              anomalies before the annual statistic is calculated.`,
			defaultVal: true,
			flagsets:   []*pflag.FlagSet{annualCmd.Flags()},
		},
		{
			name: "ValidDays",
			usage: `
              ValidDays is the fraction of days with data a year needs for its
              annual value to be kept (must be in 0..1).`,
			defaultVal: 0.9,
			flagsets:   []*pflag.FlagSet{annualCmd.Flags()},
		},
		{
			name: "ValidYears",
			usage: `
              ValidYears is the fraction of kept years a grid point needs for
              any of its annual values to be kept (must be in 0..1).`,
			defaultVal: 0.8,
			flagsets:   []*pflag.FlagSet{annualCmd.Flags()},
		},
		{
			name: "Post",
			usage: `
              Post is the name of the post-processed output. If it is empty,
              a name is chosen from the subcommand, for example "annual_max".`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{availabilityCmd.Flags(), landmaskCmd.Flags(), annualCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("BERKELEY")
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			default:
				panic("invalid argument type")
			}
		}
		Cfg.BindPFlag(option.name, option.flagsets[0].Lookup(option.name))
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(filesCmd)
	Root.AddCommand(latestCmd)
	Root.AddCommand(globmeanCmd)
	Root.AddCommand(availabilityCmd)
	Root.AddCommand(landmaskCmd)
	Root.AddCommand(annualCmd)
}

// setConfig finds and reads in the configuration file, if there is one,
// and sets the logging level.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("berkeleyearth: problem reading configuration file: %v", err)
		}
	}
	level, err := logrus.ParseLevel(Cfg.GetString("LogLevel"))
	if err != nil {
		return fmt.Errorf("berkeleyearth: invalid LogLevel: %v", err)
	}
	logrus.SetLevel(level)
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "berkeley",
	Short: "Process Berkeley Earth daily temperature data.",
	Long: `berkeley reads the Berkeley Earth daily gridded land temperature data sets
and derives annual statistics, data availability and land masks from them.
Use the subcommands specified below to access the functionality.

Refer to the subcommand documentation for configuration options and default settings.
Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'BERKELEY_var' where 'var' is the
name of the variable to be set.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	SilenceUsage:      true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of berkeley.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("berkeley v%s\n", berkeleyearth.Version)
	},
	DisableAutoGenTag: true,
}

var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "List the raw files of a variable",
	Long: `files prints the raw data files of the configured Variable in the
order they are read, one per line.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Files(cmd.OutOrStdout(), source(Cfg), Cfg.GetString("Variable"))
	},
	DisableAutoGenTag: true,
}

var latestCmd = &cobra.Command{
	Use:   "latest",
	Short: "Summarize the latest raw file",
	Long: `latest reads and normalizes the most recent raw file of the configured
Variable and prints its fields, dimensions and time range.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Latest(cmd.OutOrStdout(), source(Cfg), Cfg.GetString("Variable"))
	},
	DisableAutoGenTag: true,
}

var globmeanCmd = &cobra.Command{
	Use:   "globmean",
	Short: "Print the annual global mean temperature",
	Long: `globmean prints the annual global mean land and ocean temperature, one
year per line. If a reference period is given by RefStart and RefEnd, the
values are printed as anomalies relative to the mean of that period.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ref, err := refPeriod(Cfg)
		if err != nil {
			return err
		}
		return GlobalMean(cmd.OutOrStdout(), source(Cfg), ref)
	},
	DisableAutoGenTag: true,
}

var availabilityCmd = &cobra.Command{
	Use:   "availability",
	Short: "Calculate the annual data availability",
	Long: `availability calculates the fraction of days with data in each year at
each grid point and saves it as post-processed data.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		period, err := readPeriod(Cfg)
		if err != nil {
			return err
		}
		return Availability(cmd.OutOrStdout(), source(Cfg), Cfg.GetString("Variable"),
			Cfg.GetString("DataVariable"), period, Cfg.GetBool("RemoveAntarctica"),
			postName(Cfg, "annual_availability"))
	},
	DisableAutoGenTag: true,
}

var landmaskCmd = &cobra.Command{
	Use:   "landmask",
	Short: "Create a land mask without grid points lacking data",
	Long: `landmask reads all raw files of the configured Variable, removes the land
grid points that never have any data from the land mask and saves the result
as post-processed data.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return LandMask(cmd.OutOrStdout(), source(Cfg), Cfg.GetString("Variable"),
			Cfg.GetString("DataVariable"), postName(Cfg, "land_mask"))
	},
	DisableAutoGenTag: true,
}

var annualCmd = &cobra.Command{
	Use:   "annual",
	Short: "Calculate an annual statistic",
	Long: `annual calculates the annual maximum, minimum or mean of the daily data,
removes years and grid points with too little data as set by ValidDays and
ValidYears, and saves the result as post-processed data.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		period, err := readPeriod(Cfg)
		if err != nil {
			return err
		}
		stat, err := checkStat(Cfg.GetString("Stat"))
		if err != nil {
			return err
		}
		return Annual(cmd.OutOrStdout(), source(Cfg), AnnualConfig{
			Variable:         Cfg.GetString("Variable"),
			DataVariable:     Cfg.GetString("DataVariable"),
			Period:           period,
			RemoveAntarctica: Cfg.GetBool("RemoveAntarctica"),
			Stat:             stat,
			Absolute:         Cfg.GetBool("Absolute"),
			ValidDays:        Cfg.GetFloat64("ValidDays"),
			ValidYears:       Cfg.GetFloat64("ValidYears"),
			Post:             postName(Cfg, "annual_"+stat),
		})
	},
	DisableAutoGenTag: true,
}
