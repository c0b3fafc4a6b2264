/*
Copyright © 2019 the Barotropic authors.
This file is part of Barotropic.

Barotropic is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

Barotropic is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with Barotropic.  If not, see <http://www.gnu.org/licenses/>.
*/


// Package baroutil contains the command-line interface and
// configuration handling for the barotropic model.
package baroutil

import (
	"fmt"
	"strings"

	"github.com/lnashier/viper"
	"github.com/spatialmodel/barotropic"
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
	modelFlags := []*pflag.FlagSet{runCmd.Flags(), initcondCmd.Flags()}

	// Options are the configuration options available to the model.
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
			name: "Grid.NumLon",
			usage: `
              Grid.NumLon is the number of grid points along each latitude
              circle. It must be even.`,
			defaultVal: 128,
			flagsets:   modelFlags,
		},
		{
			name: "Grid.NumLat",
			usage: `
              Grid.NumLat is the number of grid points from pole to pole,
              both poles included.`,
			defaultVal: 64,
			flagsets:   modelFlags,
		},
		{
			name: "Radius",
			usage: `
              Radius is the radius of the sphere [m].`,
			defaultVal: barotropic.EarthRadius,
			flagsets:   modelFlags,
		},
		{
			name: "Omega",
			usage: `
              Omega is the planetary rotation rate [rad/s].`,
			defaultVal: barotropic.EarthOmega,
			flagsets:   modelFlags,
		},
		{
			name: "TimeStep",
			usage: `
              TimeStep is the model time step [s].`,
			shorthand:  "t",
			defaultVal: 60.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "RunLength",
			usage: `
              RunLength is the simulated time span, for example "24h" or "90m".`,
			defaultVal: "24h",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "StartTime",
			usage: `
              StartTime is the model time of the initial state in RFC 3339
              format.`,
			defaultVal: "2000-01-01T00:00:00Z",
			flagsets:   modelFlags,
		},
		{
			name: "OutputFile",
			usage: `
              OutputFile is the path template for the output NetCDF files.
              "[STEP]" is replaced with the step number and "[TIME]" with the
              model time. It can include environment variables.`,
			shorthand:  "o",
			defaultVal: "output.[STEP].nc",
			flagsets:   modelFlags,
		},
		{
			name: "OutputInterval",
			usage: `
              OutputInterval is the number of time steps between output files.`,
			defaultVal: 60,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "InputFile",
			usage: `
              InputFile is the path to a NetCDF file holding u, v, gd and ghs
              to start from. If it is empty, the model starts from
              InitialCondition. It can include environment variables.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "InitialCondition",
			usage: `
              InitialCondition is the name of the initial condition to use
              when InputFile is empty. Currently "rossby-haurwitz" is the only
              available initial condition.`,
			defaultVal: "rossby-haurwitz",
			flagsets:   modelFlags,
		},
		{
			name: "RossbyHaurwitz.R",
			usage: `
              RossbyHaurwitz.R is the zonal wave number of the Rossby-Haurwitz wave.`,
			defaultVal: 4.0,
			flagsets:   modelFlags,
		},
		{
			name: "RossbyHaurwitz.Omega",
			usage: `
              RossbyHaurwitz.Omega is the angular velocity of the Rossby-Haurwitz
              wave [rad/s].`,
			defaultVal: 3.924e-6,
			flagsets:   modelFlags,
		},
		{
			name: "RossbyHaurwitz.Depth",
			usage: `
              RossbyHaurwitz.Depth is the reference fluid depth of the
              Rossby-Haurwitz wave [m].`,
			defaultVal: 8000.0,
			flagsets:   modelFlags,
		},
		{
			name: "MaxIterations",
			usage: `
              MaxIterations is the maximum number of implicit midpoint
              iterations per time step.`,
			defaultVal: 8,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "EnergyTolerance",
			usage: `
              EnergyTolerance is the relative change in total energy below
              which a time step is considered converged.`,
			defaultVal: 5e-15,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "StrictConvergence",
			usage: `
              StrictConvergence specifies whether the simulation should stop
              when a time step does not converge within MaxIterations. If false,
              the last iterate is accepted and a warning is logged.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "MassCheck",
			usage: `
              MassCheck specifies what happens when the geopotential depth
              tendency does not conserve mass: "off", "warn" or "fail".`,
			defaultVal: "warn",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "MassTolerance",
			usage: `
              MassTolerance is the relative tolerance of the mass check.`,
			defaultVal: 1e-10,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Workers",
			usage: `
              Workers is the number of goroutines used for the grid
              calculations. If it is 0, all available processors are used.`,
			defaultVal: 0,
			flagsets:   modelFlags,
		},
		{
			name: "LogFile",
			usage: `
              LogFile is the path to the desired logfile location. It can
              include environment variables. If LogFile is left blank, the
              logfile will be saved in the same directory as the OutputFile.`,
			defaultVal: "",
			flagsets:   modelFlags,
		},
		{
			name: "LogLevel",
			usage: `
              LogLevel is the minimum level of the messages that are logged:
              "debug", "info", "warning" or "error".`,
			defaultVal: "info",
			flagsets:   modelFlags,
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("BAROTROPIC")
	Cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch v := option.defaultVal.(type) {
			case string:
				set.StringP(option.name, option.shorthand, v, option.usage)
			case bool:
				set.BoolP(option.name, option.shorthand, v, option.usage)
			case int:
				set.IntP(option.name, option.shorthand, v, option.usage)
			case float64:
				set.Float64P(option.name, option.shorthand, v, option.usage)
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(runCmd)
	Root.AddCommand(initcondCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("barotropic: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "barotropic",
	Short: "A barotropic shallow-water model on the sphere.",
	Long: `barotropic integrates the shallow-water equations on a longitude-latitude
grid covering the sphere with an energy-conserving implicit midpoint scheme.
Use the subcommands specified below to access the model functionality.

Refer to the subcommand documentation for configuration options and default settings.
Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'BAROTROPIC_var' where 'var' is the
name of the variable to be set. Many configuration variables are additionally
allowed to contain environment variables within them.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of the model.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("barotropic v%s\n", barotropic.Version)
	},
	DisableAutoGenTag: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the model.",
	Long: `run sets up the initial state, either from InputFile or from the
configured InitialCondition, and integrates the model for RunLength,
writing an output file every OutputInterval time steps.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := ReadConfig(Cfg)
		if err != nil {
			return err
		}
		return Run(cmd.OutOrStdout(), c)
	},
	DisableAutoGenTag: true,
}

var initcondCmd = &cobra.Command{
	Use:   "initcond",
	Short: "Write the initial condition.",
	Long: `initcond evaluates the configured InitialCondition on the model grid
and writes it to OutputFile. The resulting file can be used as the InputFile
of a later run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := ReadConfig(Cfg)
		if err != nil {
			return err
		}
		return InitCond(cmd.OutOrStdout(), c)
	},
	DisableAutoGenTag: true,
}
