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


package baroutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/barotropic"
	"github.com/spatialmodel/barotropic/internal/hash"
	"github.com/spatialmodel/barotropic/testcase/rossbyhaurwitz"
	"github.com/spf13/cast"
)

// Config holds the validated model configuration.
type Config struct {
	Grid struct {
		NumLon, NumLat int
	}
	Radius, Omega float64

	TimeStep  time.Duration
	RunLength time.Duration
	StartTime time.Time

	OutputFile     string
	OutputInterval int
	InputFile      string

	InitialCondition string
	RossbyHaurwitz   struct {
		R, Omega, Depth float64
	}

	MaxIterations     int
	EnergyTolerance   float64
	StrictConvergence bool
	MassCheck         string
	MassTolerance     float64
	Workers           int

	LogFile  string
	LogLevel string
}

// ReadConfig reads and checks the configuration in cfg.
func ReadConfig(cfg *viper.Viper) (*Config, error) {
	c := new(Config)
	var err error
	if c.Grid.NumLon, err = cast.ToIntE(cfg.Get("Grid.NumLon")); err != nil {
		return nil, fmt.Errorf("barotropic: invalid Grid.NumLon: %v", err)
	}
	if c.Grid.NumLat, err = cast.ToIntE(cfg.Get("Grid.NumLat")); err != nil {
		return nil, fmt.Errorf("barotropic: invalid Grid.NumLat: %v", err)
	}
	if c.Grid.NumLon < 4 || c.Grid.NumLon%2 != 0 {
		return nil, fmt.Errorf("barotropic: Grid.NumLon must be even and >= 4 but is %d", c.Grid.NumLon)
	}
	if c.Grid.NumLat < 3 {
		return nil, fmt.Errorf("barotropic: Grid.NumLat must be >= 3 but is %d", c.Grid.NumLat)
	}
	if c.Radius, err = positiveFloat(cfg, "Radius"); err != nil {
		return nil, err
	}
	if c.Omega, err = cast.ToFloat64E(cfg.Get("Omega")); err != nil {
		return nil, fmt.Errorf("barotropic: invalid Omega: %v", err)
	}

	ts, err := positiveFloat(cfg, "TimeStep")
	if err != nil {
		return nil, err
	}
	c.TimeStep = time.Duration(ts * float64(time.Second))
	if c.RunLength, err = cast.ToDurationE(cfg.Get("RunLength")); err != nil {
		return nil, fmt.Errorf("barotropic: invalid RunLength: %v", err)
	}
	if c.RunLength < 0 {
		return nil, fmt.Errorf("barotropic: RunLength must be >= 0 but is %v", c.RunLength)
	}
	if c.StartTime, err = time.Parse(time.RFC3339, cfg.GetString("StartTime")); err != nil {
		return nil, fmt.Errorf("barotropic: invalid StartTime: %v", err)
	}

	if c.OutputFile, err = checkOutputFile(cfg.GetString("OutputFile")); err != nil {
		return nil, err
	}
	if c.OutputInterval, err = cast.ToIntE(cfg.Get("OutputInterval")); err != nil {
		return nil, fmt.Errorf("barotropic: invalid OutputInterval: %v", err)
	}
	if c.OutputInterval < 1 {
		return nil, fmt.Errorf("barotropic: OutputInterval must be >= 1 but is %d", c.OutputInterval)
	}
	c.InputFile = os.ExpandEnv(cfg.GetString("InputFile"))

	c.InitialCondition = cfg.GetString("InitialCondition")
	if c.InputFile == "" && c.InitialCondition != "rossby-haurwitz" {
		return nil, fmt.Errorf("barotropic: InitialCondition must be `rossby-haurwitz` but is `%s`", c.InitialCondition)
	}
	if c.RossbyHaurwitz.R, err = positiveFloat(cfg, "RossbyHaurwitz.R"); err != nil {
		return nil, err
	}
	if c.RossbyHaurwitz.Omega, err = cast.ToFloat64E(cfg.Get("RossbyHaurwitz.Omega")); err != nil {
		return nil, fmt.Errorf("barotropic: invalid RossbyHaurwitz.Omega: %v", err)
	}
	if c.RossbyHaurwitz.Depth, err = positiveFloat(cfg, "RossbyHaurwitz.Depth"); err != nil {
		return nil, err
	}

	if c.MaxIterations, err = cast.ToIntE(cfg.Get("MaxIterations")); err != nil {
		return nil, fmt.Errorf("barotropic: invalid MaxIterations: %v", err)
	}
	if c.MaxIterations < 1 {
		return nil, fmt.Errorf("barotropic: MaxIterations must be >= 1 but is %d", c.MaxIterations)
	}
	if c.EnergyTolerance, err = positiveFloat(cfg, "EnergyTolerance"); err != nil {
		return nil, err
	}
	if c.StrictConvergence, err = cast.ToBoolE(cfg.Get("StrictConvergence")); err != nil {
		return nil, fmt.Errorf("barotropic: invalid StrictConvergence: %v", err)
	}
	c.MassCheck = cfg.GetString("MassCheck")
	if _, err = barotropic.ParseMassCheckPolicy(c.MassCheck); err != nil {
		return nil, err
	}
	if c.MassTolerance, err = positiveFloat(cfg, "MassTolerance"); err != nil {
		return nil, err
	}
	if c.Workers, err = cast.ToIntE(cfg.Get("Workers")); err != nil {
		return nil, fmt.Errorf("barotropic: invalid Workers: %v", err)
	}

	c.LogFile = checkLogFile(os.ExpandEnv(cfg.GetString("LogFile")), c.OutputFile)
	c.LogLevel = cfg.GetString("LogLevel")
	if _, err = logrus.ParseLevel(c.LogLevel); err != nil {
		return nil, fmt.Errorf("barotropic: invalid LogLevel: %v", err)
	}
	return c, nil
}

func positiveFloat(cfg *viper.Viper, name string) (float64, error) {
	v, err := cast.ToFloat64E(cfg.Get(name))
	if err != nil {
		return 0, fmt.Errorf("barotropic: invalid %s: %v", name, err)
	}
	if !(v > 0) {
		return 0, fmt.Errorf("barotropic: %s must be > 0 but is %g", name, v)
	}
	return v, nil
}

// checkOutputFile makes sure that the output file is specified and its
// directory exists, and expands any environment variables.
func checkOutputFile(f string) (string, error) {
	if f == "" {
		return "", fmt.Errorf(`you need to specify an output file configuration variable (for example: OutputFile="output.[STEP].nc")`)
	}
	f = os.ExpandEnv(f)
	if !strings.Contains(f, "[STEP]") && !strings.Contains(f, "[TIME]") {
		return f, fmt.Errorf("barotropic: OutputFile must contain [STEP] or [TIME] but is `%s`", f)
	}
	outdir := filepath.Dir(f)
	if _, err := os.Stat(outdir); err != nil {
		return f, fmt.Errorf("barotropic: the OutputFile directory doesn't exist: %v", err)
	}
	return f, nil
}

// checkLogFile fills in a default value for the log file path if one isn't
// specified.
func checkLogFile(logFile, outputFile string) string {
	if logFile == "" {
		logFile = filepath.Join(filepath.Dir(outputFile), "barotropic.log")
	}
	return logFile
}

// Options returns the model options that correspond to c.
func (c *Config) Options() []barotropic.Option {
	policy, _ := barotropic.ParseMassCheckPolicy(c.MassCheck)
	o := []barotropic.Option{
		barotropic.Radius(c.Radius),
		barotropic.Omega(c.Omega),
		barotropic.MaxIterations(c.MaxIterations),
		barotropic.EnergyTolerance(c.EnergyTolerance),
		barotropic.MassCheck(policy, c.MassTolerance),
		barotropic.Workers(c.Workers),
	}
	if c.StrictConvergence {
		o = append(o, barotropic.StrictConvergence())
	}
	return o
}

// TimeManager returns the model clock that corresponds to c.
func (c *Config) TimeManager() (*barotropic.TimeManager, error) {
	return barotropic.NewTimeManager(c.StartTime, c.TimeStep, c.RunLength)
}

// RossbyHaurwitzCase returns the configured Rossby-Haurwitz wave.
func (c *Config) RossbyHaurwitzCase() *rossbyhaurwitz.TestCase {
	return &rossbyhaurwitz.TestCase{
		R:     c.RossbyHaurwitz.R,
		Omega: c.RossbyHaurwitz.Omega,
		Phi0:  rossbyhaurwitz.Gravity * c.RossbyHaurwitz.Depth,
	}
}

// Hash returns a key that identifies the configuration.
func (c *Config) Hash() string {
	return hash.Hash(*c)
}

// SnapshotFile returns the location where the resolved configuration
// is saved, next to the output files.
func (c *Config) SnapshotFile() string {
	return filepath.Join(filepath.Dir(c.OutputFile), "barotropic.toml")
}

// WriteSnapshot writes the resolved configuration to path in TOML format.
func (c *Config) WriteSnapshot(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("barotropic: writing configuration snapshot: %v", err)
	}
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		f.Close()
		return fmt.Errorf("barotropic: writing configuration snapshot: %v", err)
	}
	return f.Close()
}
