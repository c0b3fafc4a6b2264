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
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/barotropic"
)

// newLogger returns a logger that writes to w and to the file at
// logFile. The returned function closes the file.
func newLogger(w io.Writer, logFile, level string) (*logrus.Logger, func() error, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("barotropic: invalid log level: %v", err)
	}
	f, err := os.Create(logFile)
	if err != nil {
		return nil, nil, fmt.Errorf("barotropic: problem creating log file: %v", err)
	}
	l := logrus.New()
	l.Out = io.MultiWriter(w, f)
	l.Formatter = &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339Nano,
		DisableColors:   true,
	}
	l.Level = lvl
	return l, f.Close, nil
}

// setup creates the model described by c and sets its initial state.
func setup(c *Config, log logrus.FieldLogger) (*barotropic.Model, error) {
	tm, err := c.TimeManager()
	if err != nil {
		return nil, err
	}
	m, err := barotropic.Init(tm, c.Grid.NumLon, c.Grid.NumLat, append(c.Options(), barotropic.Logger(log))...)
	if err != nil {
		return nil, err
	}
	if c.InputFile != "" {
		log.WithField("file", c.InputFile).Info("barotropic: reading initial state")
		if err := m.LoadInput(c.InputFile); err != nil {
			return nil, err
		}
		return m, nil
	}
	ic := c.RossbyHaurwitzCase()
	log.WithField("initial_condition", ic.String()).Info("barotropic: setting initial state")
	if err := m.SetInitialCondition(ic); err != nil {
		return nil, err
	}
	return m, nil
}

// Run runs the model described by c to completion, writing log messages
// to w and to c.LogFile.
func Run(w io.Writer, c *Config) error {
	startTime := time.Now()
	log, closeLog, err := newLogger(w, c.LogFile, c.LogLevel)
	if err != nil {
		return err
	}
	defer closeLog()

	m, err := setup(c, log)
	if err != nil {
		return err
	}
	cn, err := m.CourantNumber(m.TimeManager().StepSize())
	if err != nil {
		return err
	}
	entry := log.WithField("courant_number", cn)
	if cn > 1 {
		entry.Warn("barotropic: the time step may be too long for the advective Courant limit")
	} else {
		entry.Info("barotropic: checked time step")
	}

	snap := c.SnapshotFile()
	if err := c.WriteSnapshot(snap); err != nil {
		return err
	}
	log.WithField("file", snap).Info("barotropic: saved configuration")

	out, err := barotropic.NewOutput(c.OutputFile, c.OutputInterval, map[string]interface{}{
		"config_hash": c.Hash(),
	})
	if err != nil {
		return err
	}
	if err := m.Run(out); err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"steps":    m.TimeManager().Step(),
		"files":    len(out.Files),
		"duration": time.Since(startTime).String(),
	}).Info("barotropic: simulation complete")
	return nil
}

// InitCond writes the initial state described by c to a single output
// file, writing log messages to w and to c.LogFile.
func InitCond(w io.Writer, c *Config) error {
	log, closeLog, err := newLogger(w, c.LogFile, c.LogLevel)
	if err != nil {
		return err
	}
	defer closeLog()

	m, err := setup(c, log)
	if err != nil {
		return err
	}
	out, err := barotropic.NewOutput(c.OutputFile, 1, map[string]interface{}{
		"config_hash": c.Hash(),
	})
	if err != nil {
		return err
	}
	return out.Write(m, barotropic.Old)
}
