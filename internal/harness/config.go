// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package harness holds the configuration shared by the sweep
// commands.
package harness

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"golang.org/x/benchsweep/runner"
)

// ConfigName is the base name of the configuration file looked up in
// the working directory when no file is given explicitly.
const ConfigName = "sweep"

// EnvPrefix prefixes the environment variables that override
// configuration keys, e.g. SWEEP_RESULTSROOT.
const EnvPrefix = "SWEEP"

// Config is the contents of sweep.yaml.
type Config struct {
	// ResultsRoot holds one directory per experiment and the rendered
	// figures.
	ResultsRoot string `mapstructure:"resultsRoot"`
	SourceDir   string `mapstructure:"sourceDir"`
	Baseline    string `mapstructure:"baseline"`
	Active      string `mapstructure:"active"`
	Build       string `mapstructure:"build"`
	Run         string `mapstructure:"run"`
	OutputFlag  string `mapstructure:"outputFlag"`
	Isolate     bool   `mapstructure:"isolate"`

	OnBuildFailure runner.BuildFailurePolicy `mapstructure:"onBuildFailure"`
	Resume         runner.ResumePolicy       `mapstructure:"resume"`
	Timeout        time.Duration             `mapstructure:"timeout"`

	Export  ExportConfig  `mapstructure:"export"`
	Archive ArchiveConfig `mapstructure:"archive"`

	// Experiments are added to the built-in experiments. An
	// experiment here replaces a built-in one of the same name.
	Experiments []ExperimentConfig `mapstructure:"experiments"`
}

type ExportConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type ArchiveConfig struct {
	Bucket      string `mapstructure:"bucket"`
	Prefix      string `mapstructure:"prefix"`
	Credentials string `mapstructure:"credentials"`
}

var defaults = map[string]interface{}{
	"resultsRoot":         "results",
	"sourceDir":           ".",
	"baseline":            "config-std.h",
	"active":              "config.h",
	"build":               "make -j",
	"run":                 "./rundb",
	"outputFlag":          "-o",
	"isolate":             false,
	"onBuildFailure":      "continue",
	"resume":              "exists",
	"timeout":             "0s",
	"export.driver":       "sqlite3",
	"export.dsn":          "results.db",
	"archive.bucket":      "",
	"archive.prefix":      "",
	"archive.credentials": "",
}

// NewViper returns a viper instance with the configuration defaults
// and environment overrides set up.
func NewViper() *viper.Viper {
	v := viper.New()
	for k, x := range defaults {
		v.SetDefault(k, x)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadConfig reads the configuration file path into v and decodes v.
// If path is empty, sweep.yaml is looked up in the working directory
// and its absence is not an error.
func LoadConfig(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(ConfigName)
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "reading configuration")
		}
		logrus.Debug("no configuration file, using defaults")
	} else {
		logrus.WithField("file", v.ConfigFileUsed()).Debug("loaded configuration")
	}
	return Decode(v)
}

// Decode decodes the settings of v into a Config.
func Decode(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c, CustomHooks...); err != nil {
		return nil, errors.Wrap(err, "decoding configuration")
	}
	if _, err := c.AllExperiments(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Runner returns a Runner configured by c.
func (c *Config) Runner(log logrus.FieldLogger) *runner.Runner {
	return &runner.Runner{
		ResultsRoot:    c.ResultsRoot,
		SourceDir:      c.SourceDir,
		Baseline:       c.Baseline,
		Active:         c.Active,
		Build:          c.Build,
		Run:            c.Run,
		OutputFlag:     c.OutputFlag,
		Isolate:        c.Isolate,
		OnBuildFailure: c.OnBuildFailure,
		Resume:         c.Resume,
		Timeout:        c.Timeout,
		Log:            log,
	}
}
