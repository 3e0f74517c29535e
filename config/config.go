// Package config loads the runtime settings of the pivot command from flags,
// PIVOT_* environment variables and an optional YAML file.
package config

import (
	"errors"
	"slices"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"q.log/pivot/interior"
	"q.log/pivot/report"
)

const EnvPrefix = "PIVOT"

// Keys shared by flags, environment and the config file.
const (
	KeyConfig                = "config"
	KeyTrace                 = "trace"
	KeyOutput                = "output"
	KeyLogLevel              = "log-level"
	KeyDevelopment           = "development"
	KeyMaxIterations         = "max-iterations"
	KeyMaxRounds             = "max-rounds"
	KeyMaxInteriorIterations = "max-interior-iterations"
	KeyMetricsOut            = "metrics-out"
	KeyCrosscheck            = "crosscheck"
)

var ErrInvalid = errors.New("config: invalid configuration")

type Config struct {
	//Trace logs every pivot and every cutting-plane round
	Trace       bool
	Output      string
	LogLevel    int
	Development bool

	//MaxIterations caps the pivots of one simplex run, 0 is no cap
	MaxIterations         int
	MaxRounds             int
	MaxInteriorIterations int

	//MetricsOut is a file the metrics are written to after a run
	MetricsOut string
	Crosscheck bool
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Output:                report.FormatText,
		MaxInteriorIterations: interior.MaxIterations,
	}
}

// BindFlags registers the persistent flags and binds them to v.
func BindFlags(flags *pflag.FlagSet, v *viper.Viper) error {
	def := Default()
	flags.String(KeyConfig, "", "YAML config file")
	flags.BoolP(KeyTrace, "t", def.Trace, "log every pivot and cutting-plane round")
	flags.StringP(KeyOutput, "o", def.Output, "output format: "+strings.Join(report.Formats(), "|"))
	flags.Int(KeyLogLevel, def.LogLevel, "log verbosity, higher is more verbose")
	flags.Bool(KeyDevelopment, def.Development, "human readable development logs")
	flags.Int(KeyMaxIterations, def.MaxIterations, "pivot limit per simplex run, 0 for none")
	flags.Int(KeyMaxRounds, def.MaxRounds, "cutting-plane round limit, 0 for none")
	flags.Int(KeyMaxInteriorIterations, def.MaxInteriorIterations, "interior point iteration limit")
	flags.String(KeyMetricsOut, def.MetricsOut, "write Prometheus metrics to this file")
	flags.Bool(KeyCrosscheck, def.Crosscheck, "compare the result with GLPK")

	return v.BindPFlags(flags)
}

// Load reads the configuration from v. When the config key is set the named
// YAML file is merged in first; flags and environment take precedence.
func Load(v *viper.Viper) (Config, error) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	def := Default()
	v.SetDefault(KeyOutput, def.Output)
	v.SetDefault(KeyMaxInteriorIterations, def.MaxInteriorIterations)

	if file := v.GetString(KeyConfig); file != "" {
		v.SetConfigFile(file)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, pkgerrors.Wrapf(err, "read config %s", file)
		}
	}

	cfg := Config{
		Trace:                 v.GetBool(KeyTrace),
		Output:                v.GetString(KeyOutput),
		LogLevel:              v.GetInt(KeyLogLevel),
		Development:           v.GetBool(KeyDevelopment),
		MaxIterations:         v.GetInt(KeyMaxIterations),
		MaxRounds:             v.GetInt(KeyMaxRounds),
		MaxInteriorIterations: v.GetInt(KeyMaxInteriorIterations),
		MetricsOut:            v.GetString(KeyMetricsOut),
		Crosscheck:            v.GetBool(KeyCrosscheck),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if !slices.Contains(report.Formats(), c.Output) {
		return pkgerrors.Wrapf(ErrInvalid, "output format %q", c.Output)
	}
	if c.LogLevel < 0 {
		return pkgerrors.Wrapf(ErrInvalid, "log level %d", c.LogLevel)
	}
	if c.MaxIterations < 0 || c.MaxRounds < 0 {
		return pkgerrors.Wrapf(ErrInvalid, "negative limit: iterations %d, rounds %d", c.MaxIterations, c.MaxRounds)
	}
	if c.MaxInteriorIterations < 1 {
		return pkgerrors.Wrapf(ErrInvalid, "interior point iteration limit %d", c.MaxInteriorIterations)
	}
	return nil
}

// Verbosity is the logr level the logger is built with. Trace raises it to
// at least 1 so that pivot records are emitted.
func (c Config) Verbosity() int {
	if c.Trace && c.LogLevel < 1 {
		return 1
	}
	return c.LogLevel
}
