// Package config loads typewise tool settings from a YAML file and TYPEWISE_* / LOG_*
// environment variables, and turns them into comparator, sorting and logging options.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	typewiseerrors "github.com/amp-labs/typewise/errors"
	"github.com/amp-labs/typewise/logger"
	"github.com/amp-labs/typewise/sorting"
	"github.com/amp-labs/typewise/typewise"
	"gopkg.in/yaml.v3"
)

// Environment variables read by ApplyEnv. They override the file.
const (
	EnvCollation   = "TYPEWISE_COLLATION"
	EnvLocale      = "TYPEWISE_LOCALE"
	EnvMaxDepth    = "TYPEWISE_MAX_DEPTH"
	EnvSortWorkers = "TYPEWISE_SORT_WORKERS"
	EnvUnordered   = "TYPEWISE_UNORDERED"
	EnvLogJSON     = "LOG_JSON"
	EnvLogLevel    = "LOG_LEVEL"
)

// ErrInvalidConfig is wrapped by every validation and parse failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the full set of tool settings.
type Config struct {
	Collation string `yaml:"collation"`
	Locale    string `yaml:"locale"`
	MaxDepth  int    `yaml:"max_depth"`
	Sort      Sort   `yaml:"sort"`
	Log       Log    `yaml:"log"`
}

// Sort holds sorting settings.
type Sort struct {
	Workers   int    `yaml:"workers"`
	ChunkSize int    `yaml:"chunk_size"`
	Unordered string `yaml:"unordered"`
	Reverse   bool   `yaml:"reverse"`
}

// Log holds logging settings.
type Log struct {
	JSON  bool   `yaml:"json"`
	Level string `yaml:"level"`
}

// LookupFunc has the signature of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Collation: string(typewise.CodeUnits),
		MaxDepth:  typewise.DefaultMaxDepth,
		Sort: Sort{
			Unordered: sorting.PolicyError.String(),
		},
		Log: Log{
			Level: slog.LevelInfo.String(),
		},
	}
}

// Parse decodes YAML on top of Default. Unknown fields are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return cfg, nil
}

// Load reads the file at path (skipped when path is empty), applies the process
// environment and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}

		if cfg, err = Parse(data); err != nil {
			return Config{}, err
		}
	}

	cfg, err := cfg.ApplyEnv(os.LookupEnv)
	if err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// ApplyEnv overrides settings with the environment variables that lookup reports as set.
func (c Config) ApplyEnv(lookup LookupFunc) (Config, error) {
	var errs typewiseerrors.Collection

	if v, ok := lookup(EnvCollation); ok {
		c.Collation = v
	}

	if v, ok := lookup(EnvLocale); ok {
		c.Locale = v
	}

	if v, ok := lookup(EnvUnordered); ok {
		c.Sort.Unordered = v
	}

	if v, ok := lookup(EnvLogLevel); ok {
		c.Log.Level = v
	}

	for name, dst := range map[string]*int{
		EnvMaxDepth:    &c.MaxDepth,
		EnvSortWorkers: &c.Sort.Workers,
	} {
		if v, ok := lookup(name); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs.Add(fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidConfig, name, v))

				continue
			}

			*dst = n
		}
	}

	if v, ok := lookup(EnvLogJSON); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs.Add(fmt.Errorf("%w: %s=%q is not a boolean", ErrInvalidConfig, EnvLogJSON, v))
		} else {
			c.Log.JSON = b
		}
	}

	if errs.HasError() {
		return Config{}, errs.GetError()
	}

	return c, nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs typewiseerrors.Collection

	if _, err := c.Comparator(); err != nil {
		errs.Add(fmt.Errorf("%w: %w", ErrInvalidConfig, err))
	}

	if c.Sort.Workers < 0 {
		errs.Add(fmt.Errorf("%w: sort.workers must not be negative", ErrInvalidConfig))
	}

	if c.Sort.ChunkSize < 0 {
		errs.Add(fmt.Errorf("%w: sort.chunk_size must not be negative", ErrInvalidConfig))
	}

	if _, err := sorting.ParsePolicy(c.Sort.Unordered); err != nil {
		errs.Add(fmt.Errorf("%w: sort.unordered: %w", ErrInvalidConfig, err))
	}

	if _, err := c.level(); err != nil {
		errs.Add(err)
	}

	return errs.GetError()
}

// ComparatorOptions converts the settings into typewise options.
func (c Config) ComparatorOptions() []typewise.Option {
	opts := []typewise.Option{
		typewise.WithCollation(typewise.Collation(c.Collation)),
		typewise.WithMaxDepth(c.MaxDepth),
	}

	if typewise.Collation(c.Collation) == typewise.Locale {
		opts = append(opts, typewise.WithLocale(c.Locale))
	}

	return opts
}

// Comparator builds the comparator the settings describe.
func (c Config) Comparator() (*typewise.Comparator, error) {
	return typewise.New(c.ComparatorOptions()...)
}

// SortOptions converts the settings into sorting options using cmp for comparisons.
func (c Config) SortOptions(cmp *typewise.Comparator) ([]sorting.Option, error) {
	policy, err := sorting.ParsePolicy(c.Sort.Unordered)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return []sorting.Option{
		sorting.WithComparator(cmp),
		sorting.WithPolicy(policy),
		sorting.WithReverse(c.Sort.Reverse),
		sorting.WithWorkers(c.Sort.Workers),
		sorting.WithChunkSize(c.Sort.ChunkSize),
	}, nil
}

// LoggerOptions converts the settings into logger options writing to w.
func (c Config) LoggerOptions(app string, w io.Writer) (logger.Options, error) {
	level, err := c.level()
	if err != nil {
		return logger.Options{}, err
	}

	return logger.Options{
		Subsystem:   app,
		JSON:        c.Log.JSON,
		MinLevel:    level,
		LegacyLevel: level,
		Output:      w,
	}, nil
}

func (c Config) level() (slog.Level, error) {
	var level slog.Level

	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("%w: log.level %q", ErrInvalidConfig, c.Log.Level)
	}

	return level, nil
}
