// Package config loads the optional flightsizer configuration file.
//
// The file is TOML. Every key is optional and command-line flags override
// whatever the file sets:
//
//	[flight]
//	ranks = 12
//	elements = 4
//
//	[simulation]
//	trials = 10000
//	seed = 42
//	workers = 4
//
//	[population]
//	precision = 1
//
//	[[population.group]]
//	name = "female"
//	weight = 0.5
//	mean = 62.8
//	stddev = 2.8
//
//	[[population.group]]
//	name = "male"
//	weight = 0.5
//	mean = 70.0
//	stddev = 3.0
//
//	[chart]
//	bins = 25
//
//	[cache]
//	backend = "redis"
//	ttl = "24h"
//	redis_addr = "localhost:6379"
//
//	[server]
//	addr = ":8080"
//	max_trials = 100000
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/flightsizer/pkg/cache"
	"github.com/matzehuels/flightsizer/pkg/chart"
	"github.com/matzehuels/flightsizer/pkg/errors"
	"github.com/matzehuels/flightsizer/pkg/flight"
	"github.com/matzehuels/flightsizer/pkg/sample"
	"github.com/matzehuels/flightsizer/pkg/simulation"
)

const (
	appName  = "flightsizer"
	fileName = "config.toml"

	// DefaultAddr is the default listen address of the API server.
	DefaultAddr = ":8080"

	// DefaultServerMaxTrials caps trials per API request.
	DefaultServerMaxTrials = 100_000

	// DefaultServerMaxDimension caps ranks and elements per API request.
	DefaultServerMaxDimension = 100
)

// Config is the effective configuration.
type Config struct {
	Flight     Flight            `toml:"flight"`
	Simulation Simulation        `toml:"simulation"`
	Population sample.Population `toml:"population"`
	Chart      chart.Options     `toml:"chart"`
	Cache      Cache             `toml:"cache"`
	Server     Server            `toml:"server"`
}

// Flight holds default flight dimensions.
type Flight struct {
	Ranks    int `toml:"ranks"`
	Elements int `toml:"elements"`
}

// Simulation holds default simulation settings.
type Simulation struct {
	Trials  int    `toml:"trials"`
	Seed    uint64 `toml:"seed"`
	Workers int    `toml:"workers"`
}

// Cache selects the cache backend.
type Cache struct {
	Backend       string        `toml:"backend"`
	Dir           string        `toml:"dir,omitempty"`
	TTL           time.Duration `toml:"ttl"`
	RedisAddr     string        `toml:"redis_addr,omitempty"`
	RedisPassword string        `toml:"redis_password,omitempty"`
	RedisDB       int           `toml:"redis_db,omitempty"`
}

// Server configures the HTTP API.
type Server struct {
	Addr         string `toml:"addr"`
	MaxTrials    int    `toml:"max_trials"`
	MaxDimension int    `toml:"max_dimension"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Flight: Flight{
			Ranks:    flight.DefaultRanks,
			Elements: flight.DefaultElements,
		},
		Simulation: Simulation{
			Trials:  simulation.DefaultTrials,
			Seed:    simulation.DefaultSeed,
			Workers: simulation.DefaultWorkers,
		},
		Population: sample.DefaultPopulation(),
		Chart:      chart.Options{Bins: chart.DefaultBins},
		Cache: Cache{
			Backend: cache.BackendFile,
			TTL:     cache.TTLSimulation,
		},
		Server: Server{
			Addr:         DefaultAddr,
			MaxTrials:    DefaultServerMaxTrials,
			MaxDimension: DefaultServerMaxDimension,
		},
	}
}

// DefaultPath returns the config file location following the XDG standard
// (~/.config/flightsizer/config.toml).
func DefaultPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, fileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, fileName), nil
}

// Load reads the config file at path over the defaults. An explicit path
// must exist; when path is empty the default location is used and a missing
// file yields the defaults. The returned string is the path that was
// consulted.
func Load(path string) (Config, string, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Default(), "", nil
		}
		path = p
	}

	cfg := Default()
	f, err := os.Open(path)
	if os.IsNotExist(err) && !explicit {
		return cfg, path, nil
	}
	if os.IsNotExist(err) {
		return cfg, path, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file not found: %s", path)
	}
	if err != nil {
		return cfg, path, errors.Wrap(errors.ErrCodeInvalidConfig, err, "open config")
	}
	defer f.Close()

	cfg, err = Decode(f)
	if err != nil {
		return cfg, path, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, path, nil
}

// Decode parses TOML from r over the defaults and validates the result.
// Unknown keys are rejected so typos do not go unnoticed.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	groups := cfg.Population.Groups
	cfg.Population.Groups = nil

	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return Default(), errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Default(), errors.New(errors.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	if len(cfg.Population.Groups) == 0 {
		cfg.Population.Groups = groups
	}
	if err := cfg.Validate(); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// Validate checks that the configuration describes runnable simulations.
func (c Config) Validate() error {
	opts := c.SimulationOptions()
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid simulation settings")
	}
	if err := errors.ValidateFormat(c.Cache.Backend, cache.BackendFile, cache.BackendRedis, cache.BackendNone); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid cache backend")
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache ttl must not be negative")
	}
	if err := c.Chart.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid chart settings")
	}
	if c.Server.MaxTrials < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server max_trials must not be negative")
	}
	if c.Server.MaxDimension < 0 || c.Server.MaxDimension > errors.MaxDimension {
		return errors.New(errors.ErrCodeInvalidConfig, "server max_dimension must be between 0 and %d", errors.MaxDimension)
	}
	return nil
}

// SimulationOptions returns simulation options seeded from the config.
func (c Config) SimulationOptions() simulation.Options {
	return simulation.Options{
		Trials:     c.Simulation.Trials,
		Ranks:      c.Flight.Ranks,
		Elements:   c.Flight.Elements,
		Seed:       c.Simulation.Seed,
		Workers:    c.Simulation.Workers,
		Population: c.Population,
	}
}

// CacheConfig returns the cache backend configuration. dir is used for the
// file backend when the config does not name a directory.
func (c Config) CacheConfig(dir string) cache.Config {
	cc := cache.Config{
		Backend:       c.Cache.Backend,
		Dir:           c.Cache.Dir,
		RedisAddr:     c.Cache.RedisAddr,
		RedisPassword: c.Cache.RedisPassword,
		RedisDB:       c.Cache.RedisDB,
	}
	if cc.Dir == "" {
		cc.Dir = dir
	}
	return cc
}

// Encode writes the configuration as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
