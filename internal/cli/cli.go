// Package cli implements the flightsizer command-line interface.
//
// Commands:
//   - size: run the sizing drill on one flight and show each phase
//   - drill: step through the drill tap by tap in the terminal
//   - simulate: run many random flights and summarize the move counts
//   - plot: chart the move distribution of a saved simulation
//   - serve: run the HTTP API
//   - config, cache, completion: housekeeping
//
// All commands support --verbose (-v) for debug-level logging and --config
// to point at a TOML configuration file.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/flightsizer/internal/config"
	"github.com/matzehuels/flightsizer/pkg/buildinfo"
	"github.com/matzehuels/flightsizer/pkg/cache"
	"github.com/matzehuels/flightsizer/pkg/observability"
	"github.com/matzehuels/flightsizer/pkg/simulation"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "flightsizer"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	out    io.Writer
	errOut io.Writer

	configPath string
	cfg        config.Config
	cfgSource  string
}

// New creates a CLI that prints results to out and logs to errOut.
func New(out, errOut io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(errOut, level),
		out:    out,
		errOut: errOut,
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Flightsizer runs and studies the flight sizing drill",
		Long:         `Flightsizer sizes a flight of airmen with the taller-tap drill, counts the moves it takes, and simulates thousands of random flights to study how many moves a drill usually needs.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.SetOut(c.out)
	root.SetErr(c.errOut)
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/flightsizer/config.toml)")

	root.AddCommand(c.sizeCommand())
	root.AddCommand(c.drillCommand())
	root.AddCommand(c.simulateCommand())
	root.AddCommand(c.plotCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file and registers logging hooks.
func (c *CLI) loadConfig() error {
	cfg, path, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg, c.cfgSource = cfg, path
	c.Logger.Debug("loaded config", "path", path)

	hooks := logHooks{logger: c.Logger}
	observability.SetSimulationHooks(hooks)
	observability.SetCacheHooks(hooks)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a simulation runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*simulation.Runner, error) {
	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	r := simulation.NewRunner(cc, nil, c.Logger)
	r.TTL = c.cfg.Cache.TTL
	return r, nil
}

// newCache opens the configured cache. A file cache whose directory cannot
// be determined degrades to no caching.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil && c.cfg.Cache.Dir == "" && c.cfg.Cache.Backend == cache.BackendFile {
		c.Logger.Warn("caching disabled", "error", err)
		return cache.NewNullCache(), nil
	}
	return cache.Open(ctx, c.cfg.CacheConfig(dir))
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/flightsizer/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
