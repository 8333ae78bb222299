// Package cli implements the flowglyph command-line interface.
//
// # Commands
//
//   - position: place props and arrows for every beat of a sequence
//   - validate: report and optionally repair orientation discontinuities
//   - orientations: print a sequence's end and next start orientations
//   - overrides: list the override and direction rule tables
//   - graph: render the orientation continuity graph
//   - browse: step through positioned beats interactively
//   - serve: run the HTTP API
//   - cache: manage the placement cache
//
// Every command reads flowglyph.{yaml,toml,json} through pkg/config; flags
// override config values.
package cli

import (
	"context"
	"errors"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/flowglyph/pkg/buildinfo"
	"github.com/matzehuels/flowglyph/pkg/cache"
	"github.com/matzehuels/flowglyph/pkg/config"
	"github.com/matzehuels/flowglyph/pkg/engine"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "flowglyph"

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

	configPath string
	logFile    string
	verbose    bool
	noCache    bool

	cfg       *config.Config
	logCloser io.Closer
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// Config returns the loaded configuration, or defaults before a command ran.
func (c *CLI) Config() *config.Config {
	if c.cfg == nil {
		return config.Default()
	}
	return c.cfg
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:               appName,
		Short:             "Flowglyph positions props and arrows in flow-arts pictographs",
		Long:              `Flowglyph computes where props and arrows go in a pictograph, separates overlapping props, and keeps prop orientations continuous across a sequence of beats.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) { c.teardown() },
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVarP(&c.configPath, "config", "c", "", "config file (default: ./flowglyph.yaml or the user config dir)")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	flags.StringVar(&c.logFile, "log-file", "", "also write logs to this file, rotated by size")
	flags.BoolVar(&c.noCache, "no-cache", false, "disable the placement cache")

	root.AddCommand(c.positionCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.orientationsCommand())
	root.AddCommand(c.overridesCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the configuration and applies logging settings. Flags win
// over config values.
func (c *CLI) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.logFile != "" {
		cfg.Log.File = c.logFile
	}
	c.cfg = cfg

	level, _ := log.ParseLevel(cfg.Log.Level)
	if c.verbose {
		level = log.DebugLevel
	}
	c.SetLogLevel(level)

	if cfg.Log.File != "" {
		rot := newRotatingFile(cfg.Log)
		c.Logger.SetOutput(io.MultiWriter(cmd.ErrOrStderr(), rot))
		c.logCloser = rot
	}
	c.Logger.Debug("loaded config", "file", c.configPath, "cache", cfg.Cache.Backend, "store", cfg.Store.Backend)
	return nil
}

func (c *CLI) teardown() {
	if c.logCloser != nil {
		_ = c.logCloser.Close()
		c.logCloser = nil
	}
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates an engine runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context) (*engine.Runner, error) {
	cfg := c.Config()
	opts, err := cfg.EngineOptions()
	if err != nil {
		return nil, err
	}
	ch, err := c.openCache(ctx)
	if err != nil {
		return nil, err
	}
	return engine.NewRunner(ch, cfg.CacheKeyer(), c.Logger, opts), nil
}

func (c *CLI) openCache(ctx context.Context) (cache.Cache, error) {
	if c.noCache {
		return cache.NewNullCache(), nil
	}
	ch, err := c.Config().OpenCache(ctx)
	if err != nil {
		// A missing cache only costs speed.
		if errors.Is(err, cache.ErrNetwork) {
			c.Logger.Warn("cache unavailable, continuing without it", "error", err)
			return cache.NewNullCache(), nil
		}
		return nil, err
	}
	return ch, nil
}
