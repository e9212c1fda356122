// Package cli implements the netedit command-line interface.
//
// netedit replays gesture scripts against the net editing engine, exports
// the resulting net topology as DOT or SVG, and offers a small terminal
// editor driving the same wire tool interactively.
//
// # Commands
//
//   - run: replay a script and print a summary of the resulting nets
//   - dot: replay a script and print the DOT graph of one sheet
//   - tui: edit a schematic sheet from the terminal
//   - serve: replay scripts sent over HTTP
//   - config: write or locate the configuration file
//   - cache: manage the report cache of the server
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Without it
// the level comes from the log section of the configuration. Loggers are
// passed through context.Context.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/netedit/pkg/buildinfo"
	"github.com/matzehuels/netedit/pkg/config"
	"github.com/matzehuels/netedit/pkg/observability"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "netedit"

	// configFile is the file name looked up in the configuration directory.
	configFile = "config.toml"
)

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

	verbose bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "netedit edits the net topology of schematics and boards",
		Long:         `netedit replays wire drawing gestures against a net graph, keeps net names consistent across sheets, and exports the resulting topology.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			observability.SetTransactionHooks(&logHooks{logger: c.Logger})
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.runCommand())
	root.AddCommand(c.dotCommand())
	root.AddCommand(c.tuiCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

// loadConfig loads the configuration from path. An empty path falls back to
// the user configuration file and then to the embedded defaults. Unless
// --verbose is set, the configured log level is applied.
func (c *CLI) loadConfig(path string) (*config.Config, error) {
	if path == "" {
		if p, err := defaultConfigPath(); err == nil {
			if _, err := os.Stat(p); err == nil {
				path = p
			}
		}
	}

	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
		c.Logger.Debug("loaded config", "path", path)
	}

	if !c.verbose {
		if level, err := log.ParseLevel(cfg.Log.Level); err == nil {
			c.SetLogLevel(level)
		}
	}
	return cfg, nil
}

// =============================================================================
// Paths
// =============================================================================

// configDir returns the configuration directory using XDG standard
// (~/.config/netedit/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// defaultConfigPath returns the path of the user configuration file.
func defaultConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}
