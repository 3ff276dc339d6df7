// Package cli implements the dockspace command-line interface.
//
// Commands fall into three groups:
//   - file commands (stats, validate, fmt, restore, dot, view, demo) that work
//     on layout JSON files or stdin
//   - snapshot commands (save, show, list, delete) backed by the configured
//     store
//   - serve, config and completion
//
// All commands support --verbose (-v) for debug-level logging and --config to
// point at a config file other than the default.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/dockspace/internal/config"
	"github.com/matzehuels/dockspace/pkg/buildinfo"
	"github.com/matzehuels/dockspace/pkg/store"
)

// appName is the application name used for directories and display.
const appName = "dockspace"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// configPath is set by the --config flag; empty means config.DefaultPath.
	configPath string
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
		Use:   appName,
		Short: "Dockspace inspects, converts and stores docking layouts",
		Long: `Dockspace works with serialized docking layouts: trees of split areas and
tabbed panels saved as JSON. It validates and measures layout files, rebuilds
them through a widget factory, renders them as diagrams and keeps named
snapshots in a file, Redis or MongoDB store.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/dockspace/config.toml)")

	root.AddGroup(
		&cobra.Group{ID: "file", Title: "Layout files:"},
		&cobra.Group{ID: "store", Title: "Snapshots:"},
	)

	for _, cmd := range []*cobra.Command{
		c.statsCommand(),
		c.validateCommand(),
		c.fmtCommand(),
		c.restoreCommand(),
		c.dotCommand(),
		c.viewCommand(),
		c.demoCommand(),
	} {
		cmd.GroupID = "file"
		root.AddCommand(cmd)
	}
	for _, cmd := range []*cobra.Command{
		c.saveCommand(),
		c.showCommand(),
		c.listCommand(),
		c.deleteCommand(),
	} {
		cmd.GroupID = "store"
		root.AddCommand(cmd)
	}
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file selected by --config.
func (c *CLI) loadConfig() (config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return config.Config{}, err
	}
	c.Logger.Debug("config loaded", "backend", cfg.Store.Backend, "cache_size", cfg.Store.CacheSize)
	return cfg, nil
}

// openStore loads the config and opens the configured snapshot store.
func (c *CLI) openStore(ctx context.Context) (store.Store, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	return c.openStoreWith(ctx, cfg)
}

func (c *CLI) openStoreWith(ctx context.Context, cfg config.Config) (store.Store, error) {
	prog := newProgress(c.Logger)
	s, err := store.Open(ctx, cfg.StoreConfig())
	if err != nil {
		return nil, err
	}
	prog.debug("Opened " + cfg.Store.Backend + " store")
	return s, nil
}
