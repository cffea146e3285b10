// Package cli implements the railmap command-line interface.
//
// # Commands
//
//   - render: draw a topology file as SVG, JSON, PNG or PDF
//   - lines: print the main and pass path strings per branch
//   - topology: show the branch structure as a Graphviz diagram
//   - step: move the current station interactively and preview the result
//   - serve: run the HTTP API
//   - cache: clear or locate the artifact cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger
// lives on [CLI] and is passed to the pipeline runner and HTTP server.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/railmap/pkg/buildinfo"
	"github.com/matzehuels/railmap/pkg/cache"
	"github.com/matzehuels/railmap/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "railmap"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
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
		Short: "Railmap draws metro line maps from station topologies",
		Long: `Railmap turns a station topology (stations, their positions along the
line and the branches that connect them) into a metro-style line diagram:
the part of the line still ahead in colour, the part already travelled in gray.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.linesCommand())
	root.AddCommand(c.topologyCommand())
	root.AddCommand(c.stepCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newRunner creates a pipeline runner backed by the cache named by spec
// (see [cache.Open]).
func (c *CLI) newRunner(ctx context.Context, spec string, keyer cache.Keyer) (*pipeline.Runner, error) {
	store, err := c.openCache(ctx, spec)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, keyer, c.Logger), nil
}

func (c *CLI) openCache(ctx context.Context, spec string) (cache.Cache, error) {
	dir, err := cacheDir()
	if err != nil && (spec == "" || spec == cache.BackendFile) {
		c.Logger.Warn("no cache directory, caching disabled", "error", err)
		return cache.NewNullCache(), nil
	}
	store, err := cache.Open(ctx, spec, dir)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("opened cache", "backend", cache.Describe(spec))
	return store, nil
}

// cacheDir returns the cache directory using XDG standard (~/.cache/railmap/).
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

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
