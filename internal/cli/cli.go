// Package cli implements the lineage command-line interface.
//
// This package provides commands for inspecting GEDCOM files, querying the
// relationship graph (hierarchy, hourglass, connections), rendering person
// graphs, and serving the same queries as a JSON API. The CLI is built using
// cobra and supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - inspect: Summarize a document and its parse diagnostics
//   - person, family: Print one record with its resolved relations
//   - hierarchy, hourglass, connections: Run a kinship query, print JSON
//   - tree, roles: Lineage trees and family diagram input
//   - render: Generate SVG, DOT, JSON, PDF, or PNG person graphs
//   - serve: Expose the queries over HTTP
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
//
// # Configuration
//
// Defaults are read from a TOML file (see [Config]); flags given on the
// command line take precedence.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/lineage/pkg/buildinfo"
	"github.com/matzehuels/lineage/pkg/observability"
	"github.com/matzehuels/lineage/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "lineage"

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
	Config Config

	configPath string
	strict     bool
}

// New creates a new CLI instance with a default logger and configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: DefaultConfig(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Lineage explores family trees stored as GEDCOM",
		Long:          `Lineage parses GEDCOM genealogy files into a linked relationship graph and answers hierarchy, hourglass and connection queries over it, as JSON, diagrams or an HTTP API.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(c.configPath)
			if err != nil {
				return err
			}
			c.Config = cfg
			hooks := &logHooks{logger: c.Logger}
			observability.SetPipelineHooks(hooks)
			observability.SetHTTPHooks(hooks)
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/lineage/config.toml)")
	root.PersistentFlags().BoolVar(&c.strict, "strict", false, "fail when the document has parse diagnostics")

	// Register all subcommands
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.personCommand())
	root.AddCommand(c.familyCommand())
	root.AddCommand(c.hierarchyCommand())
	root.AddCommand(c.hourglassCommand())
	root.AddCommand(c.connectionsCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.rolesCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner() *pipeline.Runner {
	return pipeline.NewRunner(c.Logger)
}

// load reads and links the document at path with the CLI's strictness.
func (c *CLI) load(ctx context.Context, path string) (*pipeline.Runner, *pipeline.Source, error) {
	runner := c.newRunner()
	src, err := runner.Load(ctx, path, c.baseOptions())
	if err != nil {
		return nil, nil, err
	}
	return runner, src, nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// baseOptions returns pipeline options seeded from the configuration.
func (c *CLI) baseOptions() pipeline.Options {
	return pipeline.Options{
		Strict:   c.strict,
		Up:       c.Config.Hourglass.Up,
		Down:     c.Config.Hourglass.Down,
		Mode:     c.Config.Connections.Mode,
		Detailed: c.Config.Render.Detailed,
		Formats:  parseFormats(c.Config.Render.Format),
		Logger:   c.Logger,
	}
}
