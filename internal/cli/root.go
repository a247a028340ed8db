package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

// Execute runs the lineage CLI and returns an error if any command fails.
// This is the main entry point for the CLI application.
//
// Logging:
//   - Default: info level (logs to stderr)
//   - With --verbose (-v): debug level
//
// The logger is attached to the context and accessible to all commands via loggerFromContext.
//
// Example:
//
//	func main() {
//	    if err := cli.Execute(context.Background()); err != nil {
//	        os.Exit(1)
//	    }
//	}
func Execute(ctx context.Context) error {
	return newRootCommand(New(os.Stderr, LogInfo)).ExecuteContext(ctx)
}

// newRootCommand wraps the CLI's root command with the --verbose flag.
func newRootCommand(c *CLI) *cobra.Command {
	var verbose bool

	root := c.RootCommand()
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	configure := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		level := LogInfo
		if verbose {
			level = LogDebug
		}
		c.SetLogLevel(level)
		return configure(cmd, args)
	}

	return root
}
