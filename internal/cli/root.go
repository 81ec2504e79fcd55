package cli

import (
	"context"
	"os"
)

// Execute runs the crosswire CLI and returns an error if any command fails.
// This is the main entry point for the CLI application.
//
// Logging goes to stderr at info level; --verbose (-v) switches to debug.
// The logger is attached to the command context and available to every
// command through loggerFromContext.
//
// Example:
//
//	func main() {
//	    if err := cli.Execute(context.Background()); err != nil {
//	        os.Exit(1)
//	    }
//	}
func Execute(ctx context.Context) error {
	return New(os.Stderr, LogInfo).RootCommand().ExecuteContext(ctx)
}
