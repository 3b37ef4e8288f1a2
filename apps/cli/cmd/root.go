package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "hitreq",
		Short: "One HTTP call, fully buffered. No magic.",
		Long: `hitreq sends a single GET, POST, PUT, DELETE or JSON-RPC request and
prints the parsed response: status line, headers and body.

Data is given as key=value pairs and sent as a query string for GET or
as a form or JSON body for the other verbs.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	opts.register(root)

	root.AddCommand(newVerbCmd(opts, "get"))
	root.AddCommand(newVerbCmd(opts, "post"))
	root.AddCommand(newVerbCmd(opts, "put"))
	root.AddCommand(newVerbCmd(opts, "delete"))
	root.AddCommand(newRPCCmd(opts))
	root.AddCommand(newServeCmd(opts))
	root.AddCommand(newInitCmd())
	root.AddCommand(newCompletionCmd())
	root.AddCommand(newVersionCmd())

	return root
}

func Execute(v, bt string) {
	version = v
	buildTime = bt
	os.Exit(run(rootCmd, os.Args[1:]))
}

// run executes root with args and returns the process exit code.
func run(root *cobra.Command, args []string) int {
	root.SetArgs(args)
	err := root.Execute()
	if err == nil {
		return ExitSuccess
	}

	var ee *exitError
	if errors.As(err, &ee) {
		if !ee.silent() {
			fmt.Fprintln(root.ErrOrStderr(), "Error:", ee.err)
		}
		return ee.code
	}

	fmt.Fprintln(root.ErrOrStderr(), "Error:", err)
	return ExitUsageError
}
