package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

// NewRootCmd builds the command tree. Every call returns fresh commands and
// flag sets.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "rawget",
		Short:   "Fetch a URL over a raw socket and print exactly what the server sent",
		Version: version,
		Long: `rawget writes a bare HTTP/1.1 GET request onto a plain TCP or TLS
socket and prints every byte the server sends back until it closes the
connection. Status line, headers and body are not interpreted.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	root.PersistentFlags().String("config", "", "YAML or JSON config file")
	root.PersistentFlags().Bool("no-color", false, "Disable colored output")
	root.PersistentFlags().BoolP("verbose", "v", false, "Print the parsed URL, trace events and debug logs to stderr")

	root.AddCommand(newGetCmd())
	root.AddCommand(newParseCmd())
	root.AddCommand(newBenchCmd())
	return root
}

// Execute runs the command line in os.Args and reports the error on stderr.
func Execute() error {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, newPalette(os.Stderr, false).err.Sprint("Error:"), err)
		return err
	}
	return nil
}
