package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/frankli0324/go-rawget/internal/uri"
)

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse URL",
		Short: "Print how a URL is split into scheme, host, port, path, query and fragment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			noColor, _ := cmd.Flags().GetBool("no-color")
			out := cmd.OutOrStdout()
			printURL(out, newPalette(out, noColor), uri.Parse(args[0]))
			return nil
		},
	}
}

func printURL(w io.Writer, p palette, u uri.URL) {
	field := func(name string, value interface{}) {
		fmt.Fprintf(w, "%s %v\n", p.key.Sprintf("%-9s", name+":"), value)
	}
	field("scheme", u.Scheme)
	field("host", fmt.Sprintf("%q", u.Host))
	field("port", u.Port)
	field("path", fmt.Sprintf("%q", u.Path))
	if u.Query == nil {
		field("query", "none")
	} else {
		field("query", fmt.Sprintf("%d pairs", len(u.Query)))
		for _, pair := range u.Query {
			fmt.Fprintf(w, "  %s = %s\n", p.value.Sprintf("%q", pair.Key), p.value.Sprintf("%q", pair.Value))
		}
	}
	field("fragment", fmt.Sprintf("%q", u.Fragment))
	field("target", u.RequestTarget())
}
