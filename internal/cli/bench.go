package cli

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/frankli0324/go-rawget/internal/bench"
	"github.com/frankli0324/go-rawget/internal/model"
)

// headerGetter sends the session headers with every request.
type headerGetter struct {
	s *session
}

func (g headerGetter) Get(ctx context.Context, url string) ([]byte, error) {
	resp, err := g.s.client.CtxDo(ctx, &model.Request{URL: url, Header: g.s.header})
	if err != nil {
		return nil, err
	}
	return resp.Raw, nil
}

func newBenchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench URL",
		Short: "Send the same GET many times in parallel and report latency percentiles",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			n, _ := cmd.Flags().GetInt("requests")
			c, _ := cmd.Flags().GetInt("concurrency")
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			res, err := bench.Run(ctx, headerGetter{s}, args[0], bench.Options{
				Requests:    n,
				Concurrency: c,
				Logger:      s.logger,
			})
			if err != nil {
				return err
			}
			noColor, _ := cmd.Flags().GetBool("no-color")
			out := cmd.OutOrStdout()
			printBench(out, newPalette(out, noColor), res)
			return nil
		},
	}
	addConnFlags(cmd.Flags())
	cmd.Flags().IntP("requests", "n", 100, "Number of requests")
	cmd.Flags().IntP("concurrency", "c", 10, "Number of parallel workers")
	return cmd
}

func printBench(w io.Writer, p palette, r *bench.Result) {
	line := func(name string, value interface{}) {
		fmt.Fprintf(w, "%s %v\n", p.key.Sprintf("%-9s", name+":"), value)
	}
	line("requests", r.Requests)
	if r.Errors > 0 {
		line("errors", p.err.Sprint(r.Errors))
		kinds := make([]string, 0, len(r.ErrorsByKind))
		for k := range r.ErrorsByKind {
			kinds = append(kinds, k)
		}
		sort.Strings(kinds)
		for _, k := range kinds {
			fmt.Fprintf(w, "  %s: %d\n", k, r.ErrorsByKind[k])
		}
	} else {
		line("errors", p.ok.Sprint(0))
	}
	line("bytes", r.Bytes)
	line("elapsed", r.Elapsed.Round(time.Millisecond))
	line("rps", fmt.Sprintf("%.1f", r.RequestsPerSecond()))
	line("latency", fmt.Sprintf("p50=%s p90=%s p99=%s max=%s mean=%s",
		r.P50, r.P90, r.P99, r.Max, r.Mean.Round(time.Microsecond)))
}
