package cli

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

type palette struct {
	key   *color.Color
	value *color.Color
	event *color.Color
	ok    *color.Color
	err   *color.Color
}

// newPalette colors output only when w is a terminal. color.NoColor looks
// at stdout, which is usually redirected when saving a response, so the
// decision is made per writer here.
func newPalette(w io.Writer, noColor bool) palette {
	p := palette{
		key:   color.New(color.FgYellow),
		value: color.New(color.FgWhite),
		event: color.New(color.FgCyan),
		ok:    color.New(color.FgGreen, color.Bold),
		err:   color.New(color.FgRed, color.Bold),
	}
	enable := !noColor && os.Getenv("NO_COLOR") == "" && isTerminal(w)
	for _, c := range []*color.Color{p.key, p.value, p.event, p.ok, p.err} {
		if enable {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
