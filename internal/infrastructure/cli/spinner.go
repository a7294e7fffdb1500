package cli

import (
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/mattn/go-isatty"
)

const spinnerInterval = 100 * time.Millisecond

// startSpinner animates label on w and returns the function that clears it.
// Nothing is drawn when w is not a terminal, so piped output stays clean.
func startSpinner(w io.Writer, label string) func() {
	f, ok := terminalFile(w)
	if !ok {
		return func() {}
	}
	s := spinner.New(spinner.CharSets[11], spinnerInterval, spinner.WithWriterFile(f))
	s.Suffix = " " + label
	s.Start()
	return s.Stop
}

func terminalFile(w io.Writer) (*os.File, bool) {
	f, ok := w.(*os.File)
	if !ok {
		return nil, false
	}
	return f, isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
