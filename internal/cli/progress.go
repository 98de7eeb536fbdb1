package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
)

// CLIProgressReporter shows analysis progress as a progress bar.
type CLIProgressReporter struct {
	quiet   bool
	out     io.Writer
	fileBar *progressbar.ProgressBar
}

// NewCLIProgressReporter creates a new CLI progress reporter writing to out.
// Nothing is drawn when quiet is set.
func NewCLIProgressReporter(out io.Writer, quiet bool) *CLIProgressReporter {
	return &CLIProgressReporter{
		quiet: quiet,
		out:   out,
	}
}

func (c *CLIProgressReporter) OnAnalysisStart(totalFiles int) {
	if c.quiet {
		return
	}
	if c.fileBar != nil {
		c.fileBar.Finish()
	}

	c.fileBar = progressbar.NewOptions(totalFiles,
		progressbar.OptionSetWriter(c.out),
		progressbar.OptionSetDescription("Analyzing files"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(c.out)
		}),
	)
}

// OnFileAnalyzed is called from parser goroutines; the bar serializes updates.
func (c *CLIProgressReporter) OnFileAnalyzed(filePath string) {
	if c.quiet {
		return
	}
	if c.fileBar != nil {
		c.fileBar.Add(1)
	}
}

func (c *CLIProgressReporter) OnAnalysisComplete(declarations int, elapsed time.Duration) {
	if c.quiet {
		return
	}
	if c.fileBar != nil {
		c.fileBar.Finish()
		c.fileBar = nil
	}
	fmt.Fprintf(c.out, "✓ Analysis complete: %s types in %.1fs\n",
		formatNumber(declarations), elapsed.Seconds())
}

// formatNumber formats a number with thousands separators
func formatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("%s,%03d", formatNumber(n/1000), n%1000)
}
