package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/schollz/progressbar/v3"
)

// NewAnalysisProgressBar creates the progress bar shown while analyzing a
// batch of receipts.
func NewAnalysisProgressBar(total int, writer io.Writer) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(writer),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Analyzing receipts...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(writer); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
}
