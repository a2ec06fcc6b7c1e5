package notify

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"idx-signals/internal/models"
)

// TerminalNotifier prints signals to a writer, colored by side.
type TerminalNotifier struct {
	out io.Writer
}

// NewTerminalNotifier creates a terminal notifier writing to stdout.
func NewTerminalNotifier() *TerminalNotifier {
	return &TerminalNotifier{out: os.Stdout}
}

// NewTerminalNotifierWriter creates a terminal notifier with a custom writer.
func NewTerminalNotifierWriter(w io.Writer) *TerminalNotifier {
	return &TerminalNotifier{out: w}
}

func (t *TerminalNotifier) Name() string {
	return "terminal"
}

func (t *TerminalNotifier) Notify(_ context.Context, symbol string, signals []models.Signal) error {
	green := color.New(color.FgGreen, color.Bold).SprintFunc()
	red := color.New(color.FgRed, color.Bold).SprintFunc()

	for _, sig := range signals {
		side := green(string(sig.Side))
		if sig.Side == models.SideSell {
			side = red(string(sig.Side))
		}
		line := fmt.Sprintf("%s  %s  bar %d  %s", symbol, side, sig.Index, sig.Timestamp.Format("2006-01-02 15:04"))
		if sig.EntryPrice != nil {
			line += fmt.Sprintf("  entry %.2f", *sig.EntryPrice)
		}
		if sig.RoundedSL != nil && sig.RoundedTP != nil {
			line += fmt.Sprintf("  sl %.2f  tp %.2f", *sig.RoundedSL, *sig.RoundedTP)
		}
		if sig.Note != "" {
			line += "  [" + sig.Note + "]"
		}
		if _, err := fmt.Fprintln(t.out, line); err != nil {
			return err
		}
	}
	return nil
}
