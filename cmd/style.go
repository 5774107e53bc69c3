package main

import (
	"io"
	"log/slog"
	"sync"

	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"

	"github.com/luca-patrignani/crapsim/config"
	"github.com/luca-patrignani/crapsim/report"
)

func printBanner() {
	pterm.DefaultBigText.WithLetters(
		putils.LettersFromStringWithStyle("Crap", pterm.FgRed.ToStyle()),
		putils.LettersFromStringWithStyle("Sim", pterm.FgDarkGray.ToStyle()),
	).Render()
}

// newLogger returns a slog logger backed by the pterm logger, writing to w.
func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	logger := pterm.DefaultLogger.WithLevel(logLevel(level)).WithWriter(w)
	return slog.New(pterm.NewSlogHandler(logger))
}

func logLevel(level slog.Level) pterm.LogLevel {
	switch {
	case level <= config.LevelTrace:
		return pterm.LogLevelTrace
	case level <= slog.LevelDebug:
		return pterm.LogLevelDebug
	case level <= slog.LevelInfo:
		return pterm.LogLevelInfo
	case level <= slog.LevelWarn:
		return pterm.LogLevelWarn
	default:
		return pterm.LogLevelError
	}
}

// tally shows the run count on a progress bar.
// update is called from the worker goroutines.
type tally struct {
	mu  sync.Mutex
	rep *report.Context
	bar *pterm.ProgressbarPrinter
}

func newTally(rep *report.Context) *tally {
	return &tally{rep: rep}
}

func (t *tally) start(runs int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	bar, err := pterm.DefaultProgressbar.
		WithTotal(runs).
		WithTitle(t.rep.TallyLine(0, runs)).
		Start()
	if err != nil {
		return err
	}
	t.bar = bar
	return nil
}

func (t *tally) update(done, total int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.bar == nil || done <= t.bar.Current {
		return
	}
	t.bar.UpdateTitle(t.rep.TallyLine(done, total))
	t.bar.Add(done - t.bar.Current)
}

func (t *tally) stop(ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.bar == nil {
		return
	}
	if ok && t.bar.Current < t.bar.Total {
		t.bar.Add(t.bar.Total - t.bar.Current)
	}
	_, _ = t.bar.Stop()
	t.bar = nil
}
