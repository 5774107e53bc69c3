package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/pterm/pterm"
	"golang.org/x/text/language"

	"github.com/luca-patrignani/crapsim/config"
	"github.com/luca-patrignani/crapsim/ledger"
	"github.com/luca-patrignani/crapsim/report"
	"github.com/luca-patrignani/crapsim/simulation"
	"github.com/luca-patrignani/crapsim/storage"
	"github.com/luca-patrignani/crapsim/tracker"
)

const version = "0.7.0"

// dotenvFile is read from the working directory when present.
const dotenvFile = ".env"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func usage(w io.Writer, name string) {
	fmt.Fprintf(w, "usage: %s [-h|--help] [-v|--version] FILE\n\n", name)
	fmt.Fprintln(w, "Runs the craps strategies described in the YAML settings file FILE.")
	fmt.Fprintln(w, "\nOptions:")
	fmt.Fprintln(w, "  -h, --help     show this help and exit")
	fmt.Fprintln(w, "  -v, --version  show the version and exit")
	fmt.Fprintln(w, "\nEnvironment (also read from ./.env):")
	fmt.Fprintln(w, "  CRAPSIM_SEED, CRAPSIM_WORKERS, CRAPSIM_RANDOM_SOURCE, CRAPSIM_LOG_LEVEL,")
	fmt.Fprintln(w, "  CRAPSIM_TRACE_DIR, CRAPSIM_RESULTS_DB, CRAPSIM_LEDGER, CRAPSIM_MAX_ROLLS_PER_RUN")
}

// run is main without the exit, returning the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	const name = "crapsim"
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var help, showVersion bool
	fs.BoolVar(&help, "h", false, "")
	fs.BoolVar(&help, "help", false, "")
	fs.BoolVar(&showVersion, "v", false, "")
	fs.BoolVar(&showVersion, "version", false, "")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", name, err)
		usage(stderr, name)
		return 1
	}
	switch {
	case help:
		usage(stdout, name)
		return 0
	case showVersion:
		fmt.Fprintf(stdout, "%s %s\n", name, version)
		return 0
	case fs.NArg() != 1:
		usage(stderr, name)
		return 1
	}

	pterm.SetDefaultOutput(stdout)
	printBanner()

	rt, err := config.LoadRuntime(dotenvFile)
	if err != nil {
		fmt.Fprintln(stderr, pterm.Error.Sprint(err))
		return 1
	}
	level, err := rt.Level()
	if err != nil {
		fmt.Fprintln(stderr, pterm.Error.Sprint(err))
		return 1
	}
	logger := newLogger(stderr, level)

	settings, err := config.Load(fs.Arg(0))
	if err != nil {
		logger.Error("loading settings", "file", fs.Arg(0), "error", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := simulate(ctx, settings, rt, logger, stdout); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Warn("simulation interrupted")
		} else {
			logger.Error("simulation failed", "error", err)
		}
		return 1
	}
	return 0
}

func simulate(ctx context.Context, settings config.Settings, rt config.Runtime, logger *slog.Logger, stdout io.Writer) error {
	kind, err := rt.Source()
	if err != nil {
		return err
	}
	opts := []simulation.Option{
		simulation.WithLogger(logger),
		simulation.WithWorkers(rt.Workers),
		simulation.WithSource(kind, rt.Seed),
		simulation.WithMaxRollsPerRun(rt.MaxRollsPerRun),
		simulation.WithTracer(tracker.Factory(rt.TraceDir)),
	}

	var store *storage.Store
	if rt.ResultsDB != "" {
		if store, err = storage.Open(rt.ResultsDB); err != nil {
			return err
		}
		defer func() {
			if err := store.Close(); err != nil {
				logger.Error("closing results database", "error", err)
			}
		}()
	}

	id := uuid.NewString()
	opts = append(opts, simulation.WithID(id))
	var l *ledger.Ledger
	if rt.Ledger {
		l = ledger.NewLedger(id)
		opts = append(opts, simulation.WithLedger(l))
	}
	rep := report.NewContext(stdout, language.English)
	var progress *tally
	if settings.Tally {
		progress = newTally(rep)
		opts = append(opts, simulation.WithTally(progress.update))
	}

	sim, err := simulation.New(settings.Simulation(), opts...)
	if err != nil {
		return err
	}
	if err := rep.Banner(sim.ID(), sim.Runs(), len(settings.Strategies), sim.Workers()); err != nil {
		return err
	}
	if settings.Muster {
		if err := rep.Muster(sim.Muster()); err != nil {
			return err
		}
	}

	if progress != nil {
		if err := progress.start(sim.Runs()); err != nil {
			return err
		}
	}
	res, err := sim.Run(ctx)
	if progress != nil {
		progress.stop(err == nil)
	}
	if err != nil {
		return err
	}

	if err := rep.Report(res); err != nil {
		return err
	}

	if l != nil {
		if err := l.Verify(); err != nil {
			return fmt.Errorf("run ledger: %w", err)
		}
		logger.Info("run ledger verified", "blocks", l.Len())
	}
	if store != nil {
		if err := store.SaveResult(ctx, res); err != nil {
			return err
		}
		if l != nil {
			if err := store.SaveLedger(ctx, l); err != nil {
				return err
			}
		}
		logger.Info("results saved", "id", res.ID, "database", rt.ResultsDB)
	}
	return nil
}
