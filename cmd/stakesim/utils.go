// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/davecgh/go-spew/spew"
	"github.com/elastic/gosigar"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"gopkg.in/cheggaaa/pb.v1"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/stakesim/builtin/stake"
	"github.com/vechain/stakesim/kv"
	"github.com/vechain/stakesim/log"
	"github.com/vechain/stakesim/lvldb"
	"github.com/vechain/stakesim/metrics"
	"github.com/vechain/stakesim/sim"
)

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func initLogger(ctx *cli.Context) error {
	format, err := log.ParseFormat(ctx.String(logFormatFlag.Name))
	if err != nil {
		return err
	}
	lvl := log.FromVerbosity(ctx.Int(verbosityFlag.Name))
	log.SetDefault(log.NewHandler(format, os.Stderr, lvl, isTerminal(os.Stderr)))
	return nil
}

func handleExitSignal() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// normalizeCacheSize limits the database cache to half of the physical memory.
func normalizeCacheSize(sizeMB int) int {
	if sizeMB < 16 {
		sizeMB = 16
	}

	var mem gosigar.Mem
	if err := mem.Get(); err != nil {
		log.Warn("failed to get total mem", "err", err)
	} else {
		limitMB := int(mem.Total / 1024 / 1024 / 2)
		if sizeMB > limitMB {
			sizeMB = limitMB
			log.Warn("cache size(MB) limited", "limit", limitMB)
		}
	}
	return sizeMB
}

func openStore(dir string, cacheMB, parallel int) sim.OpenStore {
	if dir == "" {
		return sim.MemStore
	}
	opts := lvldb.Options{CacheSize: normalizeCacheSize(cacheMB) / max(parallel, 1)}
	return func(sc *sim.Scenario) (kv.Store, error) {
		return lvldb.New(filepath.Join(dir, sc.Name), opts)
	}
}

func runScenarios(ctx *cli.Context, scenarios []*sim.Scenario) error {
	if err := initLogger(ctx); err != nil {
		return err
	}
	metricsOut := ctx.String(metricsOutFlag.Name)
	if metricsOut != "" {
		metrics.InitializePrometheusMetrics()
	}

	exitSignal, cancel := handleExitSignal()
	defer cancel()

	dbDir := ctx.String(dbFlag.Name)
	if dbDir != "" {
		if err := sim.CheckNames(scenarios); err != nil {
			return err
		}
	}
	parallel := ctx.Int(parallelFlag.Name)
	open := openStore(dbDir, ctx.Int(cacheFlag.Name), parallel)

	var (
		reports []*sim.Report
		err     error
	)
	if ctx.Bool(progressFlag.Name) && isTerminal(os.Stderr) {
		reports, err = runWithProgress(exitSignal, scenarios, open)
	} else {
		reports, err = sim.RunAll(exitSignal, scenarios, parallel, open)
	}

	w := ctx.App.Writer
	for _, report := range reports {
		if report == nil {
			continue
		}
		if werr := report.WriteSummary(w); werr != nil {
			return werr
		}
		if ctx.Bool(dumpFlag.Name) && report.Final != nil {
			spew.Fdump(w, report.Final)
		}
		if _, werr := io.WriteString(w, "\n"); werr != nil {
			return werr
		}
	}
	if err != nil {
		return err
	}

	if metricsOut != "" {
		return writeMetrics(metricsOut, w)
	}
	return nil
}

// runWithProgress runs scenarios one after another, each with its own progress bar.
func runWithProgress(ctx context.Context, scenarios []*sim.Scenario, open sim.OpenStore) ([]*sim.Report, error) {
	var reports []*sim.Report
	for _, sc := range scenarios {
		report, err := runOne(ctx, sc, open)
		reports = append(reports, report)
		if err != nil {
			return reports, err
		}
	}
	return reports, nil
}

func runOne(ctx context.Context, sc *sim.Scenario, open sim.OpenStore) (*sim.Report, error) {
	store, err := open(sc)
	if err != nil {
		return nil, errors.Wrapf(err, "open store for %s", sc.Name)
	}
	defer store.Close()

	bar := pb.New64(int64(sc.StopAt-sc.Start) + 1).
		SetMaxWidth(90).
		Prefix(sc.Name + " ").
		Start()
	defer func() { bar.NotPrint = true }()

	report, err := sim.Run(ctx, sc, store, func(*stake.TickResult) {
		bar.Add64(1)
	})
	if err != nil {
		return report, err
	}
	bar.Finish()
	return report, nil
}

func writeMetrics(path string, stdout io.Writer) error {
	if path == "-" {
		return metrics.WriteText(stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create metrics file")
	}
	defer f.Close()
	return metrics.WriteText(f)
}
