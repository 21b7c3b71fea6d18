// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"
)

func envVar(name string) string {
	return "STAKESIM_" + name
}

var (
	verbosityFlag = cli.IntFlag{
		Name:   "verbosity",
		Value:  3,
		Usage:  "log verbosity (0-5)",
		EnvVar: envVar("VERBOSITY"),
	}
	logFormatFlag = cli.StringFlag{
		Name:   "log-format",
		Value:  "terminal",
		Usage:  "log output format (terminal|json|logfmt)",
		EnvVar: envVar("LOG_FORMAT"),
	}
	dbFlag = cli.StringFlag{
		Name:   "db",
		Usage:  "directory to keep actor state in, one database per scenario (in memory if empty)",
		EnvVar: envVar("DB"),
	}
	metricsOutFlag = cli.StringFlag{
		Name:   "metrics-out",
		Usage:  "write metrics in prometheus text format to this file after the run ('-' for stdout)",
		EnvVar: envVar("METRICS_OUT"),
	}
	progressFlag = cli.BoolFlag{
		Name:   "progress",
		Usage:  "show an epoch progress bar when stderr is a terminal",
		EnvVar: envVar("PROGRESS"),
	}
	dumpFlag = cli.BoolFlag{
		Name:   "dump",
		Usage:  "dump the final actor state of each scenario",
		EnvVar: envVar("DUMP"),
	}
	cacheFlag = cli.IntFlag{
		Name:   "cache",
		Value:  64,
		Usage:  "total database cache size in MB, shared by the scenarios running at the same time",
		EnvVar: envVar("CACHE"),
	}
	parallelFlag = cli.IntFlag{
		Name:   "parallel",
		Value:  4,
		Usage:  "number of scenarios to run at the same time",
		EnvVar: envVar("PARALLEL"),
	}
	stopAtFlag = cli.Int64Flag{
		Name:  "stop-at",
		Value: 44,
		Usage: "last epoch to tick",
	}
	unitFlag = cli.Int64Flag{
		Name:  "unit",
		Value: 1,
		Usage: "quantization unit",
	}
	offsetFlag = cli.Int64Flag{
		Name:  "offset",
		Usage: "quantization offset",
	}
)

var runFlags = []cli.Flag{
	verbosityFlag,
	logFormatFlag,
	dbFlag,
	cacheFlag,
	metricsOutFlag,
	progressFlag,
	dumpFlag,
	parallelFlag,
}
