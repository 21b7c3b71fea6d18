// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// stakesim drives the stake actor through scenarios of staker operations and epoch ticks.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/stakesim/builtin/stake/quant"
	"github.com/vechain/stakesim/common"
	"github.com/vechain/stakesim/sim"
)

var (
	version   string
	gitCommit string
	gitTag    string
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Version = fullVersion()
	app.Name = "stakesim"
	app.Usage = "Stake actor simulator"
	app.Copyright = "2025 VeChain Foundation <https://vechain.org/>"
	app.Commands = []cli.Command{
		{
			Name:      "run",
			Usage:     "run scenario files",
			ArgsUsage: "<scenario.yaml>...",
			Flags:     runFlags,
			Action:    runAction,
		},
		{
			Name:   "demo",
			Usage:  "run the built-in single staker scenario",
			Flags:  append([]cli.Flag{stopAtFlag}, runFlags...),
			Action: demoAction,
		},
		{
			Name:      "quantize",
			Usage:     "round epochs up to the quantization grid",
			ArgsUsage: "<epoch>...",
			Flags:     []cli.Flag{unitFlag, offsetFlag},
			Action:    quantizeAction,
		},
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runAction(ctx *cli.Context) error {
	if ctx.NArg() == 0 {
		return errors.New("no scenario files given")
	}
	var scenarios []*sim.Scenario
	for _, path := range ctx.Args() {
		sc, err := sim.LoadScenario(path)
		if err != nil {
			return err
		}
		scenarios = append(scenarios, sc)
	}
	return runScenarios(ctx, scenarios)
}

func demoAction(ctx *cli.Context) error {
	sc := sim.DemoScenario()
	sc.StopAt = common.Epoch(ctx.Int64(stopAtFlag.Name))
	if err := sc.Validate(); err != nil {
		return err
	}
	return runScenarios(ctx, []*sim.Scenario{sc})
}

func quantizeAction(ctx *cli.Context) error {
	unit := ctx.Int64(unitFlag.Name)
	if unit <= 0 {
		return errors.Errorf("unit must be positive, got %d", unit)
	}
	spec := quant.NewSpec(common.Epoch(unit), common.Epoch(ctx.Int64(offsetFlag.Name)))

	for _, arg := range ctx.Args() {
		e, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return errors.Wrapf(err, "epoch %q", arg)
		}
		fmt.Fprintf(ctx.App.Writer, "%d -> %v\n", e, spec.QuantizeUp(common.Epoch(e)))
	}
	return nil
}
