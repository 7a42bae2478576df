// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// layerstate inspects and replays layered world states.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/devnet-tools/layerstate/log"
	"github.com/devnet-tools/layerstate/metrics"
)

var (
	version   string
	gitCommit string

	// closes the metrics server if started
	closeMetrics = func() {}
)

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "layerstate"
	app.Usage = "layered world state tool"
	app.Version = fmt.Sprintf("%s-%s", version, gitCommit)
	app.Flags = []cli.Flag{
		verbosityFlag,
		enableMetricsFlag,
		metricsAddrFlag,
	}
	app.Before = before
	app.After = func(*cli.Context) error {
		closeMetrics()
		return nil
	}
	app.Commands = []cli.Command{
		{
			Name:   "root",
			Usage:  "print the genesis state root",
			Flags:  []cli.Flag{genesisFlag},
			Action: rootAction,
		},
		{
			Name:   "dump",
			Usage:  "print the genesis state as JSON",
			Flags:  []cli.Flag{genesisFlag},
			Action: dumpAction,
		},
		{
			Name:      "replay",
			Usage:     "replay a script of state operations, printing the state root after each step",
			ArgsUsage: "<script.yaml>",
			Flags:     []cli.Flag{genesisFlag, maxSnapshotsFlag},
			Action:    replayAction,
		},
	}
	return app
}

func before(ctx *cli.Context) error {
	initLogger(ctx.Int(verbosityFlag.Name))

	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
		url, closeFunc, err := startMetricsServer(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			return errors.Wrap(err, "start metrics server")
		}
		log.Info("metrics server started", "url", url)
		closeMetrics = closeFunc
	}
	return nil
}

func rootAction(ctx *cli.Context) error {
	st, err := newState(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(ctx.App.Writer, st.StateRoot())
	return nil
}

func dumpAction(ctx *cli.Context) error {
	st, err := newState(ctx)
	if err != nil {
		return err
	}
	dump, err := st.Dump()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(dump, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(ctx.App.Writer, string(data))
	return nil
}

func replayAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return errors.New("exactly one script file expected")
	}
	script, err := loadScript(ctx.Args().First())
	if err != nil {
		return err
	}
	st, err := newState(ctx)
	if err != nil {
		return err
	}
	return newReplayer(st, ctx.App.Writer).run(script)
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
