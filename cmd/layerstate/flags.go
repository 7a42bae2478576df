// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"

	"github.com/devnet-tools/layerstate/log"
)

var (
	verbosityFlag = cli.IntFlag{
		Name:   "verbosity",
		Value:  log.LegacyLevelWarn,
		Usage:  "log verbosity (0-5)",
		EnvVar: "LAYERSTATE_VERBOSITY",
	}
	enableMetricsFlag = cli.BoolFlag{
		Name:   "enable-metrics",
		Usage:  "enables metrics collection",
		EnvVar: "LAYERSTATE_ENABLE_METRICS",
	}
	metricsAddrFlag = cli.StringFlag{
		Name:   "metrics-addr",
		Value:  "localhost:2112",
		Usage:  "metrics service listening address",
		EnvVar: "LAYERSTATE_METRICS_ADDR",
	}
	genesisFlag = cli.StringFlag{
		Name:  "genesis",
		Usage: "genesis file in JSON or YAML, defaults to the development genesis",
	}
	maxSnapshotsFlag = cli.IntFlag{
		Name:  "max-snapshots",
		Usage: "max count of kept snapshots, 0 for unlimited",
	}
)
