// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"net"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/devnet-tools/layerstate/genesis"
	"github.com/devnet-tools/layerstate/log"
	"github.com/devnet-tools/layerstate/metrics"
	"github.com/devnet-tools/layerstate/state"
)

func initLogger(verbosity int) {
	useColor := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	log.Init(os.Stderr, verbosity, useColor)
}

func newState(ctx *cli.Context) (*state.State, error) {
	gen := genesis.NewDevnet()
	if path := ctx.String(genesisFlag.Name); path != "" {
		var err error
		if gen, err = genesis.Load(path); err != nil {
			return nil, err
		}
	}
	layer, err := gen.Build()
	if err != nil {
		return nil, errors.WithMessage(err, "build genesis")
	}
	return state.New(layer, state.Options{MaxSnapshots: ctx.Int(maxSnapshotsFlag.Name)}), nil
}

func startMetricsServer(addr string) (string, func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen metrics API addr [%v]", addr)
	}

	router := mux.NewRouter()
	router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())
	handler := handlers.CompressHandler(router)

	srv := &http.Server{Handler: handler, ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second}
	var g errgroup.Group
	g.Go(func() error {
		if err := srv.Serve(listener); err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	return "http://" + listener.Addr().String() + "/metrics", func() {
		srv.Close()
		if err := g.Wait(); err != nil {
			log.Info("metrics server stopped", "err", err)
		}
	}, nil
}
