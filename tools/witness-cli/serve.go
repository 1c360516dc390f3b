// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Fantom-foundation/Multiproof/go/processor"
	"github.com/Fantom-foundation/Multiproof/go/service"
	"github.com/ethereum/go-ethereum/log"
	"github.com/gin-gonic/gin"
	"github.com/urfave/cli/v2"
)

var (
	portFlag = cli.IntFlag{
		Name:  "port",
		Usage: "the port the witness service is listening on",
		Value: 8090,
	}
)

var serveCommand = cli.Command{
	Action: serve,
	Name:   "serve",
	Usage:  "serves the witnesses of an archive through an HTTP interface",
	Flags: []cli.Flag{
		&requiredArchiveFlag,
		&archiveTypeFlag,
		&portFlag,
	},
}

func serve(ctx *cli.Context) (err error) {
	archive, err := openArchive(ctx.String(archiveTypeFlag.Name), ctx.String(requiredArchiveFlag.Name))
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, archive.Close())
	}()

	gin.SetMode(gin.ReleaseMode)
	svc := service.NewService(archive, processor.NewProcessor())
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", ctx.Int(portFlag.Name)),
		Handler: svc.Handler(),
	}

	failed := make(chan error, 1)
	go func() {
		log.Info("Witness service starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			failed <- err
		}
		close(failed)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-failed:
		return err
	case <-quit:
	}

	log.Info("Witness service shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
