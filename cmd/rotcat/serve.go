package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"rotcat/pkg/api"
	"rotcat/pkg/log"
)

var serveCommand = &cli.Command{
	Name:        "serve",
	Usage:       "serve the rotation over HTTP",
	UsageText:   "rotcat serve [--listen ADDR]",
	Description: "POST /rotate?offset=N&reverse=true streams the request body back rotated.\nWithout offset the body is ROT13-ed.",
	Flags: append([]cli.Flag{
		&cli.StringFlag{
			Name:  "listen",
			Usage: "listen `ADDR` (host:port)",
		},
		&cli.IntFlag{
			Name:  "buffer-size",
			Usage: "per-request copy buffer size in `BYTES`",
		},
	}, commonFlags()...),
	Action: serveCmd,
}

func serveCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	closeLog, err := setupLogging(c, cfg)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	defer closeLog()

	rapi := api.NewRotateApi(cfg.BufferSize)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		shutdownOnSignal(sigChan, done, rapi.Api.Shutdown)
	}()

	err = rapi.Run(cfg.ListenAddr)
	close(done)
	<-stopped
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	return nil
}

// shutdownOnSignal waits for a signal or for done. Only a signal triggers shutdown.
func shutdownOnSignal(sigChan <-chan os.Signal, done <-chan struct{}, shutdown func(context.Context) error) {
	select {
	case sig := <-sigChan:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdown(ctx)
	case <-done:
	}
}
