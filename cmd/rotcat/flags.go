package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"rotcat/pkg/appdir"
	"rotcat/pkg/config"
	"rotcat/pkg/log"
)

const defaultLogDBName = "rotcat.db"

func rotateFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:      "path",
			Aliases:   []string{"p"},
			Usage:     "read input from `PATH` instead of standard input",
			TakesFile: true,
		},
		&cli.IntFlag{
			Name:    "offset",
			Aliases: []string{"o"},
			Usage:   "rotate letters by `N` (0-26, reduced modulo 26) instead of ROT13",
		},
		&cli.BoolFlag{
			Name:    "reverse",
			Aliases: []string{"r"},
			Usage:   "rotate backwards; only meaningful with --offset",
		},
		&cli.IntFlag{
			Name:  "buffer-size",
			Usage: "copy buffer size in `BYTES`",
		},
		&cli.StringFlag{
			Name:  "input-codec",
			Usage: "decode input before rotating: none, gzip or zstd",
		},
		&cli.StringFlag{
			Name:  "output-codec",
			Usage: "encode output after rotating: none, gzip or zstd",
		},
	}
}

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:      "config",
			Usage:     "YAML configuration `FILE` (default: ./rotcat.yaml or ~/.rotcat/rotcat.yaml if present)",
			TakesFile: true,
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "stderr log level: debug, info, warn, error",
		},
		&cli.StringFlag{
			Name:  "log-db",
			Usage: "also keep JSON logs in the SQLite `FILE`; \"default\" uses ~/.rotcat/" + defaultLogDBName,
		},
	}
}

// flagKeys maps CLI flags onto configuration keys.
var flagKeys = map[string]string{
	"path":         config.KeyPath,
	"offset":       config.KeyOffset,
	"reverse":      config.KeyReverse,
	"buffer-size":  config.KeyBufferSize,
	"input-codec":  config.KeyInputCodec,
	"output-codec": config.KeyOutputCodec,
	"log-level":    config.KeyLogLevel,
	"log-db":       config.KeyLogDB,
	"listen":       config.KeyListenAddr,
}

// loadConfig merges explicitly set flags over file, environment and defaults.
func loadConfig(c *cli.Context) (*config.Config, error) {
	overrides := map[string]any{}
	for flag, key := range flagKeys {
		if !c.IsSet(flag) {
			continue
		}
		switch flag {
		case "offset", "buffer-size":
			overrides[key] = c.Int(flag)
		case "reverse":
			overrides[key] = c.Bool(flag)
		default:
			overrides[key] = c.String(flag)
		}
	}
	return config.Load(c.String("config"), overrides)
}

// resolveLogDB expands the "default" sentinel to the state directory.
func resolveLogDB(s string) (string, error) {
	if s != "default" {
		return s, nil
	}
	return appdir.Path(defaultLogDBName)
}

// setupLogging installs the stderr console logger and, when configured, the
// SQLite sink. The returned func detaches the sink.
func setupLogging(c *cli.Context, cfg *config.Config) (func(), error) {
	lvl, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	log.SetConsole(c.App.ErrWriter, lvl)

	dbPath, err := resolveLogDB(cfg.LogDB)
	if err != nil {
		return nil, err
	}
	if dbPath == "" {
		return func() {}, nil
	}
	if err := log.Init(dbPath); err != nil {
		return nil, fmt.Errorf("log sink %s: %w", dbPath, err)
	}
	log.Debug().Str("db", dbPath).Msg("sqlite log sink enabled")
	return func() { _ = log.Close() }, nil
}
