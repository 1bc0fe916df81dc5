package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"rotcat/pkg/log"
	"rotcat/pkg/mapping"
	"rotcat/pkg/pipeline"
)

func rotateCmd(c *cli.Context) error {
	if c.NArg() > 0 {
		return cli.Exit(fmt.Sprintf("unexpected arguments: %s (use --path to read a file)", strings.Join(c.Args().Slice(), " ")), 1)
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	closeLog, err := setupLogging(c, cfg)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	defer closeLog()

	if cfg.ConfigFile != "" {
		log.Debug().Str("file", cfg.ConfigFile).Msg("using config file")
	}
	if cfg.Reverse && cfg.Offset == nil {
		log.Warn().Msg("--reverse has no effect without --offset; ROT13 is its own inverse")
	}

	in, out := cfg.Codecs()
	p := &pipeline.Pipeline{
		Mapping:     mapping.Select(cfg.Offset, cfg.Reverse),
		Path:        cfg.Path,
		Stdin:       c.App.Reader,
		Stdout:      c.App.Writer,
		InputCodec:  in,
		OutputCodec: out,
		BufferSize:  cfg.BufferSize,
	}
	if _, err := p.Run(); err != nil {
		return cli.Exit(describeRunError(err), 1)
	}
	return nil
}

// describeRunError words pipeline failures for the terminal.
func describeRunError(err error) string {
	var openErr *pipeline.SourceOpenError
	var writeErr *pipeline.WriteError
	switch {
	case errors.As(err, &openErr):
		return fmt.Sprintf("cannot open input: %v", openErr)
	case errors.As(err, &writeErr) && pipeline.IsBrokenPipe(err):
		return fmt.Sprintf("output closed early: %v", writeErr)
	default:
		return err.Error()
	}
}
