package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func newApp(stdin io.Reader, stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "rotcat",
		Usage:     "rotate the letters of a byte stream (ROT13 by default)",
		UsageText: "rotcat [-p PATH] [-o N [-r]] [options]  |  rotcat serve  |  rotcat logs",
		Version:   fmt.Sprintf("%s (built %s)", Version, BuildTime),
		Reader:    stdin,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags:     append(rotateFlags(), commonFlags()...),
		Action:    rotateCmd,
		Commands:  []*cli.Command{serveCommand, logsCommand},
		// exit codes are resolved in main so that tests can drive the app
		ExitErrHandler: func(*cli.Context, error) {},
	}
}

func main() {
	app := newApp(os.Stdin, os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "rotcat: %v\n", err)
		code := 1
		var ec cli.ExitCoder
		if errors.As(err, &ec) && ec.ExitCode() != 0 {
			code = ec.ExitCode()
		}
		os.Exit(code)
	}
}
