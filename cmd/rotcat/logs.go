package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"rotcat/pkg/json"
	"rotcat/pkg/log"
)

var logsCommand = &cli.Command{
	Name:        "logs",
	Usage:       "print the most recent entries of the SQLite log sink",
	UsageText:   "rotcat logs [-n COUNT] [--log-db FILE]",
	Description: "Reads the database written by --log-db. Without --log-db the default\n~/.rotcat/" + defaultLogDBName + " is used.",
	Flags: append([]cli.Flag{
		&cli.IntFlag{
			Name:    "count",
			Aliases: []string{"n"},
			Usage:   "number of entries `NUMBER`",
			Value:   20,
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "print entries as readable lines instead of raw JSON",
		},
	}, commonFlags()...),
	Action: logsCmd,
}

func logsCmd(c *cli.Context) error {
	count := c.Int("count")
	if count <= 0 {
		return cli.Exit("--count (-n) must be a positive number", 1)
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	if cfg.LogDB == "" {
		cfg.LogDB = "default"
	}
	dbPath, err := resolveLogDB(cfg.LogDB)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	if _, err := os.Stat(dbPath); err != nil {
		return cli.Exit(fmt.Sprintf("log database not found at %s", dbPath), 1)
	}

	if err := log.Init(dbPath); err != nil {
		return cli.Exit(fmt.Sprintf("cannot open log database: %v", err), 1)
	}
	defer log.Close()

	entries, err := log.GetLastNLogs(count)
	if err != nil {
		return cli.Exit(fmt.Sprintf("cannot read logs: %v", err), 1)
	}
	if len(entries) == 0 {
		fmt.Fprintln(c.App.ErrWriter, "no log entries found")
		return nil
	}
	for _, e := range entries {
		if !c.Bool("pretty") {
			fmt.Fprintln(c.App.Writer, e.LogData)
			continue
		}
		obj, err := json.Parse(e.LogData)
		if err != nil {
			fmt.Fprintf(c.App.Writer, "#%d %s\n", e.ID, e.LogData)
			continue
		}
		fmt.Fprintln(c.App.Writer, json.Pretty(obj))
	}
	return nil
}
