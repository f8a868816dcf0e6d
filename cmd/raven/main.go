// Command raven sends test events and exercises the DSN parser, scrubber
// and payload encoder from the command line.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/urfave/cli/v3"

	"github.com/strongdm/raven-observe/pkg/raven"
)

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "raven",
		Usage:   "Send error events to a Sentry-protocol endpoint",
		Version: raven.ClientVersion,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Set the log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("RAVEN_LOG_LEVEL"),
			},
		},
		Commands: []*cli.Command{
			sendCommand(),
			dsnCommand(),
			scrubCommand(),
			encodeCommand(),
			decodeCommand(),
		},
	}
}

// newLogger builds a logfmt logger on stderr filtered at the given level.
func newLogger(lvl string) log.Logger {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC)
	return level.NewFilter(logger, levelOption(lvl))
}

func levelOption(lvl string) level.Option {
	switch lvl {
	case "debug":
		return level.AllowDebug()
	case "warn", "warning":
		return level.AllowWarn()
	case "error":
		return level.AllowError()
	default:
		return level.AllowInfo()
	}
}
