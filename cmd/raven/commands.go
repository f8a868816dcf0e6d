package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-kit/log/level"
	"github.com/urfave/cli/v3"

	"github.com/strongdm/raven-observe/pkg/raven"
	"github.com/strongdm/raven-observe/pkg/raven/sinks/httpsink"
)

var (
	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
)

func sendCommand() *cli.Command {
	return &cli.Command{
		Name:  "send",
		Usage: "Send a single event",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "dsn",
				Usage:    "The connection string of the project",
				Sources:  cli.EnvVars(httpsink.EnvDSN),
				Required: true,
			},
			&cli.StringFlag{
				Name:     "message",
				Aliases:  []string{"m"},
				Usage:    "The event message",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "type",
				Usage: "The error type reported with the event",
				Value: "manual",
			},
			&cli.StringFlag{
				Name:  "level",
				Usage: "Event level (fatal, error, warning, info, debug)",
				Value: string(raven.LevelError),
				Validator: func(s string) error {
					switch raven.Level(s) {
					case raven.LevelFatal, raven.LevelError, raven.LevelWarning, raven.LevelInfo, raven.LevelDebug:
						return nil
					}
					return fmt.Errorf("invalid level: %s", s)
				},
			},
			&cli.StringSliceFlag{
				Name:  "tag",
				Usage: "A key=value tag, may be repeated",
			},
			&cli.StringFlag{
				Name:    "release",
				Usage:   "The application release",
				Sources: cli.EnvVars(httpsink.EnvRelease),
			},
			&cli.StringFlag{
				Name:    "environment",
				Usage:   "The deployment environment",
				Sources: cli.EnvVars(httpsink.EnvEnvironment),
			},
			&cli.BoolFlag{
				Name:  "compress",
				Usage: "Send a gzip + base64 encoded body",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Timeout for the request",
				Value: 10 * time.Second,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := newLogger(c.String("log-level"))

			tags, err := parseTags(c.StringSlice("tag"))
			if err != nil {
				return err
			}

			sink, err := httpsink.New(
				httpsink.WithDSN(c.String("dsn")),
				httpsink.WithRelease(c.String("release")),
				httpsink.WithEnvironment(c.String("environment")),
				httpsink.WithCompression(c.Bool("compress")),
				httpsink.WithTimeout(c.Duration("timeout")),
				httpsink.WithLogger(logger),
			)
			if err != nil {
				return err
			}

			hostname, _ := os.Hostname()
			collector := raven.NewCollector(
				raven.WithSink(sink),
				raven.WithDefaultScrubbing(),
				raven.WithServerName(hostname),
			)
			defer collector.Close()

			event := raven.ErrorEvent{
				Level:     raven.Level(c.String("level")),
				ErrorType: c.String("type"),
				Message:   c.String("message"),
				Logger:    "raven-cli",
				Tags:      tags,
			}
			if err := collector.Record(ctx, event); err != nil {
				return fmt.Errorf("send event: %w", err)
			}

			level.Info(logger).Log("msg", "event sent")
			return nil
		},
	}
}

func dsnCommand() *cli.Command {
	return &cli.Command{
		Name:      "dsn",
		Usage:     "Parse a connection string and print its fields",
		ArgsUsage: "<dsn>",
		Action: func(ctx context.Context, c *cli.Command) error {
			raw := c.Args().First()
			if raw == "" {
				raw = os.Getenv(httpsink.EnvDSN)
			}
			dsn, err := raven.ParseDsn(raw)
			if err != nil {
				return err
			}
			printDsn(stdout, dsn)
			return nil
		},
	}
}

func printDsn(w io.Writer, dsn *raven.Dsn) {
	secret := "(none)"
	if dsn.HasPrivateKey() {
		secret = "***"
	}
	fmt.Fprintf(w, "scheme:      %s\n", dsn.Scheme)
	fmt.Fprintf(w, "public key:  %s\n", dsn.PublicKey)
	fmt.Fprintf(w, "private key: %s\n", secret)
	fmt.Fprintf(w, "host:        %s\n", dsn.Host)
	fmt.Fprintf(w, "port:        %d\n", dsn.Port)
	fmt.Fprintf(w, "project id:  %s\n", dsn.ProjectID)
	fmt.Fprintf(w, "store uri:   %s\n", dsn.URI)
}

func scrubCommand() *cli.Command {
	return &cli.Command{
		Name:  "scrub",
		Usage: "Redact card numbers, phone numbers and SSNs from stdin",
		Action: func(ctx context.Context, c *cli.Command) error {
			in, err := io.ReadAll(stdin)
			if err != nil {
				return err
			}
			s := raven.NewScrubber(raven.DefaultScrubberConfig())
			_, err = io.WriteString(stdout, s.Scrub(string(in)))
			return err
		},
	}
}

func encodeCommand() *cli.Command {
	return &cli.Command{
		Name:  "encode",
		Usage: "Gzip and base64 encode stdin",
		Action: func(ctx context.Context, c *cli.Command) error {
			in, err := io.ReadAll(stdin)
			if err != nil {
				return err
			}
			out, err := raven.CompressEncode(string(in))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(stdout, out)
			return err
		},
	}
}

func decodeCommand() *cli.Command {
	return &cli.Command{
		Name:  "decode",
		Usage: "Reverse encode: base64 decode and gunzip stdin",
		Action: func(ctx context.Context, c *cli.Command) error {
			in, err := io.ReadAll(stdin)
			if err != nil {
				return err
			}
			out, err := raven.DecodeDecompress(strings.TrimSpace(string(in)))
			if err != nil {
				return err
			}
			_, err = io.WriteString(stdout, out)
			return err
		},
	}
}

// parseTags turns key=value pairs into a map.
func parseTags(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	tags := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, errors.New("invalid tag " + p + ", want key=value")
		}
		tags[k] = v
	}
	return tags, nil
}
