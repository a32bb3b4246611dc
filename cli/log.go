package cli

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/macro/log"
)

// logLevel and logFormat reconfigure the default logger as kong decodes
// them, so errors reported while parsing already use the chosen settings.
type (
	logLevel  string
	logFormat string
)

func (l *logLevel) UnmarshalText(text []byte) error {
	*l = logLevel(text)
	log.Config(log.WithLevel(log.ParseLevel(string(text))))

	return nil
}

func (f *logFormat) UnmarshalText(text []byte) error {
	*f = logFormat(text)
	log.Config(log.WithFormat(log.ParseFormat(string(text))))

	return nil
}

type logConfig struct {
	Level      logLevel  `default:"info"    enum:"${logLevelEnum}"  help:"Minimum level of log records"`
	Format     logFormat `default:"json"    enum:"${logFormatEnum}" help:"Encoding of log records"`
	TimeLayout string    `default:"RFC3339"                         help:"Timestamp layout: a time package layout name, custom layout, or none"`
	Caller     bool      `default:"false"                           help:"Report the source location of each record" negatable:""`
	Pretty     bool      `default:"true"                            help:"Colorize log records"                      negatable:""`
}

func (*logConfig) vars() kong.Vars {
	return kong.Vars{
		"logLevelEnum":  strings.Join(slices.Collect(log.Levels()), ","),
		"logFormatEnum": strings.Join(slices.Collect(log.Formats()), ","),
	}
}

func (*logConfig) group() kong.Group {
	return kong.Group{Key: "log", Title: "Logging options"}
}

// start applies every parsed setting to the default logger.
func (f *logConfig) start(ctx context.Context) {
	log.Config(
		log.WithLevel(log.ParseLevel(string(f.Level))),
		log.WithFormat(log.ParseFormat(string(f.Format))),
		log.WithTimeLayout(f.TimeLayout),
		log.WithCaller(f.Caller),
		log.WithPretty(f.Pretty),
	)

	log.DebugContext(ctx, "logger initialized",
		slog.String("level", string(f.Level)),
		slog.String("format", string(f.Format)),
		slog.String("time_layout", f.TimeLayout),
		slog.Bool("caller", f.Caller),
		slog.Bool("pretty", f.Pretty),
	)
}

// scan applies the logger flags in args before kong parses them, so the
// logger is configured no matter where on the command line they appear.
// Malformed flags are skipped and left for kong to report.
func (f *logConfig) scan(args []string) {
	for i := 0; i < len(args); i++ {
		if args[i] == "--" {
			return
		}

		name, value, assigned := strings.Cut(args[i], "=")

		negated := false
		if rest, ok := strings.CutPrefix(name, "--no-log-"); ok {
			name, negated = rest, true
		} else if rest, ok := strings.CutPrefix(name, "--log-"); ok {
			name = rest
		} else {
			continue
		}

		switch name {
		case "level", "format", "time-layout":
			if negated {
				continue
			}

			if !assigned {
				if i+1 == len(args) || strings.HasPrefix(args[i+1], "-") {
					continue
				}

				i++
				value = args[i]
			}

			f.setText(name, value)

		case "caller", "pretty":
			on := true

			if assigned {
				v, err := strconv.ParseBool(value)
				if err != nil {
					continue
				}

				on = v
			}

			f.setBool(name, on != negated)
		}
	}
}

func (f *logConfig) setText(name, value string) {
	switch name {
	case "level":
		_ = f.Level.UnmarshalText([]byte(value))
	case "format":
		_ = f.Format.UnmarshalText([]byte(value))
	case "time-layout":
		f.TimeLayout = value
		log.Config(log.WithTimeLayout(value))
	}
}

func (f *logConfig) setBool(name string, on bool) {
	switch name {
	case "caller":
		f.Caller = on
		log.Config(log.WithCaller(on))
	case "pretty":
		f.Pretty = on
		log.Config(log.WithPretty(on))
	}
}
