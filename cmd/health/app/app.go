package app

import (
	"io"
	"os"
	"strings"
	"time"

	log "github.com/InVisionApp/go-logger"
	gologger "github.com/InVisionApp/go-logger/shims/zerolog"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	health "github.com/hirenkeraliya/go-health"
	"github.com/hirenkeraliya/go-health/internal/config"
)

// Name is the name of the binary.
const Name = "health"

// Options are shared by every subcommand.
type Options struct {
	ConfigPath string
	LogLevel   string

	Out    io.Writer
	ErrOut io.Writer

	logger log.Logger
	now    func() time.Time
}

// NewCommand creates the root command with its list, run and serve subcommands.
func NewCommand() *cobra.Command {
	return newCommand(&Options{Out: os.Stdout, ErrOut: os.Stderr, now: time.Now})
}

func newCommand(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   Name,
		Short: Name + " runs scheduled health checks described in a YAML file.",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.Complete()
		},
	}

	// don't output usage on errors raised during execution
	cmd.SilenceUsage = true
	cmd.SetOut(opts.Out)
	cmd.SetErr(opts.ErrOut)

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.ConfigPath, "config", "c", "health.yaml", "path of the YAML file describing the checks")
	flags.StringVar(&opts.LogLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")

	cmd.AddCommand(
		newListCommand(opts),
		newRunCommand(opts),
		newServeCommand(opts),
	)

	return cmd
}

// Complete sets up the logger.
func (o *Options) Complete() error {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(o.LogLevel)))
	if err != nil {
		return errors.Wrapf(err, "invalid log level %q", o.LogLevel)
	}

	zl := zerolog.New(zerolog.ConsoleWriter{Out: o.ErrOut, TimeFormat: time.RFC3339}).
		Level(level).
		With().
		Timestamp().
		Logger()
	o.logger = gologger.New(&zl)
	if o.now == nil {
		o.now = time.Now
	}

	return nil
}

// newHealth loads the configured checks and registers them with a new Health.
// Broken check definitions are logged and left out; the remaining ones are registered.
func (o *Options) newHealth(opts ...health.Option) (health.Health, error) {
	file, err := config.Load(o.ConfigPath)
	if err != nil {
		return nil, err
	}

	timeout, err := file.Timeout()
	if err != nil {
		return nil, err
	}

	checks, err := file.Build()
	if err != nil {
		o.logger.WithFields(log.Fields{"config": o.ConfigPath, "error": err.Error()}).Error("some checks could not be built")
	}

	h := health.New(append([]health.Option{
		health.WithLogger(o.logger),
		health.WithDefaultExecutionTimeout(timeout),
		health.WithClock(o.now),
	}, opts...)...)
	if err := h.Register(checks...); err != nil {
		o.logger.WithFields(log.Fields{"config": o.ConfigPath, "error": err.Error()}).Error("some checks could not be registered")
	}

	return h, nil
}
