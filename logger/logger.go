// Package logger configures log/slog for typewise tools and hands out loggers that
// carry the subsystem and any values attached to a context.
package logger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
)

// subsystem holds the default subsystem name set by ConfigureLoggingWithOptions.
var subsystem atomic.Value //nolint:gochecknoglobals

// configMutex serializes ConfigureLoggingWithOptions, which replaces slog.Default and log.Default.
var configMutex sync.Mutex //nolint:gochecknoglobals

type contextKey string

// ErrInvalidLogOutput is returned when LOG_OUTPUT names an unknown destination.
var ErrInvalidLogOutput = errors.New("invalid log output")

// ErrInvalidLogSetting is returned when a LOG_* environment variable cannot be parsed.
var ErrInvalidLogSetting = errors.New("invalid log setting")

// Options is used to configure logging.
type Options struct {
	Subsystem   string
	JSON        bool
	MinLevel    slog.Level
	LegacyLevel slog.Level
	Output      io.Writer
}

// Option is a functional option applied by ConfigureLogging after the environment is read.
type Option func(*Options)

// WithOutput sends log output to w.
func WithOutput(w io.Writer) Option {
	return func(o *Options) {
		o.Output = w
	}
}

// WithLevel sets the minimum level.
func WithLevel(level slog.Level) Option {
	return func(o *Options) {
		o.MinLevel = level
	}
}

// WithJSON selects the JSON handler.
func WithJSON(json bool) Option {
	return func(o *Options) {
		o.JSON = json
	}
}

// NewHandler builds the handler ConfigureLoggingWithOptions installs: a text or JSON
// handler wrapped so that attributes attached with AnnotateError reach the output.
func NewHandler(opts Options) slog.Handler {
	if opts.Output == nil {
		opts.Output = os.Stderr
	}

	handlerOpts := &slog.HandlerOptions{Level: opts.MinLevel}

	var handler slog.Handler
	if opts.JSON {
		handler = slog.NewJSONHandler(opts.Output, handlerOpts)
	} else {
		handler = slog.NewTextHandler(opts.Output, handlerOpts)
	}

	return &errorHandler{inner: handler}
}

// ConfigureLoggingWithOptions configures logging for the application and returns the
// default logger. It modifies global state, so concurrent calls are serialized.
func ConfigureLoggingWithOptions(opts Options) *slog.Logger {
	configMutex.Lock()
	defer configMutex.Unlock()

	handler := NewHandler(opts)
	logger := slog.New(handler)

	slog.SetDefault(logger)

	// Packages still on the log package are redirected into slog at LegacyLevel.
	def := log.Default()
	*def = *slog.NewLogLogger(handler, opts.LegacyLevel)

	subsystem.Store(opts.Subsystem)

	return logger
}

// ConfigureLogging reads LOG_JSON, LOG_LEVEL, LEGACY_LOG_LEVEL and LOG_OUTPUT, applies
// opts on top and configures logging.
func ConfigureLogging(app string, opts ...Option) (*slog.Logger, error) {
	options, err := OptionsFromEnv(app)
	if err != nil {
		return nil, err
	}

	for _, o := range opts {
		o(&options)
	}

	return ConfigureLoggingWithOptions(options), nil
}

// OptionsFromEnv returns logging options for app from the LOG_* environment variables.
// Unset variables keep their defaults: text output on stderr at info level.
func OptionsFromEnv(app string) (Options, error) {
	options := Options{
		Subsystem:   app,
		MinLevel:    slog.LevelInfo,
		LegacyLevel: slog.LevelInfo,
		Output:      os.Stderr,
	}

	if v, ok := os.LookupEnv("LOG_JSON"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Options{}, fmt.Errorf("%w: LOG_JSON=%q", ErrInvalidLogSetting, v)
		}

		options.JSON = b
	}

	for name, dst := range map[string]*slog.Level{
		"LOG_LEVEL":        &options.MinLevel,
		"LEGACY_LOG_LEVEL": &options.LegacyLevel,
	} {
		if v, ok := os.LookupEnv(name); ok {
			if err := dst.UnmarshalText([]byte(v)); err != nil {
				return Options{}, fmt.Errorf("%w: %s=%q", ErrInvalidLogSetting, name, v)
			}
		}
	}

	if v, ok := os.LookupEnv("LOG_OUTPUT"); ok {
		switch strings.ToLower(v) {
		case "stdout":
			options.Output = os.Stdout
		case "stderr":
			options.Output = os.Stderr
		default:
			return Options{}, fmt.Errorf("%w: %q", ErrInvalidLogOutput, v)
		}
	}

	return options, nil
}

// WithMuted adds a muted flag to the context. Loggers obtained from a muted context
// discard everything.
func WithMuted(ctx context.Context, muted bool) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	return context.WithValue(ctx, contextKey("mute"), muted)
}

func isMuted(ctx context.Context) bool {
	muted, ok := ctx.Value(contextKey("mute")).(bool)

	return ok && muted
}

// WithSubsystem overrides the default subsystem for loggers obtained from ctx.
func WithSubsystem(ctx context.Context, subsystem string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	return context.WithValue(ctx, contextKey("subsystem"), subsystem)
}

// GetSubsystem returns the subsystem from the context, falling back to the default.
func GetSubsystem(ctx context.Context) string { //nolint:contextcheck
	if ctx == nil {
		ctx = context.Background()
	}

	if val, ok := ctx.Value(contextKey("subsystem")).(string); ok {
		return val
	}

	if val, ok := subsystem.Load().(string); ok {
		return val
	}

	return ""
}

// WithLogger makes Get return logger (plus the context's values) instead of slog.Default().
// Tests use it to route output through testing.T.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	return context.WithValue(ctx, contextKey("logger"), logger)
}

// With returns a new context with the given values added.
// The values are added to the logger automatically.
func With(ctx context.Context, values ...any) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	if len(values) == 0 {
		return ctx
	}

	vals := append(getValues(ctx), values...)

	return context.WithValue(ctx, contextKey("loggerValues"), vals)
}

func getValues(ctx context.Context) []any {
	vals, _ := ctx.Value(contextKey("loggerValues")).([]any)

	return vals[:len(vals):len(vals)]
}

// nullHandler discards all output. It backs the logger handed out for muted contexts.
type nullHandler struct{}

func (n *nullHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (n *nullHandler) Handle(context.Context, slog.Record) error { return nil }
func (n *nullHandler) WithAttrs([]slog.Attr) slog.Handler        { return n }
func (n *nullHandler) WithGroup(string) slog.Handler             { return n }

var nullLogger = slog.New(&nullHandler{}) //nolint:gochecknoglobals

// Get returns a logger for the first non-nil context, tagged with its subsystem and
// any values attached with With.
//
//nolint:contextcheck
func Get(ctx ...context.Context) *slog.Logger {
	realCtx := context.Background()

	for _, c := range ctx {
		if c != nil {
			realCtx = c

			break
		}
	}

	if isMuted(realCtx) {
		return nullLogger
	}

	logger, ok := realCtx.Value(contextKey("logger")).(*slog.Logger)
	if !ok || logger == nil {
		logger = slog.Default()
	}

	if sub := GetSubsystem(realCtx); sub != "" {
		logger = logger.With("subsystem", sub)
	}

	if vals := getValues(realCtx); len(vals) > 0 {
		logger = logger.With(vals...)
	}

	return logger
}
