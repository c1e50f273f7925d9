package logger

import (
	"io"
	"log/slog"
	"os"
)

type options struct {
	writer    io.Writer
	level     slog.Level
	text      bool
	component string
}

// Option configures logger construction.
type Option func(*options)

// WithWriter directs log output to w instead of stderr.
func WithWriter(w io.Writer) Option {
	return func(o *options) { o.writer = w }
}

// WithLevel sets the minimum level to log.
func WithLevel(level slog.Level) Option {
	return func(o *options) { o.level = level }
}

// WithComponent attaches a component attribute to every record.
func WithComponent(name string) Option {
	return func(o *options) { o.component = name }
}

// WithDevelopment switches to human-readable text output at debug level
// and tags records with the given component name.
func WithDevelopment(component string) Option {
	return func(o *options) {
		o.text = true
		o.level = slog.LevelDebug
		o.component = component
	}
}

// New creates a structured logger. The default configuration writes JSON
// records at info level to stderr.
func New(opts ...Option) *slog.Logger {
	o := options{
		writer: os.Stderr,
		level:  slog.LevelInfo,
	}
	for _, opt := range opts {
		opt(&o)
	}

	handlerOpts := &slog.HandlerOptions{Level: o.level}

	var h slog.Handler
	if o.text {
		h = slog.NewTextHandler(o.writer, handlerOpts)
	} else {
		h = slog.NewJSONHandler(o.writer, handlerOpts)
	}

	log := slog.New(h)
	if o.component != "" {
		log = log.With(Component(o.component))
	}
	return log
}
