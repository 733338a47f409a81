// Package gologger backs the console logging contract with go-logger.
package gologger

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-cms-console/internal/logging"
	"github.com/goliatone/go-cms-console/pkg/interfaces"
)

// Config mirrors the logging section of the runtime configuration.
type Config struct {
	Level     string
	Format    string
	AddSource bool
	// Focus limits output to the named loggers.
	Focus []string
}

var formats = map[string]func() glog.Option{
	"":        func() glog.Option { return glog.WithLoggerTypeJSON() },
	"json":    func() glog.Option { return glog.WithLoggerTypeJSON() },
	"console": func() glog.Option { return glog.WithLoggerTypeConsole() },
	"pretty":  func() glog.Option { return glog.WithLoggerTypePretty() },
}

var levels = map[string]string{
	"trace":   glog.Trace,
	"debug":   glog.Debug,
	"info":    glog.Info,
	"warn":    glog.Warn,
	"warning": glog.Warn,
	"error":   glog.Error,
	"fatal":   glog.Fatal,
}

type Provider struct {
	root *glog.BaseLogger
}

var _ interfaces.LoggerProvider = (*Provider)(nil)

// NewProvider fails on an unknown format. Unknown levels leave the go-logger
// default in place.
func NewProvider(cfg Config) (*Provider, error) {
	format, ok := formats[strings.ToLower(strings.TrimSpace(cfg.Format))]
	if !ok {
		return nil, fmt.Errorf("gologger: unsupported format %q", cfg.Format)
	}
	opts := []glog.Option{format()}
	if level, ok := levels[strings.ToLower(strings.TrimSpace(cfg.Level))]; ok {
		opts = append(opts, glog.WithLevel(level))
	}
	if cfg.AddSource {
		opts = append(opts, glog.WithAddSource(true))
	}

	root := glog.NewLogger(opts...)
	var focus []string
	for _, name := range cfg.Focus {
		if name = strings.TrimSpace(name); name != "" {
			focus = append(focus, name)
		}
	}
	if len(focus) > 0 {
		root.Focus(focus...)
	}
	return &Provider{root: root}, nil
}

// GetLogger returns the child logger for name, or the root for a blank name.
func (p *Provider) GetLogger(name string) interfaces.Logger {
	switch {
	case p == nil || p.root == nil:
		return logging.NoOp()
	case strings.TrimSpace(name) == "":
		return adapt(p.root)
	default:
		return adapt(p.root.GetLogger(strings.TrimSpace(name)))
	}
}

type entryLogger struct {
	glog.Logger
}

var (
	_ interfaces.Logger       = entryLogger{}
	_ interfaces.FieldsLogger = entryLogger{}
)

func adapt(l glog.Logger) interfaces.Logger {
	if l == nil {
		return logging.NoOp()
	}
	return entryLogger{Logger: l}
}

func (e entryLogger) WithContext(ctx context.Context) interfaces.Logger {
	if ctx == nil {
		return e
	}
	return logging.WithFields(adapt(e.Logger.WithContext(ctx)), logging.ContextFields(ctx))
}

// WithFields uses glog.FieldsLogger when available, otherwise key/value pairs
// sorted by key.
func (e entryLogger) WithFields(fields map[string]any) interfaces.Logger {
	if len(fields) == 0 {
		return e
	}
	switch inner := e.Logger.(type) {
	case glog.FieldsLogger:
		return adapt(inner.WithFields(maps.Clone(fields)))
	case interface{ With(...any) *glog.BaseLogger }:
		pairs := make([]any, 0, 2*len(fields))
		for _, key := range slices.Sorted(maps.Keys(fields)) {
			pairs = append(pairs, key, fields[key])
		}
		return adapt(inner.With(pairs...))
	}
	return e
}
