package interfaces

import "context"

// Logger writes leveled entries for the console packages. Any
// github.com/goliatone/go-logger logger fits without wrapping.
type Logger interface {
	LevelLogger
	WithContext(ctx context.Context) Logger
}

// LevelLogger is the write side of Logger. Args are key/value pairs.
type LevelLogger interface {
	Trace(msg string, args ...any)
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Fatal(msg string, args ...any)
}

// FieldsLogger binds fields to every later entry. Loggers without it simply
// drop the fields.
type FieldsLogger interface {
	WithFields(fields map[string]any) Logger
}

type LoggerProvider interface {
	GetLogger(name string) Logger
}

// LoggerProviderFunc lets a plain function serve as a LoggerProvider.
type LoggerProviderFunc func(name string) Logger

func (f LoggerProviderFunc) GetLogger(name string) Logger {
	if f == nil {
		return nil
	}
	return f(name)
}
