package structure_test

import (
	"context"
	"sync"

	"github.com/goliatone/go-cms-console/pkg/interfaces"
)

type recordingLogger struct {
	mu       sync.Mutex
	warnings int
}

func (l *recordingLogger) Trace(string, ...any) {}
func (l *recordingLogger) Debug(string, ...any) {}
func (l *recordingLogger) Info(string, ...any)  {}
func (l *recordingLogger) Warn(string, ...any) {
	l.mu.Lock()
	l.warnings++
	l.mu.Unlock()
}
func (l *recordingLogger) Error(string, ...any)                          {}
func (l *recordingLogger) Fatal(string, ...any)                          {}
func (l *recordingLogger) WithContext(context.Context) interfaces.Logger { return l }
