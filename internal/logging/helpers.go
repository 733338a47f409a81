package logging

import (
	"maps"
	"strings"

	"github.com/goliatone/go-cms-console/pkg/interfaces"
)

const (
	fieldSession  = "session_id"
	fieldResource = "resource"
	fieldRecord   = "record_id"
	fieldBlock    = "block_id"
)

// WithFields attaches structured fields when logger implements
// interfaces.FieldsLogger. Other loggers are returned unchanged.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}

	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		copied := make(map[string]any, len(fields))
		maps.Copy(copied, fields)
		return fieldsLogger.WithFields(copied)
	}

	return logger
}

// WithSession annotates logger with the editing session coordinates. Blank
// values are skipped.
func WithSession(logger interfaces.Logger, sessionID, resource, recordID string) interfaces.Logger {
	fields := map[string]any{}
	if v := strings.TrimSpace(sessionID); v != "" {
		fields[fieldSession] = v
	}
	if v := strings.TrimSpace(resource); v != "" {
		fields[fieldResource] = v
	}
	if v := strings.TrimSpace(recordID); v != "" {
		fields[fieldRecord] = v
	}
	return WithFields(logger, fields)
}

// WithBlock annotates logger with a block id.
func WithBlock(logger interfaces.Logger, blockID string) interfaces.Logger {
	if strings.TrimSpace(blockID) == "" {
		return logger
	}
	return WithFields(logger, map[string]any{fieldBlock: blockID})
}
