package logging

import (
	"context"

	"github.com/goliatone/go-cms-console/pkg/interfaces"
)

// Module names a logger scope. It is passed to the provider and attached to
// every entry as the "module" field.
type Module string

const (
	ModuleRoot       Module = "console"
	ModuleEditor     Module = "console.editor"
	ModuleAssets     Module = "console.assets"
	ModuleStructure  Module = "console.structure"
	ModuleRecords    Module = "console.records"
	ModuleNavigation Module = "console.navigation"
	ModuleCommands   Module = "console.commands"
)

// Logger resolves the scoped logger from provider. A nil provider, or one
// that returns nil, yields NoOp.
func (m Module) Logger(provider interfaces.LoggerProvider) interfaces.Logger {
	if m == "" {
		m = ModuleRoot
	}
	var base interfaces.Logger
	if provider != nil {
		base = provider.GetLogger(string(m))
	}
	if base == nil {
		base = NoOp()
	}
	return WithFields(base, map[string]any{"module": string(m)})
}

// ModuleLogger is Module(name).Logger(provider).
func ModuleLogger(provider interfaces.LoggerProvider, name string) interfaces.Logger {
	return Module(name).Logger(provider)
}

func EditorLogger(p interfaces.LoggerProvider) interfaces.Logger     { return ModuleEditor.Logger(p) }
func AssetsLogger(p interfaces.LoggerProvider) interfaces.Logger     { return ModuleAssets.Logger(p) }
func StructureLogger(p interfaces.LoggerProvider) interfaces.Logger  { return ModuleStructure.Logger(p) }
func RecordsLogger(p interfaces.LoggerProvider) interfaces.Logger    { return ModuleRecords.Logger(p) }
func NavigationLogger(p interfaces.LoggerProvider) interfaces.Logger { return ModuleNavigation.Logger(p) }
func CommandsLogger(p interfaces.LoggerProvider) interfaces.Logger   { return ModuleCommands.Logger(p) }

// NoOp discards everything.
func NoOp() interfaces.Logger { return discard{} }

type discard struct{}

var (
	_ interfaces.Logger       = discard{}
	_ interfaces.FieldsLogger = discard{}
)

func (discard) Trace(string, ...any) {}
func (discard) Debug(string, ...any) {}
func (discard) Info(string, ...any)  {}
func (discard) Warn(string, ...any)  {}
func (discard) Error(string, ...any) {}
func (discard) Fatal(string, ...any) {}

func (d discard) WithFields(map[string]any) interfaces.Logger   { return d }
func (d discard) WithContext(context.Context) interfaces.Logger { return d }
