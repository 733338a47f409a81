package console

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/goliatone/go-cms-console/internal/blocks"
	"github.com/goliatone/go-cms-console/internal/commands"
	"github.com/goliatone/go-cms-console/internal/commands/commitcmd"
	"github.com/goliatone/go-cms-console/internal/di"
	"github.com/goliatone/go-cms-console/internal/editor"
	"github.com/goliatone/go-cms-console/internal/logging"
	"github.com/goliatone/go-cms-console/internal/navigation"
	"github.com/goliatone/go-cms-console/internal/records"
	"github.com/goliatone/go-cms-console/pkg/interfaces"
)

// RecordService exports the record storage contract.
type RecordService = records.Service

// Session exports the editing session.
type Session = editor.Session

// SessionOption exports editing session options.
type SessionOption = editor.Option

type (
	Block             = blocks.Block
	FieldDefinition   = blocks.FieldDefinition
	ContentType       = blocks.ContentType
	Record            = records.Record
	ResourceSchema    = records.ResourceSchema
	DefineSchemaInput = records.DefineSchemaInput
	ResourceOption    = navigation.ResourceOption
	MenuEntry         = navigation.MenuEntry
	MenuSource        = navigation.MenuSource
)

// ErrSessionNotFound is returned for unknown session ids.
var ErrSessionNotFound = commitcmd.ErrSessionNotFound

// ErrNilModule guards calls on an unconfigured module.
var ErrNilModule = errors.New("console: module is not configured")

// Option customises the wiring of a Module.
type Option = di.Option

var (
	WithBunDB          = di.WithBunDB
	WithCache          = di.WithCache
	WithLoggerProvider = di.WithLoggerProvider
	WithMediaStore     = di.WithMediaStore
	WithMenuSource     = di.WithMenuSource
	WithRecordService  = di.WithRecordService
	WithRegistry       = di.WithRegistry
)

// Module represents the top level content console façade.
type Module struct {
	container *di.Container
	logger    interfaces.Logger
	commit    *commitcmd.CommitSessionHandler

	mu       sync.RWMutex
	sessions map[string]*editor.Session
}

// New constructs a console module from cfg.
func New(ctx context.Context, cfg Config, opts ...Option) (*Module, error) {
	container, err := di.NewContainer(ctx, cfg, opts...)
	if err != nil {
		return nil, err
	}
	m := &Module{
		container: container,
		logger:    logging.EditorLogger(container.LoggerProvider()),
		sessions:  make(map[string]*editor.Session),
	}
	m.commit = commitcmd.NewCommitSessionHandler(m,
		commands.CommandLogger(container.LoggerProvider(), "editor"),
		m.committed,
	)
	return m, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	if m == nil {
		return nil
	}
	return m.container
}

// Records returns the configured record service.
func (m *Module) Records() RecordService {
	return m.container.RecordService()
}

// DefineSchema creates or replaces the field definitions of a resource.
func (m *Module) DefineSchema(ctx context.Context, input DefineSchemaInput) (*ResourceSchema, error) {
	schema, err := m.container.RecordService().DefineSchema(ctx, input)
	if err != nil {
		return nil, err
	}
	m.container.ForeignCache().Invalidate(schema.Resource)
	return schema, nil
}

// OpenSession starts editing recordID of resource. uuid.Nil opens a new record.
func (m *Module) OpenSession(ctx context.Context, resource string, recordID uuid.UUID, opts ...SessionOption) (*Session, error) {
	if m == nil || m.container == nil {
		return nil, ErrNilModule
	}
	svc := m.container.RecordService()
	schema, err := svc.GetSchema(ctx, resource)
	if err != nil {
		return nil, err
	}
	var rec *records.Record
	if recordID != uuid.Nil {
		rec, err = svc.GetRecord(ctx, recordID)
		if err != nil {
			return nil, err
		}
	}

	sessionOpts := append([]editor.Option{
		editor.WithEngine(m.container.Engine()),
		editor.WithResolver(m.container.Resolver()),
		editor.WithForeignCache(m.container.ForeignCache()),
		editor.WithLogger(m.logger),
	}, opts...)
	session, err := editor.NewSession(schema, rec, svc, sessionOpts...)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.sessions[session.ID()] = session
	m.mu.Unlock()
	return session, nil
}

// Session returns an open session by id.
func (m *Module) Session(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	session, ok := m.sessions[id]
	return session, ok
}

// CloseSession forgets a session. Pending assets are discarded with it.
func (m *Module) CloseSession(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Commit runs the commit command for an open session.
func (m *Module) Commit(ctx context.Context, sessionID string) error {
	return m.commit.Execute(ctx, commitcmd.CommitSessionCommand{SessionID: sessionID})
}

// CommitHandler exposes the commit command handler for dispatcher wiring.
func (m *Module) CommitHandler() *commitcmd.CommitSessionHandler {
	return m.commit
}

// ResourceOptions lists the resources offered by the related-entity picker.
func (m *Module) ResourceOptions(ctx context.Context, force bool) []ResourceOption {
	return m.container.Navigation().Options(ctx, force)
}

// Close releases storage owned by the module.
func (m *Module) Close() error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Close()
}

// committed drops cached foreign labels of the saved resource.
func (m *Module) committed(_ context.Context, sessionID string, rec *records.Record) {
	if rec == nil {
		return
	}
	m.container.ForeignCache().Invalidate(rec.Resource)
	logging.WithFields(m.logger, map[string]any{
		"session_id": sessionID,
		"record_id":  rec.ID.String(),
	}).Debug("console.record.committed")
}
