package backend

import (
	"context"
	"fmt"

	"finboard/internal/log"
	"finboard/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.Discard()
	}
	return &DefaultFactory{
		logger: logger.WithComponent(log.ComponentBackend),
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		dialect storage.Dialect
		dsn     string
	)
	switch config.Type {
	case SQLiteBackend:
		dialect, dsn = storage.SQLite, config.SQLiteDBPath
	case PostgresBackend:
		dialect, dsn = storage.Postgres, config.DatabaseURL
	case MemoryBackend:
		dialect, dsn = storage.SQLite, storage.MemoryDSN
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}

	db, err := storage.Open(ctx, dialect, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s backend: %w", config.Type, err)
	}
	store := storage.NewStore(db)

	attrs := []any{"type", config.Type.String(), "dialect", string(dialect)}
	if config.Type == SQLiteBackend {
		attrs = append(attrs, "db_path", config.SQLiteDBPath)
	}
	f.logger.InfoContext(ctx, "Initialized backend", attrs...)

	return &BackendResult{
		Store:   store,
		Cleanup: store.Close,
	}, nil
}
