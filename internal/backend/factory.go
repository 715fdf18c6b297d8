package backend

import (
	"context"
	"fmt"
	"log/slog"

	"operadoras/internal/core"
	"operadoras/internal/storage"
	"operadoras/internal/store/memory"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config, ds core.Dataset) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case SQLiteBackend:
		return f.createSQLiteBackend(ctx, config, ds)
	case MemoryBackend:
		return f.createMemoryBackend(ds)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createSQLiteBackend(ctx context.Context, config Config, ds core.Dataset) (*BackendResult, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	if err := repo.Seed(ctx, ds); err != nil {
		repo.Close()
		return nil, fmt.Errorf("failed to seed SQLite repository: %w", err)
	}

	f.logger.Info("Initialized SQLite backend",
		"db_path", config.SQLiteDBPath,
		"operators", len(ds.Operators),
		"expenses", len(ds.Expenses))

	return &BackendResult{
		Backend: repo,
		Cleanup: repo.Close,
	}, nil
}

func (f *DefaultFactory) createMemoryBackend(ds core.Dataset) (*BackendResult, error) {
	st := memory.New(ds)

	f.logger.Info("Initialized memory backend",
		"operators", len(ds.Operators),
		"expenses", len(ds.Expenses))

	return &BackendResult{
		Backend: st,
		Cleanup: nil,
	}, nil
}
