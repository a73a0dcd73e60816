package backend

import (
	"context"
	"fmt"
	"log/slog"

	"tally/internal/config"
	"tally/internal/storage"
	"tally/internal/store/memory"
)

// DefaultFactory implements the Factory interface.
type DefaultFactory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

func (f *DefaultFactory) CreateBackend(_ context.Context, cfg Config) (*Result, error) {
	switch cfg.Type {
	case SQLiteBackend:
		repo, err := storage.NewRepository(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize SQLite repository: %w", err)
		}
		f.logger.Info("Initialized SQLite backend", "db_path", cfg.SQLiteDBPath)
		return &Result{Backend: repo, Cleanup: repo.Close}, nil

	case MemoryBackend:
		f.logger.Info("Initialized memory backend")
		return &Result{Backend: memory.New(), Cleanup: nil}, nil

	default:
		return nil, fmt.Errorf("invalid backend type: %s", cfg.Type)
	}
}

// FromAppConfig converts the application config to backend config.
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}
	t := Type(appConfig.DataBackend)
	if !t.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}
	cfg := Config{
		Type:         t,
		SQLiteDBPath: appConfig.SQLiteDBPath,
	}
	if cfg.Type == SQLiteBackend && cfg.SQLiteDBPath == "" {
		return Config{}, fmt.Errorf("SQLite database path is required for sqlite backend")
	}
	return cfg, nil
}
