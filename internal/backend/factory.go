package backend

import (
	"context"
	"fmt"
	"log/slog"

	"gastos/internal/amqp"
	"gastos/internal/ledger"
	"gastos/internal/services"
	"gastos/internal/storage"
	"gastos/internal/storage/memory"
	"gastos/internal/storage/postgres"
	redisstore "gastos/internal/storage/redis"
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

// CreateBackend opens the configured storage, loads the collection and
// wires the expense service with an optional AMQP publisher.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	kv, err := OpenKV(ctx, config)
	if err != nil {
		return nil, err
	}

	store, err := ledger.Open(ctx, kv, config.StorageKey)
	if err != nil {
		kv.Close()
		return nil, fmt.Errorf("load expense collection: %w", err)
	}

	var publisher services.Publisher
	if config.AMQPURL != "" {
		client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without export notifications", "error", err)
		} else {
			publisher = client
			f.logger.Info("Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
		}
	}

	service := services.NewExpenseService(store, publisher, config.StorageKey)
	service.OnClose(kv.Close)

	f.logger.Info("Initialized backend",
		"type", config.Type,
		"key", config.StorageKey,
		"records", store.Len(),
		"amqp_enabled", publisher != nil)

	return &BackendResult{
		Backend: service,
		Cleanup: service.Close,
	}, nil
}

// OpenKV connects to the storage.KV named by config.Type.
func OpenKV(ctx context.Context, config Config) (storage.KV, error) {
	switch config.Type {
	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		return repo, nil
	case MemoryBackend:
		return memory.NewFromFile(config.MemorySeedFile, keyOrDefault(config.StorageKey)), nil
	case RedisBackend:
		store, err := redisstore.New(ctx, redisstore.Config{
			Addr:     config.RedisAddr,
			Password: config.RedisPassword,
			DB:       config.RedisDB,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Redis store: %w", err)
		}
		return store, nil
	case PostgresBackend:
		store, err := postgres.New(ctx, config.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Postgres store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func keyOrDefault(key string) string {
	if key == "" {
		return ledger.DefaultKey
	}
	return key
}
