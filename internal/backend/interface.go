package backend

import (
	"context"

	"gastos/internal/core"
)

// Backend is everything the HTTP layer needs from the expense collection.
type Backend interface {
	Submit(ctx context.Context, cursor string, e core.Expense) (core.Expense, error)
	Delete(ctx context.Context, id string) error
	Get(id string) (core.Expense, error)
	List() []core.Expense
	Filter(f core.Filter) []core.Expense
	Snapshot() ([]byte, error)
	Ping(ctx context.Context) error
}

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult contains the backend instance and optional cleanup function
type BackendResult struct {
	Backend Backend
	Cleanup CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type       BackendType
	StorageKey string

	// SQLite specific
	SQLiteDBPath string

	// Memory specific
	MemorySeedFile string

	// Redis specific
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Postgres specific
	PostgresDSN string

	// Change notifications (optional for every backend)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// BackendType names the storage.KV implementation holding the collection.
type BackendType string

const (
	SQLiteBackend   BackendType = "sqlite"
	MemoryBackend   BackendType = "memory"
	RedisBackend    BackendType = "redis"
	PostgresBackend BackendType = "postgres"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, MemoryBackend, RedisBackend, PostgresBackend:
		return true
	default:
		return false
	}
}
