// Package backend wires a storage backend and the optional change-event
// client from configuration.
package backend

import (
	"context"

	"fintrack/internal/amqp"
	"fintrack/internal/services"
	"fintrack/internal/storage"
)

// CleanupFunc releases the resources held by a Result.
type CleanupFunc func() error

// Result holds the repository over the selected store and, when AMQP is
// configured and reachable, a change-event client.
type Result struct {
	Store      storage.BlobStore
	Repository *storage.Repository
	Events     *amqp.Client
	Cleanup    CleanupFunc
}

// Publisher returns the event client as a publisher, or nil when events are
// disabled. A typed nil client must not leak into the interface.
func (r *Result) Publisher() services.EventPublisher {
	if r.Events == nil {
		return nil
	}
	return r.Events
}

// Factory creates backends based on configuration.
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*Result, error)
}

// Config holds configuration for backend creation.
type Config struct {
	Type BackendType

	SQLiteDBPath string
	RedisURL     string
	RedisPrefix  string
	PostgresURL  string

	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

type BackendType string

const (
	MemoryBackend   BackendType = "memory"
	SQLiteBackend   BackendType = "sqlite"
	RedisBackend    BackendType = "redis"
	PostgresBackend BackendType = "postgres"
)

func (bt BackendType) String() string {
	return string(bt)
}

func (bt BackendType) IsValid() bool {
	switch bt {
	case MemoryBackend, SQLiteBackend, RedisBackend, PostgresBackend:
		return true
	default:
		return false
	}
}
