// File: utils/health.go
package utils

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
)

// probeTimeout bounds one full refresh across all dependencies.
const probeTimeout = 5 * time.Second

// Probe checks a single dependency.
type Probe func(ctx context.Context) error

// HealthStatus is the last observed state of the service's dependencies:
// the document store, the availability cache and the task queue broker.
type HealthStatus struct {
	Mongo     bool      `json:"mongo"`
	Cache     bool      `json:"cache"`
	Queue     bool      `json:"queue"`
	CheckedAt time.Time `json:"checkedAt"`
}

// HealthMonitor keeps a periodically refreshed snapshot of dependency
// health. Each instance owns its own snapshot, so tests can run isolated
// monitors instead of sharing package state.
type HealthMonitor struct {
	mongo    Probe
	cache    Probe
	queue    Probe
	interval time.Duration

	mu      sync.RWMutex
	current HealthStatus
}

// NewHealthMonitor builds a monitor over the Mongo client, the cache Redis
// client and the Redis DB backing the task queue broker.
func NewHealthMonitor(mongoClient *mongo.Client, cacheClient, queueClient *redis.Client, interval time.Duration) *HealthMonitor {
	return &HealthMonitor{
		mongo:    func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) },
		cache:    func(ctx context.Context) error { return cacheClient.Ping(ctx).Err() },
		queue:    func(ctx context.Context) error { return queueClient.Ping(ctx).Err() },
		interval: interval,
	}
}

// Status returns the latest snapshot.
func (m *HealthMonitor) Status() HealthStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// refresh probes every dependency once under a bounded context.
func (m *HealthMonitor) refresh(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	status := HealthStatus{
		Mongo:     m.mongo(ctx) == nil,
		Cache:     m.cache(ctx) == nil,
		Queue:     m.queue(ctx) == nil,
		CheckedAt: time.Now(),
	}

	m.mu.Lock()
	m.current = status
	m.mu.Unlock()
}

// Start probes immediately, then on every interval tick.
func (m *HealthMonitor) Start() {
	go func() {
		ctx := context.Background()
		m.refresh(ctx)

		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()
		for range ticker.C {
			m.refresh(ctx)
		}
	}()
}
