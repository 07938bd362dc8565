package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pawelhaladyj/opti-agents/core"
)

// Checkpointer persists and restores a TeamMemoryContext snapshot, keyed by
// an arbitrary session id. Standalone — the orchestrator does not call a
// Checkpointer, and TeamMemory has no method that restores a loaded
// snapshot; callers Save and Load snapshots themselves.
type Checkpointer interface {
	Save(ctx context.Context, sessionID string, snapshot core.TeamMemoryContext) error
	Load(ctx context.Context, sessionID string) (core.TeamMemoryContext, bool, error)
}

// InMemoryCheckpointer keeps snapshots in a process-local map; useful for
// tests and single-process deployments.
type InMemoryCheckpointer struct {
	mu    sync.Mutex
	store map[string]core.TeamMemoryContext
}

func NewInMemoryCheckpointer() *InMemoryCheckpointer {
	return &InMemoryCheckpointer{store: map[string]core.TeamMemoryContext{}}
}

func (c *InMemoryCheckpointer) Save(_ context.Context, sessionID string, snapshot core.TeamMemoryContext) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[sessionID] = snapshot
	return nil
}

func (c *InMemoryCheckpointer) Load(_ context.Context, sessionID string) (core.TeamMemoryContext, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap, ok := c.store[sessionID]
	return snap, ok, nil
}

// RedisCheckpointer stores snapshots as JSON under a prefixed key, grounded
// on the teacher's Redis-backed debug stores (orchestration/redis_execution_store.go
// in itsneelabh-gomind): a thin client wrapper with a key prefix and a TTL,
// no custom wire format.
type RedisCheckpointer struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// RedisCheckpointerOption configures a RedisCheckpointer.
type RedisCheckpointerOption func(*RedisCheckpointer)

func WithKeyPrefix(prefix string) RedisCheckpointerOption {
	return func(c *RedisCheckpointer) { c.keyPrefix = prefix }
}

func WithTTL(ttl time.Duration) RedisCheckpointerOption {
	return func(c *RedisCheckpointer) { c.ttl = ttl }
}

// NewRedisCheckpointer wraps an already-constructed *redis.Client; callers
// own the client's lifecycle (connection pooling, auth, TLS).
func NewRedisCheckpointer(client *redis.Client, opts ...RedisCheckpointerOption) *RedisCheckpointer {
	c := &RedisCheckpointer{
		client:    client,
		keyPrefix: "opti-agents:team-memory:",
		ttl:       24 * time.Hour,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *RedisCheckpointer) key(sessionID string) string {
	return c.keyPrefix + sessionID
}

type redisSnapshot struct {
	RollingSummary string       `json:"rolling_summary"`
	Facts          []string     `json:"facts"`
	Scratchpad     []string     `json:"scratchpad"`
	RecentEvents   []eventDict  `json:"recent_events"`
}

type eventDict map[string]any

func (c *RedisCheckpointer) Save(ctx context.Context, sessionID string, snapshot core.TeamMemoryContext) error {
	events := make([]eventDict, 0, len(snapshot.RecentEvents))
	for _, ev := range snapshot.RecentEvents {
		events = append(events, ev.ToDict())
	}
	payload := redisSnapshot{
		RollingSummary: snapshot.RollingSummary,
		Facts:          snapshot.Facts,
		Scratchpad:     snapshot.Scratchpad,
		RecentEvents:   events,
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("memory: marshal checkpoint: %w", err)
	}

	if err := c.client.Set(ctx, c.key(sessionID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("memory: save checkpoint: %w", err)
	}
	return nil
}

func (c *RedisCheckpointer) Load(ctx context.Context, sessionID string) (core.TeamMemoryContext, bool, error) {
	raw, err := c.client.Get(ctx, c.key(sessionID)).Bytes()
	if err == redis.Nil {
		return core.TeamMemoryContext{}, false, nil
	}
	if err != nil {
		return core.TeamMemoryContext{}, false, fmt.Errorf("memory: load checkpoint: %w", err)
	}

	var payload redisSnapshot
	if err := json.Unmarshal(raw, &payload); err != nil {
		return core.TeamMemoryContext{}, false, fmt.Errorf("memory: unmarshal checkpoint: %w", err)
	}

	events := make([]core.Event, 0, len(payload.RecentEvents))
	for _, d := range payload.RecentEvents {
		events = append(events, core.EventFromDict(d))
	}

	return core.TeamMemoryContext{
		RollingSummary: payload.RollingSummary,
		Facts:          payload.Facts,
		Scratchpad:     payload.Scratchpad,
		RecentEvents:   events,
	}, true, nil
}
