package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
)

var ErrNotFound = errors.New("session not found")

// Store persists session state so a visitor keeps their filters across
// restarts and replicas. The catalog itself is never stored.
type Store interface {
	Load(ctx context.Context, id string) (State, error)
	Save(ctx context.Context, id string, state State) error
	Delete(ctx context.Context, id string) error
}

type MemoryStore struct {
	mu     sync.RWMutex
	states map[string]State
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[string]State)}
}

func (m *MemoryStore) Load(_ context.Context, id string) (State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.states[id]
	if !ok {
		return State{}, ErrNotFound
	}
	return s, nil
}

func (m *MemoryStore) Save(_ context.Context, id string, state State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[id] = state
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, id)
	return nil
}

type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisStore(addr, password string, db int, ttl time.Duration) *RedisStore {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return NewRedisStoreWithClient(rdb, ttl)
}

func NewRedisStoreWithClient(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, prefix: "browse_session_", ttl: ttl}
}

func (r *RedisStore) key(id string) string {
	return r.prefix + id
}

func (r *RedisStore) Load(ctx context.Context, id string) (State, error) {
	var s State
	data, err := r.client.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return s, ErrNotFound
	}
	if err != nil {
		return s, err
	}
	err = sonic.Unmarshal(data, &s)
	return s, err
}

// Save refreshes the expiry on every write, idle sessions fall out of redis
// after the ttl.
func (r *RedisStore) Save(ctx context.Context, id string, state State) error {
	data, err := sonic.Marshal(state)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key(id), data, r.ttl).Err()
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, r.key(id)).Err()
}

func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
