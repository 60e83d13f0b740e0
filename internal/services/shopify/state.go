package shopify

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const stateTTL = 10 * time.Minute

var ErrStateNotFound = errors.New("oauth state not found or expired")

// StateStore remembers which shop an OAuth state nonce was issued for.
// Consume removes the nonce so a callback cannot be replayed.
type StateStore interface {
	Save(ctx context.Context, state, shop string) error
	Consume(ctx context.Context, state string) (string, error)
}

// NewStateStore uses Redis when redisURL is set and memory otherwise.
func NewStateStore(ctx context.Context, redisURL string) (StateStore, error) {
	if redisURL == "" {
		return NewMemoryStateStore(), nil
	}
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	rdb := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return NewRedisStateStore(rdb), nil
}

type RedisStateStore struct {
	rdb *redis.Client
}

func NewRedisStateStore(rdb *redis.Client) *RedisStateStore {
	return &RedisStateStore{rdb: rdb}
}

func stateKey(state string) string {
	return "ezproduct:oauth:state:" + state
}

func (s *RedisStateStore) Save(ctx context.Context, state, shop string) error {
	return s.rdb.Set(ctx, stateKey(state), shop, stateTTL).Err()
}

func (s *RedisStateStore) Consume(ctx context.Context, state string) (string, error) {
	shop, err := s.rdb.GetDel(ctx, stateKey(state)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrStateNotFound
	}
	return shop, err
}

func (s *RedisStateStore) Close() error {
	return s.rdb.Close()
}

type memoryState struct {
	shop    string
	expires time.Time
}

type MemoryStateStore struct {
	mu     sync.Mutex
	states map[string]memoryState
	now    func() time.Time
}

func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{states: make(map[string]memoryState), now: time.Now}
}

func (s *MemoryStateStore) Save(_ context.Context, state, shop string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for k, v := range s.states {
		if now.After(v.expires) {
			delete(s.states, k)
		}
	}
	s.states[state] = memoryState{shop: shop, expires: now.Add(stateTTL)}
	return nil
}

func (s *MemoryStateStore) Consume(_ context.Context, state string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.states[state]
	delete(s.states, state)
	if !ok || s.now().After(v.expires) {
		return "", ErrStateNotFound
	}
	return v.shop, nil
}
