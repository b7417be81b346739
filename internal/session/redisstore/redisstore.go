package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"recordwizard/internal/session"
	"recordwizard/internal/wizard"
)

const sessionKeyPrefix = "wizard:session:"

// Conn opens a Redis connection and verifies it with a ping.
func Conn(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	pong, err := client.Ping(ctx).Result()
	if err != nil {
		return nil, err
	}
	if pong != "PONG" {
		return nil, fmt.Errorf("expected PONG, got %s", pong)
	}
	return client, nil
}

// Store persists serialized session documents in Redis with a TTL,
// rehydrating a fresh machine on every load.
type Store struct {
	client  *redis.Client
	factory session.Factory
	ttl     time.Duration
}

func NewStore(client *redis.Client, factory session.Factory, ttl time.Duration) *Store {
	return &Store{client: client, factory: factory, ttl: ttl}
}

func (s *Store) Create(ctx context.Context) (string, *wizard.Machine, error) {
	m := s.factory()
	id := uuid.NewString()
	if err := s.Save(ctx, id, m); err != nil {
		return "", nil, err
	}
	return id, m, nil
}

func (s *Store) Get(ctx context.Context, id string) (*wizard.Machine, error) {
	val, err := s.client.Get(ctx, sessionKeyPrefix+id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, session.ErrNotFound
		}
		return nil, err
	}
	var doc wizard.Document
	if err := json.Unmarshal([]byte(val), &doc); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	m := s.factory()
	m.Hydrate(doc)
	return m, nil
}

func (s *Store) Save(ctx context.Context, id string, m *wizard.Machine) error {
	doc := m.Export()
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionKeyPrefix+id, data, s.ttl).Err()
}

func (s *Store) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, sessionKeyPrefix+id).Err()
}
