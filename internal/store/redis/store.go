// Package redis persists snapshots in Redis hashes, one field per
// username, with JSON values.
package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/stash/internal/bookmarks"
	"github.com/MrSnakeDoc/stash/internal/domain"
)

// Store persists users and bookmark collections through a Redis client.
type Store struct {
	client *redis.Client
}

func New(client *redis.Client) *Store {
	return &Store{client: client}
}

func (s *Store) SaveUsers(ctx context.Context, users map[string]*domain.User) error {
	return s.saveHash(ctx, KeyUsers, toJSONFields(users))
}

func (s *Store) LoadUsers(ctx context.Context) (map[string]*domain.User, error) {
	fields, err := s.client.HGetAll(ctx, KeyUsers).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}

	users := make(map[string]*domain.User, len(fields))
	for username, raw := range fields {
		var user domain.User
		if err := json.Unmarshal([]byte(raw), &user); err != nil {
			return nil, fmt.Errorf("failed to decode user %s: %w", username, err)
		}
		users[username] = &user
	}
	return users, nil
}

func (s *Store) SaveBookmarks(ctx context.Context, collections map[string]*bookmarks.Collection) error {
	return s.saveHash(ctx, KeyBookmarks, toJSONFields(collections))
}

func (s *Store) LoadBookmarks(ctx context.Context) (map[string]*bookmarks.Collection, error) {
	fields, err := s.client.HGetAll(ctx, KeyBookmarks).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load bookmarks: %w", err)
	}

	collections := make(map[string]*bookmarks.Collection, len(fields))
	for username, raw := range fields {
		col := &bookmarks.Collection{}
		if err := json.Unmarshal([]byte(raw), col); err != nil {
			return nil, fmt.Errorf("failed to decode bookmarks for %s: %w", username, err)
		}
		collections[username] = col
	}
	return collections, nil
}

// saveHash replaces the hash contents atomically: delete plus HSet in
// one pipeline, so a user removed from memory also drops from Redis.
func (s *Store) saveHash(ctx context.Context, key string, fields map[string]string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, key)
	if len(fields) > 0 {
		args := make([]any, 0, len(fields)*2)
		for field, value := range fields {
			args = append(args, field, value)
		}
		pipe.HSet(ctx, key, args...)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

func toJSONFields[T any](m map[string]T) map[string]string {
	fields := make(map[string]string, len(m))
	for k, v := range m {
		data, err := json.Marshal(v)
		if err != nil {
			// Both snapshot types marshal without error; skip rather
			// than lose the whole snapshot if that ever changes.
			continue
		}
		fields[k] = string(data)
	}
	return fields
}
