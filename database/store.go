// Package database provides the key-value store the handlers persist to.
// The concrete implementation is Redis; tests substitute MemoryStore.
package database

import (
	"context"
	"encoding/json"
)

// Store is the minimal key-value surface the application uses. Values are
// plain strings; records are JSON-encoded at this boundary (GetJSON/SetJSON)
// so the domain layer only ever sees decoded structs.
//
// No atomicity is guaranteed across calls: catalog update and delete are
// read-list → compute → write sequences and can race with concurrent writers.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Del(ctx context.Context, keys ...string) error

	ListRange(ctx context.Context, key string) ([]string, error)
	ListAppend(ctx context.Context, key string, values ...string) error
	ListSet(ctx context.Context, key string, index int64, value string) error

	SetAdd(ctx context.Context, key, member string) error
	SetRemove(ctx context.Context, key, member string) error
	SetMembers(ctx context.Context, key string) ([]string, error)
}

// GetJSON reads key and decodes it into dest. Returns false when the key does
// not exist.
func GetJSON(ctx context.Context, s Store, key string, dest any) (bool, error) {
	raw, err := s.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if raw == "" {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON encodes value and stores it under key.
func SetJSON(ctx context.Context, s Store, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.Set(ctx, key, string(data))
}
