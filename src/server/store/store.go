package store

import (
	"context"
	"encoding/json"
)

// Collection names shared by every backend.
const (
	Users     = "users"
	Questions = "questions"
	Answers   = "answers"
	Sequences = "sequences"
)

// Backend persists whole document collections. A collection maps a key to a
// JSON document; Load on a collection that was never saved returns an empty
// map. Callers serialize read-modify-write cycles themselves.
type Backend interface {
	Load(ctx context.Context, collection string) (map[string]json.RawMessage, error)
	Save(ctx context.Context, collection string, docs map[string]json.RawMessage) error
}

// Pinger is implemented by backends that support health checks.
type Pinger interface {
	Ping(ctx context.Context) error
}
