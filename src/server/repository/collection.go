// Package repository implements the user, question and answer stores on top
// of a store.Backend. Every mutation runs as one load-modify-save cycle under
// the repository's mutex.
package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/qa-forum/server/src/server/store"
)

// collection decodes and encodes one backend collection as typed records.
type collection[T any] struct {
	name    string
	backend store.Backend
}

func (c collection[T]) load(ctx context.Context) (map[string]T, error) {
	docs, err := c.backend.Load(ctx, c.name)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", c.name, err)
	}
	out := make(map[string]T, len(docs))
	for k, raw := range docs {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("decoding %s/%s: %w", c.name, k, err)
		}
		out[k] = v
	}
	return out, nil
}

func (c collection[T]) save(ctx context.Context, records map[string]T) error {
	docs := make(map[string]json.RawMessage, len(records))
	for k, v := range records {
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encoding %s/%s: %w", c.name, k, err)
		}
		docs[k] = raw
	}
	if err := c.backend.Save(ctx, c.name, docs); err != nil {
		return fmt.Errorf("saving %s: %w", c.name, err)
	}
	return nil
}
