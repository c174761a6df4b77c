package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/qa-forum/server/src/server/storage"
)

// DocumentStore keeps each collection as a single JSON object named
// "<collection>.json" in an object storage: users.json, questions.json and
// answers.json on local disk or in an S3 bucket.
type DocumentStore struct {
	objects storage.ObjectStorage
}

func NewDocumentStore(objects storage.ObjectStorage) *DocumentStore {
	return &DocumentStore{objects: objects}
}

func objectKey(collection string) string { return collection + ".json" }

func (s *DocumentStore) Load(ctx context.Context, collection string) (map[string]json.RawMessage, error) {
	rc, err := s.objects.Download(ctx, objectKey(collection))
	if errors.Is(err, storage.ErrObjectNotFound) {
		return map[string]json.RawMessage{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", collection, err)
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", collection, err)
	}
	docs := map[string]json.RawMessage{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return docs, nil
	}
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", collection, err)
	}
	if docs == nil {
		docs = map[string]json.RawMessage{}
	}
	return docs, nil
}

func (s *DocumentStore) Save(ctx context.Context, collection string, docs map[string]json.RawMessage) error {
	if docs == nil {
		docs = map[string]json.RawMessage{}
	}
	raw, err := json.Marshal(docs)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", collection, err)
	}
	if err := s.objects.Upload(ctx, objectKey(collection), bytes.NewReader(raw), "application/json"); err != nil {
		return fmt.Errorf("writing %s: %w", collection, err)
	}
	return nil
}

func (s *DocumentStore) Ping(ctx context.Context) error {
	return s.objects.Ping(ctx)
}
