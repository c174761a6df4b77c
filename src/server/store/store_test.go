package store_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qa-forum/server/src/server/storage"
	"github.com/qa-forum/server/src/server/store"
	"github.com/qa-forum/server/src/server/store/storetest"
)

func TestMemoryStore(t *testing.T) {
	storetest.Run(t, store.NewMemoryStore())
}

func TestDocumentStore(t *testing.T) {
	objects, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)
	storetest.Run(t, store.NewDocumentStore(objects))
}

func TestDocumentStoreFileLayout(t *testing.T) {
	dir := t.TempDir()
	objects, err := storage.NewLocal(dir)
	require.NoError(t, err)
	s := store.NewDocumentStore(objects)

	require.NoError(t, s.Save(context.Background(), store.Questions, map[string]json.RawMessage{}))

	raw, err := os.ReadFile(filepath.Join(dir, "questions.json"))
	require.NoError(t, err)
	assert.Equal(t, "{}", string(raw))
}

func TestDocumentStoreRejectsCorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "users.json"), []byte("{not json"), 0o644))
	objects, err := storage.NewLocal(dir)
	require.NoError(t, err)

	_, err = store.NewDocumentStore(objects).Load(context.Background(), store.Users)
	assert.Error(t, err)
}

func TestDocumentStoreEmptyFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "answers.json"), nil, 0o644))
	objects, err := storage.NewLocal(dir)
	require.NoError(t, err)

	docs, err := store.NewDocumentStore(objects).Load(context.Background(), store.Answers)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestErrorKinds(t *testing.T) {
	err := store.Conflict("Question with ID %d already exists.", 4)
	assert.Equal(t, "Question with ID 4 already exists.", err.Error())
	assert.True(t, errors.Is(err, store.ErrConflict))
	assert.False(t, errors.Is(err, store.ErrNotFound))

	wrapped := fmt.Errorf("creating question: %w", store.NotFound("gone"))
	assert.True(t, errors.Is(wrapped, store.ErrNotFound))

	var se *store.Error
	require.True(t, errors.As(wrapped, &se))
	assert.Equal(t, "gone", se.Msg)

	assert.True(t, errors.Is(store.Invalid("bad"), store.ErrInvalid))
}
