package sqlite

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qa-forum/server/src/server/store/storetest"
)

func newTestStore(t *testing.T, path string) *SQLiteStore {
	t.Helper()
	s, err := New(path)
	require.NoError(t, err)
	require.NoError(t, s.Migrate())
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStore(t *testing.T) {
	storetest.Run(t, newTestStore(t, filepath.Join(t.TempDir(), "forum.db")))
}

func TestSQLiteStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "forum.db")

	first, err := New(path)
	require.NoError(t, err)
	require.NoError(t, first.Migrate())
	require.NoError(t, first.Save(ctx, "questions", map[string]json.RawMessage{
		"1": json.RawMessage(`{"question-id":1,"title":"t","body":"b","username":"a@b.com"}`),
	}))
	require.NoError(t, first.Close())

	second := newTestStore(t, path)
	require.NoError(t, second.Ping(ctx))
	docs, err := second.Load(ctx, "questions")
	require.NoError(t, err)
	require.Contains(t, docs, "1")
	assert.JSONEq(t, `{"question-id":1,"title":"t","body":"b","username":"a@b.com"}`, string(docs["1"]))
}
