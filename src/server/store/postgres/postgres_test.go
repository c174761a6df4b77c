package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewWithDB(db), mock
}

func TestLoad(t *testing.T) {
	s, mock := newMockStore(t)

	rows := sqlmock.NewRows([]string{"key", "body"}).
		AddRow("1", []byte(`{"question-id":1,"title":"t","body":"b","username":"a@b.com"}`)).
		AddRow("2", []byte(`{"question-id":2,"title":"u","body":"c","username":"a@b.com"}`))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT key, body FROM documents WHERE collection = $1`)).
		WithArgs("questions").
		WillReturnRows(rows)

	docs, err := s.Load(context.Background(), "questions")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.JSONEq(t, `{"question-id":2,"title":"u","body":"c","username":"a@b.com"}`, string(docs["2"]))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadEmpty(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT key, body FROM documents`)).
		WithArgs("users").
		WillReturnRows(sqlmock.NewRows([]string{"key", "body"}))

	docs, err := s.Load(context.Background(), "users")
	require.NoError(t, err)
	assert.NotNil(t, docs)
	assert.Empty(t, docs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveReplacesCollectionInTransaction(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`SELECT pg_advisory_xact_lock(hashtext($1))`)).
		WithArgs("answers").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM documents WHERE collection = $1`)).
		WithArgs("answers").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO documents (collection, key, body) VALUES ($1, $2, $3)`)).
		WithArgs("answers", "1:a@b.com", `{"answer":"x","question-id":1,"username":"a@b.com"}`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := s.Save(context.Background(), "answers", map[string]json.RawMessage{
		"1:a@b.com": json.RawMessage(`{"answer":"x","question-id":1,"username":"a@b.com"}`),
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveRollsBackOnInsertFailure(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`SELECT pg_advisory_xact_lock`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM documents`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO documents`)).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := s.Save(context.Background(), "users", map[string]json.RawMessage{
		"a@b.com": json.RawMessage(`{}`),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrate(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec(regexp.QuoteMeta(`CREATE TABLE IF NOT EXISTS documents`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, s.Migrate())
	assert.NoError(t, mock.ExpectationsWereMet())
}
