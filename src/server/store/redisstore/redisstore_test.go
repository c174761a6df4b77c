package redisstore

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/qa-forum/server/src/server/store/storetest"
)

func TestRedisStore(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}
	s, err := New(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	storetest.Run(t, s)
}

func TestNewRejectsBadURL(t *testing.T) {
	_, err := New(context.Background(), "not a url")
	require.Error(t, err)
}
