package cache

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *RedisStorage {
	t.Helper()
	url := os.Getenv("REDIS_TEST_URL")
	if url == "" {
		t.Skip("REDIS_TEST_URL not set")
	}
	s, err := NewRedisStorage(url, "eventy_test:")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.Reset()
		_ = s.Close()
	})
	return s
}

func TestRedisStorageRoundTrip(t *testing.T) {
	s := newTestStorage(t)

	val, err := s.Get("missing")
	require.NoError(t, err)
	assert.Nil(t, val)

	require.NoError(t, s.Set("hits", []byte("3"), time.Minute))
	val, err = s.Get("hits")
	require.NoError(t, err)
	assert.Equal(t, []byte("3"), val)

	require.NoError(t, s.Delete("hits"))
	val, err = s.Get("hits")
	require.NoError(t, err)
	assert.Nil(t, val)
}

func TestRedisStorageReset(t *testing.T) {
	s := newTestStorage(t)
	require.NoError(t, s.Set("a", []byte("1"), 0))
	require.NoError(t, s.Set("b", []byte("2"), 0))
	require.NoError(t, s.Reset())

	val, err := s.Get("a")
	require.NoError(t, err)
	assert.Nil(t, val)
}

func TestRedisStorageIgnoresEmptyKeys(t *testing.T) {
	s := &RedisStorage{prefix: "x:"}
	val, err := s.Get("")
	assert.NoError(t, err)
	assert.Nil(t, val)
	assert.NoError(t, s.Set("", []byte("v"), 0))
	assert.NoError(t, s.Delete(""))
}

func TestNewRedisStorageRejectsBadURL(t *testing.T) {
	_, err := NewRedisStorage("://nope", "x:")
	assert.Error(t, err)
}
