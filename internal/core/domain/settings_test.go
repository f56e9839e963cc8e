package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCacheBackend_IsValid(t *testing.T) {
	tests := []struct {
		backend CacheBackend
		want    bool
	}{
		{CacheBackendMemory, true},
		{CacheBackendRedis, true},
		{CacheBackend(""), false},
		{CacheBackend("memcached"), false},
	}

	for _, tt := range tests {
		t.Run(tt.backend.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.backend.IsValid())
		})
	}
}

// TestDefaultAppSettings tests the documented defaults
func TestDefaultAppSettings(t *testing.T) {
	s := DefaultAppSettings()

	assert.Equal(t, 3*time.Second, s.Search.SourceTimeout)
	assert.Equal(t, 100*time.Millisecond, s.Search.RetryDelay)
	assert.Equal(t, 25, s.Search.MaxResults)
	assert.Equal(t, CacheBackendMemory, s.Cache.Backend)
	assert.Equal(t, 500, s.Cache.Capacity)
	assert.Equal(t, 30*time.Minute, s.Cache.TTL)
	assert.False(t, s.Sources.Mock)
	assert.Empty(t, s.Storage.DataDir)
}
