package domain

import "time"

// CacheBackend selects where aggregated results are cached.
type CacheBackend string

// Available cache backends.
const (
	// CacheBackendMemory is the in-process LRU-with-TTL cache.
	CacheBackendMemory CacheBackend = "memory"

	// CacheBackendRedis shares results across processes through Redis.
	CacheBackendRedis CacheBackend = "redis"
)

// IsValid returns true if the cache backend is recognised.
func (b CacheBackend) IsValid() bool {
	return b == CacheBackendMemory || b == CacheBackendRedis
}

// String returns the string representation.
func (b CacheBackend) String() string {
	return string(b)
}

// SearchSettings tunes the aggregator.
type SearchSettings struct {
	// SourceTimeout is the hard deadline for one adapter call, retry included.
	SourceTimeout time.Duration

	// RetryDelay is the wait before the single retry of a failed call.
	RetryDelay time.Duration

	// MaxResults bounds both the local store query and the merged output.
	MaxResults int
}

// CacheSettings configures the result cache.
type CacheSettings struct {
	// Backend selects memory or redis.
	Backend CacheBackend

	// Capacity is the maximum number of entries for the memory backend.
	Capacity int

	// TTL is how long a cached result stays fresh.
	TTL time.Duration

	// RedisAddr is the host:port of the redis server.
	RedisAddr string

	// RedisPassword is optional.
	RedisPassword string

	// RedisDB selects the redis logical database.
	RedisDB int
}

// SourceSettings controls which adapter set is wired.
type SourceSettings struct {
	// Mock swaps live providers for deterministic in-memory fixtures.
	Mock bool
}

// StorageSettings locates the Local Food Store.
type StorageSettings struct {
	// DataDir holds the SQLite database. Empty means ~/.nutrisearch/data.
	DataDir string
}

// AppSettings holds all application settings.
type AppSettings struct {
	Search  SearchSettings
	Cache   CacheSettings
	Sources SourceSettings
	Storage StorageSettings
}

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Search: SearchSettings{
			SourceTimeout: 3 * time.Second,
			RetryDelay:    100 * time.Millisecond,
			MaxResults:    25,
		},
		Cache: CacheSettings{
			Backend:  CacheBackendMemory,
			Capacity: 500,
			TTL:      30 * time.Minute,
		},
	}
}
