package redis

// Config holds Redis connection and retention settings.
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	PoolSize     int
	MinIdleConns int

	// MaxSessions caps the per-game session history list.
	MaxSessions int64
}

// DefaultConfig returns the settings used by `serve --redis`.
func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379",
		PoolSize:     10,
		MinIdleConns: 2,
		MaxSessions:  200,
	}
}
