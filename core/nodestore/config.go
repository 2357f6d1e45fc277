package nodestore

// Config holds configuration for the media cache backend.
type Config struct {
	// CacheDriver selects the cache backend (database, redis, memory).
	CacheDriver string `mapstructure:"driver" default:"database"`
	// RedisAddr is the host:port of the redis server.
	RedisAddr string `mapstructure:"redis_addr" default:"localhost:6379"`
	// RedisPassword is the redis AUTH password.
	RedisPassword string `mapstructure:"redis_password" default:""`
	// RedisDB is the redis logical database.
	RedisDB int `mapstructure:"redis_db" default:"0"`
	// KeyPrefix namespaces cache keys in shared backends.
	KeyPrefix string `mapstructure:"key_prefix" default:"cms-sync:"`
}
