package media

// Config holds configuration for media resolution.
type Config struct {
	// Concurrency is the number of media resolutions in flight per content type.
	Concurrency int `mapstructure:"concurrency" default:"50"`
	// RateLimit caps downloads per second across all types. Zero disables it.
	RateLimit float64 `mapstructure:"rate_limit" default:"0"`
	// RateBurst is the burst allowed by RateLimit.
	RateBurst int `mapstructure:"rate_burst" default:"10"`
	// TimeoutSeconds bounds a single download.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"120"`
	// ObjectPrefix is the storage prefix downloaded files are written under.
	ObjectPrefix string `mapstructure:"object_prefix" default:"media"`
}
