package cms

import "cms-sync/core/utils"

// Config holds configuration for the source CMS.
type Config struct {
	// ApiURL is the CMS base URL, without trailing slash.
	ApiURL string `mapstructure:"api_url" default:"http://localhost:1337"`
	// ContentTypes is a comma separated list of collection types, e.g. "article,category".
	ContentTypes string `mapstructure:"content_types" default:""`
	// SingleTypes is a comma separated list of single types, e.g. "homepage".
	SingleTypes string `mapstructure:"single_types" default:""`
	// QueryLimit is sent as _limit on collection requests.
	QueryLimit int `mapstructure:"query_limit" default:"100"`
	// Identifier is the login identifier. Anonymous access when empty.
	Identifier string `mapstructure:"identifier" default:""`
	// Password is the login password. Anonymous access when empty.
	Password string `mapstructure:"password" default:""`
	// Owner tags every node created by the sync.
	Owner string `mapstructure:"owner" default:"cms-sync"`
	// MaxRetries is the number of attempts for 5xx and 429 responses.
	MaxRetries int `mapstructure:"max_retries" default:"3"`
	// TimeoutSeconds bounds a single request.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"300"`
}

// CollectionTypes returns the configured collection types.
func (c Config) CollectionTypes() []string {
	return utils.SplitList(c.ContentTypes)
}

// Singles returns the configured single types.
func (c Config) Singles() []string {
	return utils.SplitList(c.SingleTypes)
}

// HasCredentials reports whether both login fields are set.
func (c Config) HasCredentials() bool {
	return c.Identifier != "" && c.Password != ""
}
