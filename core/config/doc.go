// Package config provides configuration management for cms-sync.
//
// It utilizes Viper for loading configuration from environment variables and
// an optional .env file. Defaults come from the `default` struct tags of each
// section.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key)
//   - Source: CMS URL, content types, login (SOURCE_API_URL, SOURCE_CONTENT_TYPES, ...)
//   - Media: download concurrency and throttling (MEDIA_CONCURRENCY, ...)
//   - Cache: media cache backend (CACHE_DRIVER=database|redis|memory)
//   - Database: node store connection (DATABASE_DRIVER=sqlite|mysql)
//   - Storage: S3/MinIO credentials and bucket for downloaded files
//   - Log: Logging level, format and optional rotated file
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Source.ApiURL)
package config
