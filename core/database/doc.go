// Package database handles database connections for the node store.
//
// It wraps GORM to open either a MySQL server (production) or a local sqlite
// file (single-host and tests) based on the application's configuration.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
package database
