// Package server holds the HTTP server configuration.
//
// The Config struct defines the HTTP port and the API key protecting every
// route except the Swagger documentation. It is embedded in core/config and
// read by the serve command.
package server
