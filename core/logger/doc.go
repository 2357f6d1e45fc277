// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports different environments (development vs production)
// and an optional rotated log file backed by lumberjack.
//
// # Context Awareness
//
// The WithRayID helper extracts the RayID from a Fiber context and attaches it to the
// log entry, ensuring that all logs related to a specific request can be correlated.
//
// # Progress Reporting
//
// Reporter turns the long-running steps of a sync run (authentication, fetching,
// media downloads, node creation) into timed activities and counted progress entries.
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	rep := logger.NewReporter(log)
//	act := rep.Activity("Fetching CMS data")
//	defer act.End()
package logger
