// Package logger builds the structured zap logger shared by every feature.
//
// # Configuration
//
//   - Level: debug, info, warn, error. "debug" switches to the development preset
//     (ISO8601 timestamps, caller info).
//   - Format: json (default) or console (coloured levels, no stack traces).
//
// # Request Correlation
//
// WithRayID and WithUser decorate a logger with the ray id assigned by the rayid
// middleware and the caller identity resolved by the auth middleware, so every
// line emitted while serving a request can be grouped together.
//
// # Usage
//
//	log, _ := logger.New(&cfg.Log)
//	log.Info("Server started")
//
//	// In a handler:
//	l := logger.WithRayID(log, c)
//	l.Warn("Checkout rejected", zap.Error(err))
package logger
