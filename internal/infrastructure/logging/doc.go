// Package logging provides structured logging for devicekeeper.
//
// It wraps log/slog so every component logs through the same handler with
// the same default fields (service, version).
//
// Logging is configured via the logging section of config.yaml:
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr, discard
//
// Usage:
//
//	logger := logging.New(cfg.Logging, version)
//	logger.Info("starting service", "port", 8080)
//	logger.Error("failed to open database", "error", err)
//
// Never log secrets, tokens or passwords.
package logging
