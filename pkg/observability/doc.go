// Package observability provides structured JSON logging for protolens.
//
// # Overview
//
// This package centralizes the logging infrastructure shared by the index,
// workspace scanner, and CLI. Loggers emit JSON records via log/slog and
// support field chaining for contextual attributes.
//
// # Structured Logging
//
// Create logger:
//
//	logger := observability.NewLogger(observability.InfoLevel, os.Stdout)
//	logger.Info("workspace scan started")
//
// Context-aware logging:
//
//	logger.WithField("uri", uri).WithError(err).Error("parse failed")
//
// Level names from configuration parse with ParseLogLevel:
//
//	logger := observability.NewLogger(observability.ParseLogLevel(cfg.LogLevel), os.Stdout)
//
// # Context Propagation
//
// Loggers travel on context.Context:
//
//	ctx = observability.WithLogger(ctx, logger)
//	observability.GetLogger(ctx).Debug("resolving imports")
//
// # Related Packages
//
//   - pkg/config: Logging configuration
//   - pkg/index: Index instrumentation
package observability
