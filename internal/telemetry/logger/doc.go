// Package logger provides structured logging for tlsserve.
//
// This package wraps log/slog:
//
//   - logger.go: Logger interface, configuration and the process default
//   - context.go: Context-aware logging with request IDs
//   - redact.go: Redaction of private keys and secret-named attributes
//
// Features:
//
//   - JSON and text output formats
//   - Log level filtering
//   - Automatic redaction of PEM private keys
//   - Request ID propagation through context.Context
package logger
