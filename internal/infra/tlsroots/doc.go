// Package tlsroots provides TLS certificate management for tlsserve.
//
// This package turns keystore files into a server tls.Config:
//
//   - keypair.go: key pair loading with typed errors, certificate summaries
//   - roots.go: client CA pool for optional mutual TLS
//   - watcher.go: certificate hot-reload via fsnotify
//   - config.go: server tls.Config construction
//
// Server-only TLS is the default. Client certificates are requested and
// verified only when a client CA pool is supplied.
package tlsroots
