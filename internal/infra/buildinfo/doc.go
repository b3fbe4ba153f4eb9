// Package buildinfo exposes build-time information injected via ldflags:
//
//   - Version: Semantic version (e.g., "v1.0.0")
//   - Commit: Git commit hash
//   - BuildTime: Build timestamp
//   - GoVersion: Go compiler version, filled from the binary when not injected
//
// Usage:
//
//	go build -ldflags "-X github.com/rembus-io/tlsserve/internal/infra/buildinfo.Version=v1.0.0" ./cmd/tlsserve
package buildinfo
