// Package httpserver provides the HTTPS static file server for tlsserve.
//
// This package serves a directory tree over TLS using stdlib net/http:
//
//   - server.go: TLS listener and http.Server lifecycle
//   - router.go: http.FileServer wired behind the middleware chain
//   - middleware.go: Logging, RequestID, AccessLog, Recover, AllowMethods
//
// Features:
//
//   - Credentials are supplied by the caller as a *tls.Config
//   - HTTP/1.1 only; the HTTP/2 upgrade path is disabled
//   - GET and HEAD only; other methods get 501 Not Implemented
//   - ULID request IDs propagated through the request context
package httpserver
