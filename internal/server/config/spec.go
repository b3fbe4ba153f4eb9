package config

import "github.com/rembus-io/tlsserve/internal/infra/keystore"

// ServerConfig is the root configuration for tlsserve.
type ServerConfig struct {
	Server ServerSection `koanf:"server"`
	TLS    TLSSection    `koanf:"tls"`
	Log    LogSection    `koanf:"log"`
}

// ServerSection configures the listener and the served tree.
type ServerSection struct {
	// Addr is the TCP listen address. An empty host binds all interfaces.
	Addr string `koanf:"addr"`

	// Root is the directory whose tree is served.
	Root string `koanf:"root"`
}

// TLSSection configures key material and client authentication.
type TLSSection struct {
	// Keystore is an explicit keystore directory. When empty the directory
	// is resolved from KEYSTORE and HOME.
	Keystore string `koanf:"keystore"`

	CertName string `koanf:"cert_name"`
	KeyName  string `koanf:"key_name"`

	// ServerName is the host name the certificate is expected to cover.
	ServerName string `koanf:"server_name"`

	// ClientCAFile enables mutual TLS when set. It may name a PEM file or a
	// directory of PEM files.
	ClientCAFile string `koanf:"client_ca_file"`

	// Reload re-reads the key pair when the files change on disk.
	Reload bool `koanf:"reload"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// KeystorePaths returns the certificate and key locations. The environment
// is consulted through lookup only when no explicit keystore is configured.
func (t TLSSection) KeystorePaths(lookup keystore.LookupFunc) keystore.Paths {
	dir := t.Keystore
	if dir == "" {
		dir = keystore.Resolve(lookup).Dir
	}
	return keystore.At(dir, t.CertName, t.KeyName)
}

// MutualTLS reports whether client certificates are required.
func (t TLSSection) MutualTLS() bool {
	return t.ClientCAFile != ""
}
