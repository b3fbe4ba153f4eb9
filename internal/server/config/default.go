package config

import "github.com/rembus-io/tlsserve/internal/infra/keystore"

// Default configuration values.
const (
	DefaultAddr       = ":8443"
	DefaultRoot       = "."
	DefaultServerName = "localhost"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			Addr: DefaultAddr,
			Root: DefaultRoot,
		},
		TLS: TLSSection{
			CertName:   keystore.CertName,
			KeyName:    keystore.KeyName,
			ServerName: DefaultServerName,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
