package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
)

// ErrInvalidConfig is wrapped by every verification failure.
var ErrInvalidConfig = errors.New("invalid configuration")

var (
	validLogLevels  = []string{"debug", "info", "warn", "warning", "error"}
	validLogFormats = []string{"json", "text", "console"}
)

// Verify validates the configuration. It does not touch key material;
// missing keystore files are reported when the credentials are loaded.
func Verify(cfg *ServerConfig) error {
	if err := verifyServer(&cfg.Server); err != nil {
		return err
	}
	if err := verifyTLS(&cfg.TLS); err != nil {
		return err
	}
	return verifyLog(&cfg.Log)
}

func verifyServer(cfg *ServerSection) error {
	_, port, err := net.SplitHostPort(cfg.Addr)
	if err != nil {
		return fmt.Errorf("%w: server.addr %q: %w", ErrInvalidConfig, cfg.Addr, err)
	}
	if n, err := strconv.Atoi(port); err != nil || n < 0 || n > 65535 {
		return fmt.Errorf("%w: server.addr %q: bad port", ErrInvalidConfig, cfg.Addr)
	}

	if cfg.Root == "" {
		return fmt.Errorf("%w: server.root is required", ErrInvalidConfig)
	}
	info, err := os.Stat(cfg.Root)
	if err != nil {
		return fmt.Errorf("%w: server.root: %w", ErrInvalidConfig, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: server.root %s is not a directory", ErrInvalidConfig, cfg.Root)
	}

	return nil
}

func verifyTLS(cfg *TLSSection) error {
	if cfg.CertName == "" {
		return fmt.Errorf("%w: tls.cert_name is required", ErrInvalidConfig)
	}
	if cfg.KeyName == "" {
		return fmt.Errorf("%w: tls.key_name is required", ErrInvalidConfig)
	}
	if cfg.ServerName == "" {
		return fmt.Errorf("%w: tls.server_name is required", ErrInvalidConfig)
	}
	return nil
}

func verifyLog(cfg *LogSection) error {
	if !oneOf(cfg.Level, validLogLevels) {
		return fmt.Errorf("%w: log.level %q (want one of %s)",
			ErrInvalidConfig, cfg.Level, strings.Join(validLogLevels, ", "))
	}
	if !oneOf(cfg.Format, validLogFormats) {
		return fmt.Errorf("%w: log.format %q (want one of %s)",
			ErrInvalidConfig, cfg.Format, strings.Join(validLogFormats, ", "))
	}
	return nil
}

func oneOf(v string, allowed []string) bool {
	v = strings.ToLower(v)
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
