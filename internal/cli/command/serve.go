package command

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/rembus-io/tlsserve/internal/infra/keystore"
	"github.com/rembus-io/tlsserve/internal/infra/tlsroots"
	"github.com/rembus-io/tlsserve/internal/server/config"
	"github.com/rembus-io/tlsserve/internal/server/httpserver"
	"github.com/rembus-io/tlsserve/internal/telemetry/logger"
)

// stopTimeout bounds the shutdown that follows a cancelled context.
const stopTimeout = 5 * time.Second

// serveAction loads the key pair, binds and serves until the process ends
// or c.Context is cancelled. Credentials are loaded before the port is bound.
func serveAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	log, err := initLogger(cfg, c.App.Writer)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	slogger := logger.Slog(log)

	creds, err := loadCredentials(cfg.TLS, os.LookupEnv, slogger, cfg.TLS.Reload)
	if err != nil {
		return err
	}
	defer creds.Close()

	warnCertificate(log, creds.Info(), cfg.TLS.ServerName, time.Now())

	if err := creds.Watch(); err != nil {
		return fmt.Errorf("watch key pair: %w", err)
	}

	router := httpserver.NewRouter(&httpserver.RouterConfig{
		Root:   cfg.Server.Root,
		Logger: log,
	})
	srv := httpserver.New(cfg.Server.Addr, router, creds.TLSConfig(), httpserver.WithErrorLog(slogger))

	if err := srv.Listen(); err != nil {
		return err
	}

	log.Info(fmt.Sprintf("Serving HTTPS on port %d...", srv.Port()),
		"addr", srv.Addr().String(),
		"root", cfg.Server.Root,
		"mutual_tls", cfg.TLS.MutualTLS(),
	)

	return serve(c.Context, srv)
}

// serve blocks until srv fails or ctx is done.
func serve(ctx context.Context, srv *httpserver.Server) error {
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Serve()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errChan; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// initLogger creates the process logger writing to w and installs it as the
// default.
func initLogger(cfg *config.ServerConfig, w io.Writer) (logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: w,
	})
	if err != nil {
		return nil, err
	}

	logger.SetDefault(log)
	return log, nil
}

// warnCertificate flags a certificate that clients using serverName would
// reject.
func warnCertificate(log logger.Logger, info tlsroots.CertInfo, serverName string, now time.Time) {
	if !info.Covers(serverName) {
		log.Warn("certificate does not cover server name",
			"server_name", serverName,
			"subject", info.Subject,
			"dns_names", info.DNSNames,
		)
	}
	if !info.ValidAt(now) {
		log.Warn("certificate is outside its validity period",
			"not_before", info.NotBefore,
			"not_after", info.NotAfter,
		)
	}
}

// credentials is the loaded key material for one run.
type credentials struct {
	paths     keystore.Paths
	source    tlsroots.CertificateSource
	watcher   *tlsroots.Watcher
	clientCAs *tlsroots.Pool
}

// loadCredentials resolves the keystore and loads the key pair and, for
// mutual TLS, the client CA pool. With reload set the pair is served from a
// file watcher; Watch starts it.
func loadCredentials(tlsCfg config.TLSSection, lookup keystore.LookupFunc, log *slog.Logger, reload bool) (*credentials, error) {
	paths := tlsCfg.KeystorePaths(lookup)
	if err := paths.Check(); err != nil {
		return nil, fmt.Errorf("load key pair: %w", err)
	}

	creds := &credentials{paths: paths}

	if reload {
		w, err := tlsroots.NewWatcher(paths.CertFile, paths.KeyFile, tlsroots.WithLogger(log))
		if err != nil {
			return nil, fmt.Errorf("load key pair: %w", err)
		}
		creds.source = w
		creds.watcher = w
	} else {
		src, err := tlsroots.NewStaticSource(paths.CertFile, paths.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("load key pair: %w", err)
		}
		creds.source = src
	}

	if tlsCfg.MutualTLS() {
		pool, err := tlsroots.LoadPool(tlsCfg.ClientCAFile)
		if err != nil {
			return nil, fmt.Errorf("load client CAs: %w", err)
		}
		creds.clientCAs = pool
	}

	return creds, nil
}

// Info describes the certificate currently served.
func (c *credentials) Info() tlsroots.CertInfo {
	cert, _ := c.source.GetCertificate(nil)
	return tlsroots.Describe(cert)
}

// TLSConfig returns the server TLS configuration.
func (c *credentials) TLSConfig() *tls.Config {
	return tlsroots.ServerConfig(c.source, c.clientCAs)
}

// Watch starts the file watcher, if any, and returns once it is armed.
func (c *credentials) Watch() error {
	if c.watcher == nil {
		return nil
	}
	return c.watcher.StartAsync()
}

// Close stops the file watcher, if any.
func (c *credentials) Close() {
	if c.watcher != nil {
		c.watcher.Stop()
	}
}
