package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/rembus-io/tlsserve/internal/infra/buildinfo"
	"github.com/rembus-io/tlsserve/internal/infra/confloader"
	"github.com/rembus-io/tlsserve/internal/server/config"
)

// Global flag names.
const (
	flagConfig      = "config"
	flagAddr        = "addr"
	flagRoot        = "root"
	flagKeystore    = "keystore"
	flagCertName    = "cert-name"
	flagKeyName     = "key-name"
	flagClientCA    = "client-ca"
	flagServerName  = "server-name"
	flagReloadCerts = "reload-certs"
	flagLogLevel    = "log-level"
	flagLogFormat   = "log-format"
)

// flagKeys maps each configuration flag to its dotted config key.
var flagKeys = []struct {
	flag string
	key  string
}{
	{flagAddr, "server.addr"},
	{flagRoot, "server.root"},
	{flagKeystore, "tls.keystore"},
	{flagCertName, "tls.cert_name"},
	{flagKeyName, "tls.key_name"},
	{flagClientCA, "tls.client_ca_file"},
	{flagServerName, "tls.server_name"},
	{flagReloadCerts, "tls.reload"},
	{flagLogLevel, "log.level"},
	{flagLogFormat, "log.format"},
}

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:      "tlsserve",
		Usage:     "serve the current directory over HTTPS",
		UsageText: "tlsserve [global options] [command]",
		Version:   buildinfo.String(),
		Flags:     globalFlags(),
		Action:    serveAction,
		Commands: []*cli.Command{
			CheckCommand(),
		},
	}
}

// globalFlags returns the global CLI flags. Defaults live in
// config.Default so that unset flags never mask the file or environment.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    flagConfig,
			Aliases: []string{"c"},
			Usage:   "Path to a YAML configuration file",
		},
		&cli.StringFlag{
			Name:  flagAddr,
			Usage: fmt.Sprintf("Listen address (default %q)", config.DefaultAddr),
		},
		&cli.StringFlag{
			Name:  flagRoot,
			Usage: "Directory to serve (default: working directory)",
		},
		&cli.StringFlag{
			Name:  flagKeystore,
			Usage: "Keystore directory (default: $KEYSTORE, else $HOME/.config/rembus/keystore)",
		},
		&cli.StringFlag{
			Name:  flagCertName,
			Usage: "Certificate file name inside the keystore (default \"rembus.crt\")",
		},
		&cli.StringFlag{
			Name:  flagKeyName,
			Usage: "Private key file name inside the keystore (default \"rembus.key\")",
		},
		&cli.StringFlag{
			Name:  flagClientCA,
			Usage: "PEM file or directory of client CAs; enables mutual TLS",
		},
		&cli.StringFlag{
			Name:  flagServerName,
			Usage: fmt.Sprintf("Host name the certificate must cover (default %q)", config.DefaultServerName),
		},
		&cli.BoolFlag{
			Name:  flagReloadCerts,
			Usage: "Reload the key pair when the keystore files change",
		},
		&cli.StringFlag{
			Name:  flagLogLevel,
			Usage: "Log level: debug, info, warn, error (default \"info\")",
		},
		&cli.StringFlag{
			Name:  flagLogFormat,
			Usage: "Log format: json, text (default \"json\"); the startup line is a log record in either",
		},
	}
}

// configOverrides collects the flags set on the command line as dotted
// config keys.
func configOverrides(c *cli.Context) map[string]any {
	overrides := make(map[string]any)
	for _, fk := range flagKeys {
		if c.IsSet(fk.flag) {
			overrides[fk.key] = c.Value(fk.flag)
		}
	}
	return overrides
}

// loadConfig builds and verifies the configuration for c.
func loadConfig(c *cli.Context) (*config.ServerConfig, error) {
	cfg := config.Default()

	opts := []confloader.Option{
		confloader.WithOverrides(configOverrides(c)),
	}
	if path := c.String(flagConfig); path != "" {
		opts = append(opts, confloader.WithConfigFile(path))
	}

	if err := confloader.NewLoader(opts...).Load(cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if err := config.Verify(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
