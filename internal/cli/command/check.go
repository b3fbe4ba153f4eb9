package command

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/rembus-io/tlsserve/internal/cli/output"
)

// ErrCheckFailed is returned by check when the key pair loads but would not
// satisfy clients.
var ErrCheckFailed = errors.New("certificate check failed")

// CheckReport is what "tlsserve check" prints.
type CheckReport struct {
	CertFile         string    `json:"cert_file" yaml:"cert_file"`
	KeyFile          string    `json:"key_file" yaml:"key_file"`
	Subject          string    `json:"subject" yaml:"subject"`
	Issuer           string    `json:"issuer" yaml:"issuer"`
	DNSNames         []string  `json:"dns_names" yaml:"dns_names"`
	NotBefore        time.Time `json:"not_before" yaml:"not_before"`
	NotAfter         time.Time `json:"not_after" yaml:"not_after"`
	ChainLen         int       `json:"chain_len" yaml:"chain_len"`
	ServerName       string    `json:"server_name" yaml:"server_name"`
	CoversServerName bool      `json:"covers_server_name" yaml:"covers_server_name"`
	ValidNow         bool      `json:"valid_now" yaml:"valid_now"`
	MutualTLS        bool      `json:"mutual_tls" yaml:"mutual_tls"`
	ClientCAs        int       `json:"client_cas" yaml:"client_cas"`
}

// CheckCommand returns the "check" subcommand.
func CheckCommand() *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "load the key pair and report on it without listening",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output format: table, json, yaml",
				Value:   string(output.FormatTable),
			},
		},
		Action: checkAction,
	}
}

func checkAction(c *cli.Context) error {
	format, err := output.ParseFormat(c.String("output"))
	if err != nil {
		return err
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	creds, err := loadCredentials(cfg.TLS, os.LookupEnv, nil, false)
	if err != nil {
		return err
	}

	now := time.Now()
	report := buildReport(creds, cfg.TLS.ServerName, now)

	if err := output.NewFormatter(format).Format(c.App.Writer, report); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return report.verdict(now)
}

// verdict fails the check when clients asking for ServerName at now would
// reject the certificate.
func (r CheckReport) verdict(now time.Time) error {
	switch {
	case !r.CoversServerName:
		return fmt.Errorf("%w: certificate does not cover server name %q", ErrCheckFailed, r.ServerName)
	case !r.ValidNow:
		return fmt.Errorf("%w: certificate is not valid at %s", ErrCheckFailed, now.UTC().Format(output.TimeLayout))
	}
	return nil
}

func buildReport(creds *credentials, serverName string, now time.Time) CheckReport {
	info := creds.Info()

	report := CheckReport{
		CertFile:         creds.paths.CertFile,
		KeyFile:          creds.paths.KeyFile,
		Subject:          info.Subject,
		Issuer:           info.Issuer,
		DNSNames:         info.DNSNames,
		NotBefore:        info.NotBefore,
		NotAfter:         info.NotAfter,
		ChainLen:         info.ChainLen,
		ServerName:       serverName,
		CoversServerName: info.Covers(serverName),
		ValidNow:         info.ValidAt(now),
		MutualTLS:        creds.clientCAs != nil,
	}
	if creds.clientCAs != nil {
		report.ClientCAs = creds.clientCAs.Len()
	}

	return report
}
