package command

import (
	"bytes"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/rembus-io/tlsserve/internal/cli/output"
	"github.com/rembus-io/tlsserve/internal/infra/tlsroots/tlstest"
	"github.com/rembus-io/tlsserve/internal/server/config"
)

func TestCheckCommand(t *testing.T) {
	cmd := CheckCommand()
	if cmd.Name != "check" {
		t.Errorf("Name = %q, want check", cmd.Name)
	}
	if cmd.Action == nil {
		t.Error("Action should not be nil")
	}
}

func TestCheck_Table(t *testing.T) {
	ks := t.TempDir()
	writeKeystore(t, ks)

	var out bytes.Buffer
	if err := run(t, &out, "--keystore", ks, "check"); err != nil {
		t.Fatalf("check error = %v\n%s", err, out.String())
	}

	for _, want := range []string{
		"cert_file",
		filepath.Join(ks, "rembus.crt"),
		"covers_server_name  yes",
		"valid_now           yes",
		"localhost",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestCheck_JSON(t *testing.T) {
	ks := t.TempDir()
	writeKeystore(t, ks)

	var out bytes.Buffer
	if err := run(t, &out, "--keystore", ks, "check", "--output", "json"); err != nil {
		t.Fatalf("check error = %v", err)
	}

	var report CheckReport
	if err := json.Unmarshal(out.Bytes(), &report); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}
	if report.KeyFile != filepath.Join(ks, "rembus.key") {
		t.Errorf("KeyFile = %q", report.KeyFile)
	}
	if report.ServerName != "localhost" || !report.CoversServerName {
		t.Errorf("server name coverage = %q %v", report.ServerName, report.CoversServerName)
	}
	if !report.ValidNow || report.ChainLen != 1 {
		t.Errorf("ValidNow = %v, ChainLen = %d", report.ValidNow, report.ChainLen)
	}
	if report.MutualTLS || report.ClientCAs != 0 {
		t.Errorf("mutual TLS reported without a client CA: %+v", report)
	}
}

func TestCheck_YAMLWithClientCA(t *testing.T) {
	ca := tlstest.NewCA(t)
	ks := t.TempDir()
	writeMaterial(t, ks, ca.IssueServer(t))

	caDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(caDir, "ca.pem"), ca.CertPEM, 0644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := run(t, &out, "--keystore", ks, "--client-ca", caDir, "check", "-o", "yaml"); err != nil {
		t.Fatalf("check error = %v", err)
	}

	var report map[string]any
	if err := yaml.Unmarshal(out.Bytes(), &report); err != nil {
		t.Fatalf("output is not YAML: %v\n%s", err, out.String())
	}
	if report["mutual_tls"] != true {
		t.Errorf("mutual_tls = %v", report["mutual_tls"])
	}
	if report["client_cas"] != 1 {
		t.Errorf("client_cas = %v, want 1", report["client_cas"])
	}
}

func TestCheck_ServerNameNotCovered(t *testing.T) {
	ks := t.TempDir()
	writeKeystore(t, ks)

	var out bytes.Buffer
	err := run(t, &out, "--keystore", ks, "--server-name", "other.example", "check")
	if !errors.Is(err, ErrCheckFailed) {
		t.Fatalf("error = %v, want ErrCheckFailed", err)
	}
	if !strings.Contains(out.String(), "covers_server_name  no") {
		t.Errorf("report should still be printed:\n%s", out.String())
	}
}

func TestCheck_MissingKeystore(t *testing.T) {
	var out bytes.Buffer
	err := run(t, &out, "--keystore", t.TempDir(), "check")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("error = %v, want fs.ErrNotExist", err)
	}
	if out.Len() != 0 {
		t.Errorf("nothing should be printed on failure:\n%s", out.String())
	}
}

func TestCheck_BadOutputFormat(t *testing.T) {
	ks := t.TempDir()
	writeKeystore(t, ks)

	if err := run(t, &bytes.Buffer{}, "--keystore", ks, "check", "--output", "xml"); err == nil {
		t.Fatal("expected an error for an unknown output format")
	}
}

func TestBuildReport_ExpiredAtGivenTime(t *testing.T) {
	ks := t.TempDir()
	m := writeKeystore(t, ks)

	tlsCfg := config.Default().TLS
	tlsCfg.Keystore = ks
	creds, err := loadCredentials(tlsCfg, os.LookupEnv, nil, false)
	if err != nil {
		t.Fatalf("loadCredentials() error = %v", err)
	}

	later := m.Cert.NotAfter.Add(time.Hour)
	report := buildReport(creds, "localhost", later)
	if report.ValidNow {
		t.Fatalf("ValidNow = true at %v, after NotAfter %v", later, m.Cert.NotAfter)
	}

	err = report.verdict(later)
	if !errors.Is(err, ErrCheckFailed) {
		t.Fatalf("verdict() error = %v, want ErrCheckFailed", err)
	}
	if want := later.UTC().Format(output.TimeLayout); !strings.Contains(err.Error(), want) {
		t.Errorf("verdict() error = %q, want it to name %q", err, want)
	}
}

func TestCheckReport_VerdictPasses(t *testing.T) {
	r := CheckReport{ServerName: "localhost", CoversServerName: true, ValidNow: true}
	if err := r.verdict(time.Now()); err != nil {
		t.Errorf("verdict() error = %v", err)
	}
}
