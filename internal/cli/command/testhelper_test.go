package command

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/rembus-io/tlsserve/internal/infra/tlsroots/tlstest"
)

// syncBuffer is a bytes.Buffer safe for a writer goroutine and a polling reader.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// newTestApp returns App writing to out.
func newTestApp(out io.Writer) *cli.App {
	app := App()
	app.Writer = out
	app.ErrWriter = io.Discard
	return app
}

// run runs the app once with args (program name excluded).
func run(t *testing.T, out io.Writer, args ...string) error {
	t.Helper()
	return newTestApp(out).Run(append([]string{"tlsserve"}, args...))
}

// writeKeystore writes a fresh localhost key pair as rembus.crt/rembus.key
// into dir.
func writeKeystore(t *testing.T, dir string) *tlstest.Material {
	t.Helper()
	m := tlstest.ServerCert(t)
	writeMaterial(t, dir, m)
	return m
}

func writeMaterial(t *testing.T, dir string, m *tlstest.Material) {
	t.Helper()
	if err := os.MkdirAll(dir, 0700); err != nil {
		t.Fatal(err)
	}
	m.WriteFiles(t, filepath.Join(dir, "rembus.crt"), filepath.Join(dir, "rembus.key"))
}

// writeRoot creates a served directory holding name with content.
func writeRoot(t *testing.T, name string, content []byte) string {
	t.Helper()
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, name), content, 0644); err != nil {
		t.Fatal(err)
	}
	return root
}

// freeAddr returns a loopback address that was free a moment ago.
func freeAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()
	ln.Close()
	return addr
}

func httpsClient(roots *x509.CertPool, certs ...tls.Certificate) *http.Client {
	return &http.Client{
		Timeout: 5 * time.Second,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				RootCAs:      roots,
				ServerName:   "localhost",
				Certificates: certs,
			},
		},
	}
}

func get(t *testing.T, client *http.Client, url string) (int, []byte) {
	t.Helper()
	resp, err := client.Get(url)
	if err != nil {
		t.Fatalf("GET %s error = %v", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, body
}

var portPattern = regexp.MustCompile(`Serving HTTPS on port (\d+)\.\.\.`)

// running is a serve action started in the background.
type running struct {
	port   int
	out    *syncBuffer
	cancel context.CancelFunc
	done   chan error
	exited bool
}

// startServe runs the default action with args and waits for the startup
// line. The server is stopped when the test ends.
func startServe(t *testing.T, args ...string) *running {
	t.Helper()

	out := &syncBuffer{}
	ctx, cancel := context.WithCancel(context.Background())
	r := &running{out: out, cancel: cancel, done: make(chan error, 1)}

	app := newTestApp(out)
	go func() {
		r.done <- app.RunContext(ctx, append([]string{"tlsserve"}, args...))
	}()

	t.Cleanup(func() {
		if err := r.stop(); err != nil {
			t.Errorf("serve returned error after cancel: %v", err)
		}
	})

	deadline := time.After(10 * time.Second)
	for {
		if m := portPattern.FindStringSubmatch(out.String()); m != nil {
			r.port, _ = strconv.Atoi(m[1])
			return r
		}
		select {
		case err := <-r.done:
			r.exited = true
			t.Fatalf("serve exited early: %v\n%s", err, out.String())
		case <-deadline:
			t.Fatalf("server did not start:\n%s", out.String())
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func (r *running) url(path string) string {
	return "https://127.0.0.1:" + strconv.Itoa(r.port) + path
}

func (r *running) stop() error {
	if r.exited {
		return nil
	}
	r.exited = true
	r.cancel()

	select {
	case err := <-r.done:
		return err
	case <-time.After(10 * time.Second):
		return context.DeadlineExceeded
	}
}
