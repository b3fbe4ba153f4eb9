// Package tlstest generates throwaway certificates for tests.
package tlstest

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"net"
	"os"
	"testing"
	"time"
)

// Material is a certificate and its private key, both PEM encoded.
type Material struct {
	Cert    *x509.Certificate
	Key     *ecdsa.PrivateKey
	CertPEM []byte
	KeyPEM  []byte
}

// NewCA creates a self-signed certificate authority.
func NewCA(t testing.TB) *Material {
	t.Helper()

	template := baseTemplate(t, "Test CA")
	template.IsCA = true
	template.KeyUsage = x509.KeyUsageCertSign | x509.KeyUsageDigitalSignature

	return create(t, template, nil)
}

// ServerCert creates a self-signed server certificate valid for localhost
// and the loopback addresses.
func ServerCert(t testing.TB) *Material {
	t.Helper()
	return create(t, serverTemplate(t), nil)
}

// IssueServer creates a localhost server certificate signed by ca.
func (ca *Material) IssueServer(t testing.TB) *Material {
	t.Helper()
	return create(t, serverTemplate(t), ca)
}

// IssueClient creates a client certificate signed by ca.
func (ca *Material) IssueClient(t testing.TB, commonName string) *Material {
	t.Helper()

	template := baseTemplate(t, commonName)
	template.KeyUsage = x509.KeyUsageDigitalSignature
	template.ExtKeyUsage = []x509.ExtKeyUsage{x509.ExtKeyUsageClientAuth}

	return create(t, template, ca)
}

// WriteFiles writes the certificate and key PEM files.
func (m *Material) WriteFiles(t testing.TB, certFile, keyFile string) {
	t.Helper()

	if err := os.WriteFile(certFile, m.CertPEM, 0644); err != nil {
		t.Fatalf("WriteFile(cert) error = %v", err)
	}
	if err := os.WriteFile(keyFile, m.KeyPEM, 0600); err != nil {
		t.Fatalf("WriteFile(key) error = %v", err)
	}
}

// Pool returns a pool trusting only this certificate.
func (m *Material) Pool() *x509.CertPool {
	pool := x509.NewCertPool()
	pool.AddCert(m.Cert)
	return pool
}

// TLSCertificate returns the pair in crypto/tls form.
func (m *Material) TLSCertificate(t testing.TB) tls.Certificate {
	t.Helper()

	cert, err := tls.X509KeyPair(m.CertPEM, m.KeyPEM)
	if err != nil {
		t.Fatalf("X509KeyPair() error = %v", err)
	}
	return cert
}

func baseTemplate(t testing.TB, commonName string) *x509.Certificate {
	t.Helper()

	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 62))
	if err != nil {
		t.Fatalf("rand.Int() error = %v", err)
	}

	return &x509.Certificate{
		SerialNumber: serial,
		Subject: pkix.Name{
			Organization: []string{"Test Org"},
			CommonName:   commonName,
		},
		NotBefore:             time.Now().Add(-time.Minute),
		NotAfter:              time.Now().Add(24 * time.Hour),
		BasicConstraintsValid: true,
	}
}

func serverTemplate(t testing.TB) *x509.Certificate {
	t.Helper()

	template := baseTemplate(t, "localhost")
	template.KeyUsage = x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment
	template.ExtKeyUsage = []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth}
	template.DNSNames = []string{"localhost"}
	template.IPAddresses = []net.IP{net.IPv4(127, 0, 0, 1), net.IPv6loopback}
	return template
}

func create(t testing.TB, template *x509.Certificate, issuer *Material) *Material {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKey() error = %v", err)
	}

	parent, signer := template, key
	if issuer != nil {
		parent, signer = issuer.Cert, issuer.Key
	}

	der, err := x509.CreateCertificate(rand.Reader, template, parent, &key.PublicKey, signer)
	if err != nil {
		t.Fatalf("CreateCertificate() error = %v", err)
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		t.Fatalf("ParseCertificate() error = %v", err)
	}

	keyDER, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		t.Fatalf("MarshalECPrivateKey() error = %v", err)
	}

	return &Material{
		Cert:    cert,
		Key:     key,
		CertPEM: pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}),
		KeyPEM:  pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER}),
	}
}
