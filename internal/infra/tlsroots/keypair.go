package tlsroots

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"
	"time"
)

// ErrInvalidKeyPair is returned when the certificate or key cannot be parsed,
// or when the key does not match the certificate.
var ErrInvalidKeyPair = errors.New("tlsroots: invalid key pair")

// CertificateSource supplies the server certificate for each handshake.
type CertificateSource interface {
	GetCertificate(*tls.ClientHelloInfo) (*tls.Certificate, error)
}

// LoadKeyPair reads a PEM certificate chain and its private key.
//
// A missing file yields an error wrapping fs.ErrNotExist. Anything else that
// keeps the pair from loading wraps ErrInvalidKeyPair.
func LoadKeyPair(certFile, keyFile string) (*tls.Certificate, error) {
	for _, path := range []string{certFile, keyFile} {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("tlsroots: %w", err)
		}
	}

	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKeyPair, err)
	}

	if cert.Leaf == nil && len(cert.Certificate) > 0 {
		leaf, err := x509.ParseCertificate(cert.Certificate[0])
		if err != nil {
			return nil, fmt.Errorf("%w: parse leaf: %w", ErrInvalidKeyPair, err)
		}
		cert.Leaf = leaf
	}

	return &cert, nil
}

// StaticSource serves the same certificate for the life of the process.
type StaticSource struct {
	cert *tls.Certificate
}

// NewStaticSource loads the key pair once.
func NewStaticSource(certFile, keyFile string) (*StaticSource, error) {
	cert, err := LoadKeyPair(certFile, keyFile)
	if err != nil {
		return nil, err
	}
	return &StaticSource{cert: cert}, nil
}

// GetCertificate implements tls.Config.GetCertificate.
func (s *StaticSource) GetCertificate(*tls.ClientHelloInfo) (*tls.Certificate, error) {
	return s.cert, nil
}

// CertInfo summarizes a leaf certificate.
type CertInfo struct {
	Subject   string    `json:"subject"`
	Issuer    string    `json:"issuer"`
	DNSNames  []string  `json:"dns_names,omitempty"`
	NotBefore time.Time `json:"not_before"`
	NotAfter  time.Time `json:"not_after"`
	ChainLen  int       `json:"chain_len"`

	leaf *x509.Certificate
}

// Describe summarizes cert. The leaf must have been parsed.
func Describe(cert *tls.Certificate) CertInfo {
	if cert == nil || cert.Leaf == nil {
		return CertInfo{}
	}
	leaf := cert.Leaf
	return CertInfo{
		Subject:   leaf.Subject.String(),
		Issuer:    leaf.Issuer.String(),
		DNSNames:  leaf.DNSNames,
		NotBefore: leaf.NotBefore,
		NotAfter:  leaf.NotAfter,
		ChainLen:  len(cert.Certificate),
		leaf:      leaf,
	}
}

// Covers reports whether the certificate is valid for host name.
func (i CertInfo) Covers(name string) bool {
	if i.leaf == nil {
		return false
	}
	return i.leaf.VerifyHostname(name) == nil
}

// ValidAt reports whether t falls inside the validity window.
func (i CertInfo) ValidAt(t time.Time) bool {
	return !t.Before(i.NotBefore) && !t.After(i.NotAfter)
}
