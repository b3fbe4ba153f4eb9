package tlsroots

import "crypto/tls"

// ServerConfig builds the server-side TLS configuration.
//
// With a nil clientCAs no client certificate is requested. Otherwise every
// client must present a certificate signed by one of the pool's CAs.
// Only HTTP/1.1 is offered during ALPN.
func ServerConfig(src CertificateSource, clientCAs *Pool) *tls.Config {
	cfg := &tls.Config{
		GetCertificate: src.GetCertificate,
		MinVersion:     tls.VersionTLS12,
		NextProtos:     []string{"http/1.1"},
		ClientAuth:     tls.NoClientCert,
	}

	if clientCAs != nil {
		cfg.ClientCAs = clientCAs.Pool()
		cfg.ClientAuth = tls.RequireAndVerifyClientCert
	}

	return cfg
}
