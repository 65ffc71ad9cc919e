package server

import (
	"crypto/tls"
	"fmt"
)

// buildTLSConfig translates the configured TLS mode into a tls.Config.
// Returns nil when TLS is disabled. Certificates are loaded from the
// configured files by ListenAndServeTLS.
func (s *Server) buildTLSConfig() (*tls.Config, error) {
	switch s.TLSConfig.Mode {
	case "", "disabled":
		return nil, nil
	case "server":
		if s.TLSConfig.CertFile == "" || s.TLSConfig.KeyFile == "" {
			return nil, fmt.Errorf("TLS server mode requires certFile and keyFile")
		}

		minVersion, err := parseTLSMinVersion(s.TLSConfig.MinVersion)
		if err != nil {
			return nil, err
		}

		return &tls.Config{
			MinVersion: minVersion,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported TLS mode: %s", s.TLSConfig.Mode)
	}
}

// parseTLSMinVersion maps the configured version string to the tls constant
func parseTLSMinVersion(version string) (uint16, error) {
	switch version {
	case "", "1.2":
		return tls.VersionTLS12, nil
	case "1.3":
		return tls.VersionTLS13, nil
	default:
		return 0, fmt.Errorf("unsupported TLS minimum version: %s", version)
	}
}
