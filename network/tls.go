package network

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	utls "github.com/refraction-networking/utls"
	"golang.org/x/net/http2"
)

const dialTimeout = 30 * time.Second

// fingerprintTransport routes requests over connections presenting a Chrome
// ClientHello. The ALPN result decides between the HTTP/2 and HTTP/1.1
// transports, since a utls connection cannot be handed to net/http's own
// protocol negotiation.
type fingerprintTransport struct {
	h1 *http.Transport
	h2 *http2.Transport
}

var (
	fingerprinted     *http.Client
	fingerprintedOnce sync.Once
)

// FingerprintClient returns the shared client whose TLS handshakes mimic Chrome 120.
func FingerprintClient() *http.Client {
	fingerprintedOnce.Do(func() {
		fingerprinted = &http.Client{
			Timeout: time.Minute,
			Transport: &fingerprintTransport{
				h1: &http.Transport{
					DialTLSContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
						return dialTLS(ctx, network, addr, []string{"http/1.1"})
					},
				},
				h2: &http2.Transport{
					DialTLSContext: func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
						return dialTLS(ctx, network, addr, nil)
					},
				},
			},
		}
	})
	return fingerprinted
}

// RoundTrip tries HTTP/2 first and falls back to HTTP/1.1 when the server
// does not negotiate h2. Plain-http requests go straight to HTTP/1.1.
func (t *fingerprintTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.URL.Scheme != "https" {
		return t.h1.RoundTrip(req)
	}

	resp, err := t.h2.RoundTrip(req)
	if err == nil {
		return resp, nil
	}
	if req.Body != nil && req.GetBody == nil {
		return nil, err
	}

	retry := req.Clone(req.Context())
	if req.GetBody != nil {
		body, bodyErr := req.GetBody()
		if bodyErr != nil {
			return nil, errors.Join(err, bodyErr)
		}
		retry.Body = body
	}
	return t.h1.RoundTrip(retry)
}

// dialTLS creates a TLS connection mimicking Chrome 120's fingerprint.
// A nil protos keeps the fingerprint's own ALPN list (h2 and http/1.1).
func dialTLS(ctx context.Context, network, addr string, protos []string) (net.Conn, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}

	dialer := &net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}

	tlsConn := utls.UClient(conn, &utls.Config{
		ServerName: host,
		MinVersion: tls.VersionTLS12,
		NextProtos: protos,
	}, utls.HelloChrome_120)

	if err := tlsConn.Handshake(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("tls handshake: %w", err)
	}

	return tlsConn, nil
}
