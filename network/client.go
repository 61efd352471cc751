// Package network provides the pre-configured HTTP clients used for manifest, cue and metadata requests.
package network

import (
	"net/http"
	"time"

	"github.com/anisan-cli/playcore/key"
	"github.com/spf13/viper"
)

// Client is the singleton HTTP client shared across the application.
var Client = &http.Client{
	Timeout:   time.Minute,
	Transport: newTransport(),
}

// newTransport initializes a tuned http.Transport with pool and timeout parameters suited to segment-heavy hosts.
func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 100
	t.MaxIdleConnsPerHost = 100
	t.MaxConnsPerHost = 200
	t.IdleConnTimeout = 30 * time.Second
	t.ResponseHeaderTimeout = 30 * time.Second
	t.ExpectContinueTimeout = 30 * time.Second
	return t
}

// Stream returns the client used against stream hosts: the browser
// fingerprinted client when network.tls_fingerprint is set, Client otherwise.
func Stream() *http.Client {
	if viper.GetBool(key.NetworkTLSFingerprint) {
		return FingerprintClient()
	}
	return Client
}
