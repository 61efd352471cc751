// Package auth keeps per-host stream credentials in the system keyring.
package auth

import (
	"errors"
	"net/url"
	"strings"

	"github.com/anisan-cli/playcore/constant"
	"github.com/samber/mo"
	"github.com/zalando/go-keyring"
)

// service is the keyring namespace; entries are keyed by host.
const service = constant.Playcore + "-stream"

// ErrNoHost is returned for URLs without a host.
var ErrNoHost = errors.New("url has no host")

// Host normalizes a URL or bare host name to the keyring key.
func Host(raw string) (string, error) {
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Hostname() == "" {
		return "", ErrNoHost
	}
	return strings.ToLower(u.Hostname()), nil
}

// SetToken stores the bearer token sent to host.
func SetToken(host, token string) error {
	h, err := Host(host)
	if err != nil {
		return err
	}
	return keyring.Set(service, h, token)
}

// Token returns the token stored for the host of rawURL.
func Token(rawURL string) mo.Option[string] {
	h, err := Host(rawURL)
	if err != nil {
		return mo.None[string]()
	}
	token, err := keyring.Get(service, h)
	if err != nil || token == "" {
		return mo.None[string]()
	}
	return mo.Some(token)
}

// DeleteToken forgets the token of host.
func DeleteToken(host string) error {
	h, err := Host(host)
	if err != nil {
		return err
	}
	return keyring.Delete(service, h)
}

// Decorate adds an Authorization header for rawURL's host unless headers
// already carry one. headers is not modified.
func Decorate(rawURL string, headers map[string]string) map[string]string {
	for k := range headers {
		if strings.EqualFold(k, "Authorization") {
			return headers
		}
	}

	token, ok := Token(rawURL).Get()
	if !ok {
		return headers
	}

	out := make(map[string]string, len(headers)+1)
	for k, v := range headers {
		out[k] = v
	}
	out["Authorization"] = "Bearer " + token
	return out
}
