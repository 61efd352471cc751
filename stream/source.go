// Package stream classifies playback sources and loads adaptive manifests
// behind a small event contract: ready, error and destroy.
package stream

import (
	"net/url"
	"path"
	"strings"
)

// Kind is the loading strategy for a source.
type Kind int

const (
	Direct Kind = iota
	HLS
	DASH
)

func (k Kind) String() string {
	switch k {
	case HLS:
		return "hls"
	case DASH:
		return "dash"
	default:
		return "direct"
	}
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Adaptive reports whether the source needs a manifest loader.
func (k Kind) Adaptive() bool {
	return k != Direct
}

// Source is a classified playback URL.
type Source struct {
	URL  string
	Kind Kind
	// Proxied is set when the URL goes through a proxy that handles
	// upstream headers itself.
	Proxied bool
}

// proxyParams are the query parameters proxies use to carry the upstream URL.
var proxyParams = []string{"url", "src"}

// Classify decides how raw should be loaded. Unparseable URLs are treated as
// direct files and left to the media element to reject.
func Classify(raw string) Source {
	src := Source{URL: raw, Kind: Direct}

	u, err := url.Parse(raw)
	if err != nil {
		return src
	}

	if k := kindOf(u.Path); k != Direct {
		src.Kind = k
	}

	query := u.Query()
	for _, param := range proxyParams {
		inner := query.Get(param)
		if inner == "" {
			continue
		}
		if k := kindOfRaw(inner); k != Direct {
			src.Kind, src.Proxied = k, true
			return src
		}
	}

	if strings.Contains(strings.ToLower(u.Path), "/proxy/") {
		src.Proxied = true
		if src.Kind == Direct {
			src.Kind = HLS
		}
	}

	return src
}

func kindOfRaw(raw string) Kind {
	if u, err := url.Parse(raw); err == nil {
		return kindOf(u.Path)
	}
	return kindOf(raw)
}

func kindOf(p string) Kind {
	switch strings.ToLower(path.Ext(p)) {
	case ".m3u8":
		return HLS
	case ".mpd":
		return DASH
	default:
		return Direct
	}
}
