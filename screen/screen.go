// Package screen normalizes fullscreen control across hosts and keeps the
// display awake while fullscreen playback is in progress.
package screen

import "errors"

// ErrUnsupported is returned when the host offers no fullscreen mechanism.
var ErrUnsupported = errors.New("fullscreen not supported by host")

// StandardFullscreen is the preferred fullscreen mechanism.
type StandardFullscreen interface {
	RequestFullscreen() error
	ExitFullscreen() error
	IsFullscreen() bool
}

// VendorFullscreen is a host-specific fullscreen mechanism tried when the
// standard one is missing or fails.
type VendorFullscreen interface {
	RequestVendorFullscreen() error
	ExitVendorFullscreen() error
	IsVendorFullscreen() bool
}

// ElementFullscreen fullscreens the video element alone. Last resort.
type ElementFullscreen interface {
	EnterElementFullscreen() error
	ExitElementFullscreen() error
	IsElementFullscreen() bool
}

// WakeLock keeps the display from sleeping. Acquire returns the function
// releasing the lock.
type WakeLock interface {
	Acquire(reason string) (release func() error, err error)
}

type strategy struct {
	name    string
	request func() error
	exit    func() error
	active  func() bool
}

// strategies lists the mechanisms host implements, in fallback order.
func strategies(host any) []strategy {
	var out []strategy
	if h, ok := host.(StandardFullscreen); ok {
		out = append(out, strategy{"standard", h.RequestFullscreen, h.ExitFullscreen, h.IsFullscreen})
	}
	if h, ok := host.(VendorFullscreen); ok {
		out = append(out, strategy{"vendor", h.RequestVendorFullscreen, h.ExitVendorFullscreen, h.IsVendorFullscreen})
	}
	if h, ok := host.(ElementFullscreen); ok {
		out = append(out, strategy{"element", h.EnterElementFullscreen, h.ExitElementFullscreen, h.IsElementFullscreen})
	}
	return out
}
