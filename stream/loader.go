package stream

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"

	"github.com/anisan-cli/playcore/constant"
	"github.com/anisan-cli/playcore/log"
	"github.com/anisan-cli/playcore/network"
)

// ErrUnexpectedStatus is wrapped by fetch errors for non-2xx responses.
var ErrUnexpectedStatus = errors.New("unexpected status")

// Variant is one rendition of an adaptive source.
type Variant struct {
	URI        string
	Bandwidth  uint32
	Resolution string
}

// Manifest describes a successfully parsed adaptive source.
type Manifest struct {
	URL      string
	Kind     Kind
	Variants []Variant
	// Duration is the summed segment duration of the selected media
	// playlist, zero when unknown.
	Duration float64
	Live     bool
}

// Events receives loader outcomes. Callbacks run on the loader's goroutine.
// None is delivered once Destroy has been called, except one already in
// progress; receivers still guard against stale sessions.
type Events struct {
	OnReady func(Manifest)
	OnError func(err error, fatal bool)
}

// HeaderHook decorates outgoing manifest requests. It is skipped for proxied
// sources. Errors are logged and the request proceeds undecorated.
type HeaderHook func(req *http.Request) error

// Headers returns a hook setting a fixed header set.
func Headers(h map[string]string) HeaderHook {
	return func(req *http.Request) error {
		for k, v := range h {
			req.Header.Set(k, v)
		}
		return nil
	}
}

// Loader is an attached stream loader.
type Loader interface {
	// Destroy aborts in-flight work. After it returns no further events
	// are delivered. Safe to call more than once.
	Destroy()
}

// Options configure Open.
type Options struct {
	Client *http.Client
	Hook   HeaderHook
}

// Open attaches the loader strategy matching src.
func Open(src Source, events Events, opts *Options) Loader {
	if opts == nil {
		opts = &Options{}
	}
	client := opts.Client
	if client == nil {
		client = network.Stream()
	}

	if !src.Kind.Adaptive() {
		return directLoader{}
	}

	l := newBase(src, events, client, opts.Hook)
	go l.run()
	return l
}

// directLoader is used for progressive files the element fetches itself.
type directLoader struct{}

func (directLoader) Destroy() {}

type base struct {
	src    Source
	client *http.Client
	hook   HeaderHook

	ctx    context.Context
	cancel context.CancelFunc

	destroyed atomic.Bool
	events    Events
}

func newBase(src Source, events Events, client *http.Client, hook HeaderHook) *base {
	ctx, cancel := context.WithCancel(context.Background())
	return &base{src: src, events: events, client: client, hook: hook, ctx: ctx, cancel: cancel}
}

func (l *base) Destroy() {
	l.destroyed.Store(true)
	l.cancel()
}

func (l *base) run() {
	var (
		m   Manifest
		err error
	)
	switch l.src.Kind {
	case HLS:
		m, err = l.loadHLS()
	case DASH:
		m, err = l.loadDASH()
	}

	if err != nil {
		l.fail(err, true)
		return
	}
	l.ready(m)
}

func (l *base) ready(m Manifest) {
	if l.destroyed.Load() || l.events.OnReady == nil {
		return
	}
	l.events.OnReady(m)
}

func (l *base) fail(err error, fatal bool) {
	if l.destroyed.Load() || l.events.OnError == nil {
		return
	}
	l.events.OnError(err, fatal)
}

func (l *base) get(rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(l.ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", constant.UserAgent)

	if l.hook != nil && !l.src.Proxied {
		if err := l.hook(req); err != nil {
			log.Warnf("header hook failed for %s: %v", rawURL, err)
		}
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, &StatusError{URL: rawURL, Code: resp.StatusCode}
	}
	return resp, nil
}
