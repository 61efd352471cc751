package stream

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

const master = `#EXTM3U
#EXT-X-STREAM-INF:BANDWIDTH=800000,RESOLUTION=640x360
low/index.m3u8
#EXT-X-STREAM-INF:BANDWIDTH=2400000,RESOLUTION=1280x720
high/index.m3u8
`

const media = `#EXTM3U
#EXT-X-VERSION:3
#EXT-X-TARGETDURATION:10
#EXT-X-MEDIA-SEQUENCE:0
#EXTINF:10.0,
seg0.ts
#EXTINF:10.0,
seg1.ts
#EXTINF:4.5,
seg2.ts
#EXT-X-ENDLIST
`

type outcome struct {
	manifest Manifest
	err      error
	fatal    bool
}

func collect() (Events, <-chan outcome) {
	ch := make(chan outcome, 4)
	return Events{
		OnReady: func(m Manifest) { ch <- outcome{manifest: m} },
		OnError: func(err error, fatal bool) { ch <- outcome{err: err, fatal: fatal} },
	}, ch
}

func TestHLSLoader(t *testing.T) {
	Convey("Given an HLS host", t, func() {
		var (
			mu      sync.Mutex
			referer []string
		)
		block := make(chan struct{})

		mux := http.NewServeMux()
		mux.HandleFunc("/master.m3u8", func(w http.ResponseWriter, r *http.Request) {
			mu.Lock()
			referer = append(referer, r.Header.Get("Referer"))
			mu.Unlock()
			fmt.Fprint(w, master)
		})
		mux.HandleFunc("/high/index.m3u8", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, media)
		})
		mux.HandleFunc("/broken.m3u8", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "gone", http.StatusGone)
		})
		mux.HandleFunc("/slow.m3u8", func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-block:
			case <-r.Context().Done():
			}
		})
		mux.HandleFunc("/proxy/master", func(w http.ResponseWriter, r *http.Request) {
			mu.Lock()
			referer = append(referer, r.Header.Get("Referer"))
			mu.Unlock()
			fmt.Fprint(w, media)
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()
		defer close(block)

		opts := &Options{
			Client: srv.Client(),
			Hook:   Headers(map[string]string{"Referer": "https://origin.example.com"}),
		}

		Convey("A master playlist resolves to its best variant", func() {
			events, ch := collect()
			l := Open(Classify(srv.URL+"/master.m3u8"), events, opts)
			defer l.Destroy()

			got := <-ch
			So(got.err, ShouldBeNil)
			So(got.manifest.Kind, ShouldEqual, HLS)
			So(got.manifest.Variants, ShouldHaveLength, 2)
			So(got.manifest.Variants[0].Bandwidth, ShouldEqual, 2400000)
			So(got.manifest.Duration, ShouldAlmostEqual, 24.5)
			So(got.manifest.Live, ShouldBeFalse)

			mu.Lock()
			defer mu.Unlock()
			So(referer, ShouldResemble, []string{"https://origin.example.com"})
		})

		Convey("Proxied sources skip the header hook", func() {
			events, ch := collect()
			l := Open(Classify(srv.URL+"/proxy/master"), events, opts)
			defer l.Destroy()

			got := <-ch
			So(got.err, ShouldBeNil)

			mu.Lock()
			defer mu.Unlock()
			So(referer, ShouldResemble, []string{""})
		})

		Convey("An error status is fatal", func() {
			events, ch := collect()
			l := Open(Classify(srv.URL+"/broken.m3u8"), events, opts)
			defer l.Destroy()

			got := <-ch
			So(got.fatal, ShouldBeTrue)
			So(errors.Is(got.err, ErrUnexpectedStatus), ShouldBeTrue)
		})

		Convey("Destroying while the manifest is in flight delivers nothing", func() {
			events, ch := collect()
			l := Open(Classify(srv.URL+"/slow.m3u8"), events, opts)
			time.Sleep(20 * time.Millisecond)
			l.Destroy()

			delivered := false
			select {
			case <-ch:
				delivered = true
			case <-time.After(200 * time.Millisecond):
			}
			So(delivered, ShouldBeFalse)
		})
	})

	Convey("Direct sources need no loader work", t, func() {
		events, ch := collect()
		l := Open(Classify("https://cdn.example.com/a.mp4"), events, nil)
		l.Destroy()
		l.Destroy()
		So(len(ch), ShouldEqual, 0)
	})
}

func TestISODuration(t *testing.T) {
	Convey("MPD durations parse", t, func() {
		d, err := parseISODuration("PT1H2M3.5S")
		So(err, ShouldBeNil)
		So(d, ShouldEqual, time.Hour+2*time.Minute+3500*time.Millisecond)

		d, err = parseISODuration("P1DT30S")
		So(err, ShouldBeNil)
		So(d, ShouldEqual, 24*time.Hour+30*time.Second)

		_, err = parseISODuration("1H")
		So(err, ShouldNotBeNil)
		_, err = parseISODuration("PT5")
		So(err, ShouldNotBeNil)
	})
}
