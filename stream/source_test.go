package stream

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestClassify(t *testing.T) {
	Convey("Classify", t, func() {
		Convey("Manifest extensions are adaptive", func() {
			So(Classify("https://cdn.example.com/ep1/master.m3u8").Kind, ShouldEqual, HLS)
			So(Classify("https://cdn.example.com/ep1/INDEX.M3U8?token=abc").Kind, ShouldEqual, HLS)
			So(Classify("https://cdn.example.com/ep1/stream.mpd").Kind, ShouldEqual, DASH)
		})

		Convey("Progressive files are direct", func() {
			src := Classify("https://cdn.example.com/ep1/video.mp4")
			So(src.Kind, ShouldEqual, Direct)
			So(src.Proxied, ShouldBeFalse)
			So(src.Kind.Adaptive(), ShouldBeFalse)
		})

		Convey("Proxy query parameters wrapping a manifest are adaptive and proxied", func() {
			src := Classify("https://proxy.example.com/fetch?url=https%3A%2F%2Fcdn.example.com%2Fa.m3u8")
			So(src.Kind, ShouldEqual, HLS)
			So(src.Proxied, ShouldBeTrue)

			src = Classify("https://proxy.example.com/fetch?src=https://cdn.example.com/a.mpd")
			So(src.Kind, ShouldEqual, DASH)
			So(src.Proxied, ShouldBeTrue)
		})

		Convey("A proxy parameter wrapping a file stays direct", func() {
			src := Classify("https://proxy.example.com/fetch?url=https://cdn.example.com/a.mp4")
			So(src.Kind, ShouldEqual, Direct)
			So(src.Proxied, ShouldBeFalse)
		})

		Convey("Proxy paths are adaptive", func() {
			src := Classify("https://example.com/proxy/aHR0cHM6Ly9jZG4")
			So(src.Kind, ShouldEqual, HLS)
			So(src.Proxied, ShouldBeTrue)
		})

		Convey("Garbage is direct", func() {
			So(Classify("::not a url").Kind, ShouldEqual, Direct)
		})
	})
}
