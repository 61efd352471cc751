package thumbnail

import (
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

const track = `WEBVTT

2
00:00:05.000 --> 00:00:10.000
sprite.jpg#xywh=160,0,160,90

1
00:00.000 --> 00:05.000 align:start
sprite.jpg#xywh=0,0,160,90

00:00:10.000 --> 00:00:15.000
no fragment here

00:00:15.000 --> 00:00:20.000
https://cdn.example.com/other.jpg#xywh=0,90,160,90
`

func TestParse(t *testing.T) {
	Convey("Given a thumbnail track", t, func() {
		cues, err := Parse(strings.NewReader(track), "https://media.example.com/show/thumbs.vtt")
		So(err, ShouldBeNil)

		Convey("Cues without a fragment are skipped and the rest are sorted", func() {
			So(cues, ShouldHaveLength, 3)
			So(cues[0].Start, ShouldEqual, 0)
			So(cues[1].Start, ShouldEqual, 5)
			So(cues[2].Start, ShouldEqual, 15)
		})

		Convey("Sprite references resolve against the track url", func() {
			So(cues[0].SpriteURL, ShouldEqual, "https://media.example.com/show/sprite.jpg")
			So(cues[2].SpriteURL, ShouldEqual, "https://cdn.example.com/other.jpg")
		})

		Convey("Coordinates are taken from the fragment", func() {
			So(cues[1].X, ShouldEqual, 160)
			So(cues[1].Width, ShouldEqual, 160)
			So(cues[1].Height, ShouldEqual, 90)
			So(cues[2].Y, ShouldEqual, 90)
		})
	})

	Convey("A document without the signature is rejected", t, func() {
		_, err := Parse(strings.NewReader("00:00.000 --> 00:05.000\na.jpg#xywh=0,0,1,1"), "https://x/")
		So(err, ShouldEqual, ErrNotWebVTT)
	})
}
