package auth

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/zalando/go-keyring"
)

func init() {
	keyring.MockInit()
}

func TestHost(t *testing.T) {
	Convey("Host normalizes URLs and bare names", t, func() {
		h, err := Host("https://CDN.example.com:8443/ep/1.m3u8")
		So(err, ShouldBeNil)
		So(h, ShouldEqual, "cdn.example.com")

		h, err = Host("cdn.example.com")
		So(err, ShouldBeNil)
		So(h, ShouldEqual, "cdn.example.com")

		_, err = Host("https://")
		So(err, ShouldEqual, ErrNoHost)
	})
}

func TestTokens(t *testing.T) {
	Convey("Given a stored token", t, func() {
		So(SetToken("cdn.example.com", "secret"), ShouldBeNil)

		Convey("Requests to that host are decorated", func() {
			h := Decorate("https://cdn.example.com/master.m3u8", map[string]string{"Referer": "https://example.com"})
			So(h["Authorization"], ShouldEqual, "Bearer secret")
			So(h["Referer"], ShouldEqual, "https://example.com")
		})

		Convey("Explicit authorization wins", func() {
			in := map[string]string{"authorization": "Basic abc"}
			So(Decorate("https://cdn.example.com/x", in), ShouldResemble, in)
		})

		Convey("Other hosts are left alone", func() {
			So(Decorate("https://other.example.com/x", nil), ShouldBeNil)
		})

		Convey("Deleted tokens are gone", func() {
			So(DeleteToken("https://cdn.example.com"), ShouldBeNil)
			So(Token("https://cdn.example.com/x").IsPresent(), ShouldBeFalse)
		})
	})
}
