package network

import (
	"testing"

	"github.com/anisan-cli/playcore/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func TestStream(t *testing.T) {
	Convey("Stream", t, func() {
		Convey("Should use the shared client by default", func() {
			viper.Set(key.NetworkTLSFingerprint, false)
			So(Stream(), ShouldEqual, Client)
		})

		Convey("Should switch to the fingerprinted client when enabled", func() {
			viper.Set(key.NetworkTLSFingerprint, true)
			defer viper.Set(key.NetworkTLSFingerprint, false)
			So(Stream(), ShouldEqual, FingerprintClient())
			So(Stream(), ShouldNotEqual, Client)
		})
	})
}
