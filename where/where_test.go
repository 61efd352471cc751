package where

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/anisan-cli/playcore/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestWhere(t *testing.T) {
	Convey("Where", t, func() {
		Convey("Config honours the override variable", func() {
			custom := filepath.Join(os.TempDir(), "playcore-where-test")
			So(os.Setenv(EnvConfigPath, custom), ShouldBeNil)
			defer os.Unsetenv(EnvConfigPath)

			So(Config(), ShouldEqual, custom)
			So(History(), ShouldEqual, filepath.Join(custom, "history.json"))
			So(Logs(), ShouldEqual, filepath.Join(custom, "logs"))

			exists, err := filesystem.API().DirExists(Logs())
			So(err, ShouldBeNil)
			So(exists, ShouldBeTrue)
		})

		Convey("Thumbnails lives under the cache directory", func() {
			So(filepath.Dir(Thumbnails()), ShouldEqual, Cache())
		})
	})
}
