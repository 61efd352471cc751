package cache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/anisan-cli/playcore/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

type entry struct {
	Name  string
	Value int
}

func TestCache(t *testing.T) {
	Convey("Given a cache on an in-memory filesystem", t, func() {
		filesystem.SetMemMapFs()
		c := New("/cache", time.Hour)

		Convey("A written entry can be read back", func() {
			So(c.Write("k", entry{Name: "a", Value: 1}), ShouldBeNil)

			var got entry
			So(c.Read("k", &got), ShouldBeTrue)
			So(got, ShouldResemble, entry{Name: "a", Value: 1})
		})

		Convey("A missing entry is a miss", func() {
			var got entry
			So(c.Read("nope", &got), ShouldBeFalse)
		})

		Convey("An expired entry is a miss and gets pruned", func() {
			So(c.Write("old", entry{Name: "old"}), ShouldBeNil)
			stale := time.Now().Add(-2 * time.Hour)
			So(filesystem.API().Chtimes(filepath.Join("/cache", "old.json"), stale, stale), ShouldBeNil)

			var got entry
			So(c.Read("old", &got), ShouldBeFalse)
			So(c.Prune(), ShouldEqual, 1)
		})

		Convey("Keys are deterministic and case-insensitive", func() {
			So(Key("https://a/b.vtt"), ShouldEqual, Key("HTTPS://A/B.VTT"))
			So(Key("a", "b"), ShouldNotEqual, Key("ab"))
		})
	})
}
