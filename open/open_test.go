package open

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCommand(t *testing.T) {
	Convey("Command picks the platform handler", t, func() {
		cmd, err := Command("linux", "https://cdn.example.com/sprite.jpg")
		So(err, ShouldBeNil)
		So(cmd.Args, ShouldResemble, []string{"xdg-open", "https://cdn.example.com/sprite.jpg"})

		cmd, err = Command("darwin", "a.jpg")
		So(err, ShouldBeNil)
		So(cmd.Args[0], ShouldEqual, "open")

		_, err = Command("plan9", "a.jpg")
		So(err, ShouldNotBeNil)
	})
}
