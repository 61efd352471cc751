package ui

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestModel(t *testing.T) {
	Convey("Given a notifier", t, func() {
		var m Model

		Convey("It passes content through when idle", func() {
			So(m.View("a\nb"), ShouldEqual, "a\nb")
		})

		Convey("A notification is appended to the last line", func() {
			So(m.Update(NotifyMsg("saved")), ShouldNotBeNil)
			So(m.Current(), ShouldEqual, "saved")
			So(m.View("a\nb"), ShouldEqual, "a\nb  \033[90msaved\033[0m")
		})

		Convey("A stale clear does not hide a newer notification", func() {
			m.Update(NotifyMsg("first"))
			m.Update(NotifyMsg("second"))
			m.Update(clearMsg{seq: 1})
			So(m.Current(), ShouldEqual, "second")

			m.Update(clearMsg{seq: 2})
			So(m.Current(), ShouldBeEmpty)
		})
	})
}
