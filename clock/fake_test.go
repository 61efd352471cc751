package clock

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestFake(t *testing.T) {
	Convey("Given a fake clock", t, func() {
		c := NewFake()
		start := c.Now()

		Convey("Timers fire in deadline order once due", func() {
			var fired []string
			c.AfterFunc(2*time.Second, func() { fired = append(fired, "b") })
			c.AfterFunc(time.Second, func() { fired = append(fired, "a") })

			c.Advance(500 * time.Millisecond)
			So(fired, ShouldBeEmpty)

			c.Advance(2 * time.Second)
			So(fired, ShouldResemble, []string{"a", "b"})
			So(c.Now(), ShouldEqual, start.Add(2500*time.Millisecond))
		})

		Convey("Stopped timers never fire", func() {
			fired := false
			timer := c.AfterFunc(time.Second, func() { fired = true })
			So(timer.Stop(), ShouldBeTrue)
			So(timer.Stop(), ShouldBeFalse)

			c.Advance(time.Minute)
			So(fired, ShouldBeFalse)
			So(c.Pending(), ShouldEqual, 0)
		})

		Convey("Callbacks may schedule further timers", func() {
			count := 0
			var tick func()
			tick = func() {
				count++
				if count < 3 {
					c.AfterFunc(time.Second, tick)
				}
			}
			c.AfterFunc(time.Second, tick)

			c.Advance(10 * time.Second)
			So(count, ShouldEqual, 3)
		})
	})
}
