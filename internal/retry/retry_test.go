package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestDo(t *testing.T) {
	Convey("Given a fast policy", t, func() {
		p := Policy{Attempts: 3, Base: time.Millisecond, Max: 2 * time.Millisecond}
		failure := errors.New("flaky")

		Convey("A later success ends the loop", func() {
			var calls int
			err := Do(context.Background(), p, func(context.Context) error {
				calls++
				if calls < 2 {
					return failure
				}
				return nil
			})
			So(err, ShouldBeNil)
			So(calls, ShouldEqual, 2)
		})

		Convey("Exhaustion wraps the last error", func() {
			var calls int
			err := Do(context.Background(), p, func(context.Context) error {
				calls++
				return failure
			})
			So(calls, ShouldEqual, 3)
			So(errors.Is(err, ErrExhausted), ShouldBeTrue)
			So(errors.Is(err, failure), ShouldBeTrue)
		})

		Convey("Permanent errors stop immediately", func() {
			var calls int
			err := Do(context.Background(), p, func(context.Context) error {
				calls++
				return Permanent(failure)
			})
			So(calls, ShouldEqual, 1)
			So(err, ShouldEqual, failure)
		})

		Convey("A cancelled context stops between attempts", func() {
			ctx, cancel := context.WithCancel(context.Background())
			err := Do(ctx, Policy{Attempts: 5, Base: time.Hour}, func(context.Context) error {
				cancel()
				return failure
			})
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})
	})

	Convey("Delays grow and are capped", t, func() {
		p := Policy{Base: 100 * time.Millisecond, Max: 300 * time.Millisecond}
		So(p.Delay(0), ShouldEqual, 100*time.Millisecond)
		So(p.Delay(1), ShouldEqual, 200*time.Millisecond)
		So(p.Delay(5), ShouldEqual, 300*time.Millisecond)
	})
}
