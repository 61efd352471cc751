package prefetch

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/anisan-cli/playcore/clock"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPipeline(t *testing.T) {
	Convey("Given a pipeline", t, func() {
		var calls atomic.Int32
		release := make(chan struct{})
		clk := clock.NewFake()

		p := New(func(ctx context.Context, key string) (string, error) {
			calls.Add(1)
			if key == "bad" {
				return "", errors.New("boom")
			}
			if key == "slow" {
				select {
				case <-release:
				case <-ctx.Done():
					return "", ctx.Err()
				}
			}
			return "value:" + key, nil
		}, clk)
		defer p.Close()

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		Convey("A submitted key resolves to its value", func() {
			v, err := p.Submit("ep-1").Await(ctx).Get()
			So(err, ShouldBeNil)
			So(v, ShouldEqual, "value:ep-1")
		})

		Convey("Resubmitting the current key reuses its future", func() {
			f := p.Submit("ep-1")
			So(p.Submit("ep-1"), ShouldEqual, f)
			f.Await(ctx)
			So(calls.Load(), ShouldEqual, 1)
		})

		Convey("A new key cancels the stale one", func() {
			stale := p.Submit("slow")
			fresh := p.Submit("ep-2")

			_, err := stale.Await(ctx).Get()
			So(errors.Is(err, context.Canceled), ShouldBeTrue)

			v, err := fresh.Await(ctx).Get()
			So(err, ShouldBeNil)
			So(v, ShouldEqual, "value:ep-2")
		})

		Convey("Fetch errors surface in the result", func() {
			_, err := p.Submit("bad").Await(ctx).Get()
			So(err, ShouldNotBeNil)
		})

		Convey("SubmitAfter only starts the last key", func() {
			first := p.SubmitAfter("ep-1", 100*time.Millisecond)
			clk.Advance(50 * time.Millisecond)
			second := p.SubmitAfter("ep-2", 100*time.Millisecond)

			_, err := first.Await(ctx).Get()
			So(errors.Is(err, context.Canceled), ShouldBeTrue)

			clk.Advance(99 * time.Millisecond)
			So(p.Current().IsPresent(), ShouldBeFalse)

			clk.Advance(time.Millisecond)
			f, ok := p.Current().Get()
			So(ok, ShouldBeTrue)
			So(f.Key(), ShouldEqual, "ep-2")

			v, err := second.Await(ctx).Get()
			So(err, ShouldBeNil)
			So(v, ShouldEqual, "value:ep-2")
			So(calls.Load(), ShouldEqual, 1)
		})

		Convey("Close cancels a pending debounce", func() {
			f := p.SubmitAfter("ep-1", 100*time.Millisecond)
			p.Close()
			_, err := f.Await(ctx).Get()
			So(errors.Is(err, context.Canceled), ShouldBeTrue)

			clk.Advance(time.Second)
			So(calls.Load(), ShouldEqual, 0)
		})

		Convey("Cancel stops the live future but keeps the pipeline usable", func() {
			f := p.Submit("slow")
			p.Cancel()
			_, err := f.Await(ctx).Get()
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
			So(p.Current().IsPresent(), ShouldBeFalse)

			v, err := p.Submit("ep-1").Await(ctx).Get()
			So(err, ShouldBeNil)
			So(v, ShouldEqual, "value:ep-1")
		})

		Convey("Close cancels in-flight work and later submissions", func() {
			f := p.Submit("slow")
			p.Close()
			_, err := f.Await(ctx).Get()
			So(errors.Is(err, context.Canceled), ShouldBeTrue)

			_, err = p.Submit("ep-1").Await(ctx).Get()
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})
	})
}
