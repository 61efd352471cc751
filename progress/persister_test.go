package progress

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/anisan-cli/playcore/clock"
	. "github.com/smartystreets/goconvey/convey"
)

type recorder struct {
	mu    sync.Mutex
	saved []Checkpoint
	err   error
}

func (r *recorder) SaveProgress(_ context.Context, c Checkpoint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved = append(r.saved, c)
	return r.err
}

func (r *recorder) times() []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]float64, len(r.saved))
	for i, c := range r.saved {
		out[i] = c.CurrentTime
	}
	return out
}

func TestPersister(t *testing.T) {
	Convey("Given a persister on a fake clock", t, func() {
		clk := clock.NewFake()
		sink := &recorder{}
		p := New("ep-1", sink, &Options{Clock: clk})

		Convey("Nothing is written before metadata is reported", func() {
			p.OnTimeUpdate(5, 100)
			p.OnStateEvent(Play, 5, 100)
			p.Wait()
			So(sink.times(), ShouldBeEmpty)
		})

		Convey("Once metadata is seen", func() {
			p.OnStateEvent(LoadedMetadata, 0, 100)
			p.Wait()
			So(sink.times(), ShouldResemble, []float64{0})

			Convey("Periodic saves are spaced by the interval", func() {
				for i := 1; i <= 25; i++ {
					clk.Advance(time.Second)
					p.OnTimeUpdate(float64(i), 100)
				}
				p.Wait()
				So(sink.times(), ShouldResemble, []float64{0, 10, 20})
			})

			Convey("Key events save regardless of the interval", func() {
				clk.Advance(time.Second)
				p.OnStateEvent(Pause, 1, 100)
				clk.Advance(time.Second)
				p.OnStateEvent(Seeked, 50, 100)
				p.Wait()
				So(sink.times(), ShouldResemble, []float64{0, 1, 50})
			})

			Convey("Periodic saves of an unchanged position are deduped", func() {
				clk.Advance(11 * time.Second)
				p.OnTimeUpdate(0, 100)
				p.Wait()
				So(sink.times(), ShouldHaveLength, 1)
			})

			Convey("Unknown or invalid durations never write", func() {
				clk.Advance(time.Minute)
				p.OnTimeUpdate(30, 0)
				p.OnTimeUpdate(30, -1)
				p.OnStateEvent(Pause, 30, math.Inf(1))
				p.OnStateEvent(Pause, 30, math.NaN())
				p.Wait()
				So(sink.times(), ShouldHaveLength, 1)
			})

			Convey("Checkpoints carry the episode and the clock time", func() {
				c, ok := p.Last().Get()
				So(ok, ShouldBeTrue)
				So(c.EpisodeID, ShouldEqual, "ep-1")
				So(c.SavedAt, ShouldEqual, clk.Now())
			})

			Convey("Nothing is written after Close", func() {
				p.Close()
				p.OnStateEvent(Pause, 40, 100)
				p.Wait()
				So(sink.times(), ShouldHaveLength, 1)
			})
		})

		Convey("Sink failures are reported but not fatal", func() {
			sink.err = errors.New("offline")
			var results []error
			var mu sync.Mutex
			p := New("ep-2", sink, &Options{Clock: clk, OnResult: func(err error) {
				mu.Lock()
				results = append(results, err)
				mu.Unlock()
			}})

			p.OnStateEvent(LoadedMetadata, 0, 100)
			p.OnStateEvent(Pause, 3, 100)
			p.Wait()

			mu.Lock()
			defer mu.Unlock()
			So(results, ShouldHaveLength, 2)
			So(results[0], ShouldEqual, sink.err)
		})
	})

	Convey("Checkpoint percentages are clamped", t, func() {
		So(Checkpoint{CurrentTime: 50, Duration: 200}.Percentage(), ShouldEqual, 25)
		So(Checkpoint{CurrentTime: 500, Duration: 200}.Percentage(), ShouldEqual, 100)
		So(Checkpoint{CurrentTime: 5}.Percentage(), ShouldEqual, 0)
	})
}
