package history

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/anisan-cli/playcore/filesystem"
	"github.com/anisan-cli/playcore/internal/retry"
	"github.com/anisan-cli/playcore/progress"
	. "github.com/smartystreets/goconvey/convey"
)

func checkpoint(id string, at, dur float64, saved time.Time) progress.Checkpoint {
	return progress.Checkpoint{EpisodeID: id, CurrentTime: at, Duration: dur, SavedAt: saved}
}

type failingBackend struct {
	err error
}

func (f failingBackend) Get() (map[string]Entry, bool, error) { return nil, false, f.err }
func (f failingBackend) Set(map[string]Entry) error           { return f.err }

func TestStore(t *testing.T) {
	Convey("Given a store on an in-memory filesystem", t, func() {
		filesystem.SetMemMapFs()
		s := NewStore("/config/history.json")
		now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

		Convey("An empty store has nothing to resume", func() {
			So(s.Resume("ep-1").IsPresent(), ShouldBeFalse)
			_, err := s.Get("ep-1")
			So(err, ShouldEqual, ErrNotFound)
		})

		Convey("A saved checkpoint is the resume position", func() {
			ok, err := s.Save(Entry{Checkpoint: checkpoint("ep-1", 300, 1400, now), Title: "Show - 1"})
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)

			pos, present := s.Resume("ep-1").Get()
			So(present, ShouldBeTrue)
			So(pos, ShouldEqual, 300)
		})

		Convey("Newer checkpoints overwrite and older ones are ignored", func() {
			_, _ = s.Save(Entry{Checkpoint: checkpoint("ep-1", 300, 1400, now), Title: "Show - 1"})
			_, _ = s.Save(Entry{Checkpoint: checkpoint("ep-1", 600, 1400, now.Add(time.Minute))})

			ok, err := s.Save(Entry{Checkpoint: checkpoint("ep-1", 100, 1400, now.Add(-time.Minute))})
			So(err, ShouldBeNil)
			So(ok, ShouldBeFalse)

			e, err := s.Get("ep-1")
			So(err, ShouldBeNil)
			So(e.CurrentTime, ShouldEqual, 600)
			So(e.Title, ShouldEqual, "Show - 1")
		})

		Convey("Finished episodes start over", func() {
			_, _ = s.Save(Entry{Checkpoint: checkpoint("ep-2", 1390, 1400, now)})
			So(s.Resume("ep-2").IsPresent(), ShouldBeFalse)
		})

		Convey("All lists entries newest first and Remove deletes them", func() {
			_, _ = s.Save(Entry{Checkpoint: checkpoint("old", 10, 100, now)})
			_, _ = s.Save(Entry{Checkpoint: checkpoint("new", 10, 100, now.Add(time.Hour))})

			all, err := s.All()
			So(err, ShouldBeNil)
			So(all, ShouldHaveLength, 2)
			So(all[0].EpisodeID, ShouldEqual, "new")

			So(s.Remove("old"), ShouldBeNil)
			So(s.Remove("old"), ShouldEqual, ErrNotFound)
			So(s.Clear(), ShouldBeNil)
			all, _ = s.All()
			So(all, ShouldBeEmpty)
		})
	})
}

func TestRecorder(t *testing.T) {
	Convey("Given a recorder", t, func() {
		filesystem.SetMemMapFs()
		now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		fast := retry.Policy{Attempts: 2, Base: time.Millisecond}

		Convey("Checkpoints land in the store with the session title", func() {
			s := NewStore("/config/history.json")
			r := NewRecorder(s, "Show - 3", "/config/failed.jsonl").WithPolicy(fast)

			So(r.SaveProgress(context.Background(), checkpoint("ep-3", 42, 1400, now)), ShouldBeNil)
			e, err := s.Get("ep-3")
			So(err, ShouldBeNil)
			So(e.Title, ShouldEqual, "Show - 3")
		})

		Convey("Exhausted writes are journaled and replayed later", func() {
			broken := &Store{backend: failingBackend{err: errors.New("disk full")}}
			r := NewRecorder(broken, "Show - 4", "/config/failed.jsonl").WithPolicy(fast)

			err := r.SaveProgress(context.Background(), checkpoint("ep-4", 99, 1400, now))
			So(errors.Is(err, retry.ErrExhausted), ShouldBeTrue)

			healthy := NewStore("/config/history.json")
			n, err := Replay(healthy, "/config/failed.jsonl")
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 1)

			e, err := healthy.Get("ep-4")
			So(err, ShouldBeNil)
			So(e.CurrentTime, ShouldEqual, 99)

			n, err = Replay(healthy, "/config/failed.jsonl")
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 0)
		})

		Convey("A missing journal replays nothing", func() {
			n, err := Replay(NewStore("/config/history.json"), "/nope.jsonl")
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 0)
		})
	})
}
