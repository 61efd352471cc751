package intent

import (
	"testing"

	"github.com/anisan-cli/playcore/gesture"
	tea "github.com/charmbracelet/bubbletea"
	. "github.com/smartystreets/goconvey/convey"
)

func TestKeymap(t *testing.T) {
	Convey("Given the default keymap", t, func() {
		k := NewKeymap()

		Convey("Space toggles playback", func() {
			in, ok := k.Resolve(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}).Get()
			So(ok, ShouldBeTrue)
			So(in.Kind, ShouldEqual, TogglePlay)
		})

		Convey("Arrows seek by the default step", func() {
			in, _ := k.Resolve(tea.KeyMsg{Type: tea.KeyLeft}).Get()
			So(in, ShouldResemble, With(SeekRelative, -10))
			in, _ = k.Resolve(tea.KeyMsg{Type: tea.KeyRight}).Get()
			So(in, ShouldResemble, With(SeekRelative, 10))
		})

		Convey("Unbound keys resolve to nothing", func() {
			So(k.Resolve(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'z'}}).IsPresent(), ShouldBeFalse)
		})

		Convey("Help lists every binding", func() {
			So(k.ShortHelp(), ShouldNotBeEmpty)
			var n int
			for _, col := range k.FullHelp() {
				n += len(col)
			}
			So(n, ShouldEqual, 12)
		})
	})
}

func TestFromGesture(t *testing.T) {
	Convey("FromGesture", t, func() {
		in, ok := FromGesture(gesture.Event{Kind: gesture.DoubleTapSeek, Side: gesture.Left, Magnitude: 10}).Get()
		So(ok, ShouldBeTrue)
		So(in, ShouldResemble, With(SeekRelative, -10))

		in, _ = FromGesture(gesture.Event{Kind: gesture.DoubleTapSeek, Side: gesture.Right, Magnitude: 10}).Get()
		So(in, ShouldResemble, With(SeekRelative, 10))

		in, _ = FromGesture(gesture.Event{Kind: gesture.VolumeDrag, Magnitude: 0.2, Direction: gesture.Down}).Get()
		So(in, ShouldResemble, With(VolumeDelta, -0.2))

		in, _ = FromGesture(gesture.Event{Kind: gesture.BrightnessDrag, Magnitude: 0.5, Direction: gesture.Up}).Get()
		So(in, ShouldResemble, With(BrightnessDelta, 0.5))

		in, _ = FromGesture(gesture.Event{Kind: gesture.DragSeek, Magnitude: 0.75}).Get()
		So(in, ShouldResemble, With(SeekFraction, 0.75))

		in, _ = FromGesture(gesture.Event{Kind: gesture.CenterTap}).Get()
		So(in.Kind, ShouldEqual, TogglePlay)

		So(FromGesture(gesture.Event{}).IsPresent(), ShouldBeFalse)
	})
}

func TestFromRemote(t *testing.T) {
	Convey("FromRemote", t, func() {
		in, ok := FromRemote("Play-Pause", 10, 0.1).Get()
		So(ok, ShouldBeTrue)
		So(in.Kind, ShouldEqual, TogglePlay)

		in, _ = FromRemote("rewind", 10, 0.1).Get()
		So(in, ShouldResemble, With(SeekRelative, -10))

		in, _ = FromRemote("volume up", 10, 0.1).Get()
		So(in, ShouldResemble, With(VolumeDelta, 0.1))

		So(FromRemote("eject", 10, 0.1).IsPresent(), ShouldBeFalse)
		So(Quit.String(), ShouldEqual, "quit")
	})
}
