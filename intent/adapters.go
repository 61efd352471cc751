package intent

import (
	"strings"

	"github.com/anisan-cli/playcore/gesture"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// FromGesture maps an interpreted gesture to an intent.
func FromGesture(ev gesture.Event) mo.Option[Intent] {
	signed := ev.Magnitude
	if ev.Direction == gesture.Down {
		signed = -signed
	}

	switch ev.Kind {
	case gesture.DoubleTapSeek:
		// The magnitude is unsigned; the left side seeks back.
		return mo.Some(With(SeekRelative, lo.Ternary(ev.Side == gesture.Left, -ev.Magnitude, ev.Magnitude)))
	case gesture.DragSeek:
		return mo.Some(With(SeekFraction, ev.Magnitude))
	case gesture.VolumeDrag:
		return mo.Some(With(VolumeDelta, signed))
	case gesture.BrightnessDrag:
		return mo.Some(With(BrightnessDelta, signed))
	case gesture.CenterTap:
		return mo.Some(Of(TogglePlay))
	}
	return mo.None[Intent]()
}

// Button is a media remote or hardware key name, as reported by the OS
// media session (e.g. "play_pause", "seek_forward").
type Button string

// remote maps remote buttons to intents. Seek buttons carry the step.
var remote = map[Button]Kind{
	"play":          Play,
	"pause":         Pause,
	"play_pause":    TogglePlay,
	"stop":          Quit,
	"seek_forward":  SeekRelative,
	"seek_backward": SeekRelative,
	"fast_forward":  SeekRelative,
	"rewind":        SeekRelative,
	"next_track":    Skip,
	"skip_ad":       Skip,
	"volume_up":     VolumeDelta,
	"volume_down":   VolumeDelta,
	"fullscreen":    ToggleFullscreen,
	"subtitle":      CycleSubtitles,
}

// FromRemote maps a remote-control button to an intent. Names are matched
// case-insensitively with dashes and spaces folded to underscores.
func FromRemote(button Button, seekStep, volumeStep float64) mo.Option[Intent] {
	name := Button(strings.NewReplacer("-", "_", " ", "_").Replace(strings.ToLower(string(button))))

	kind, ok := remote[name]
	if !ok {
		return mo.None[Intent]()
	}

	switch name {
	case "seek_forward", "fast_forward":
		return mo.Some(With(kind, seekStep))
	case "seek_backward", "rewind":
		return mo.Some(With(kind, -seekStep))
	case "volume_up":
		return mo.Some(With(kind, volumeStep))
	case "volume_down":
		return mo.Some(With(kind, -volumeStep))
	}
	return mo.Some(Of(kind))
}
