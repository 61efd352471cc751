package intent

import (
	"github.com/anisan-cli/playcore/key"
	bubblesKey "github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

// Keymap binds keyboard keys to intents. It implements help.KeyMap.
type Keymap struct {
	TogglePlay,
	SeekForward, SeekBackward,
	VolumeUp, VolumeDown,
	Faster, Slower,
	Fullscreen,
	Skip,
	CycleSubtitles, SubtitlesOff,
	Quit bubblesKey.Binding

	seekStep, volumeStep float64
}

// NewKeymap returns the default bindings with steps taken from config.
func NewKeymap() Keymap {
	seek := viper.GetFloat64(key.PlayerSeekStep)
	if seek <= 0 {
		seek = 10
	}
	volume := viper.GetFloat64(key.PlayerVolumeStep) / 100
	if volume <= 0 {
		volume = 0.05
	}

	return Keymap{
		TogglePlay: bubblesKey.NewBinding(
			bubblesKey.WithKeys(" ", "p"),
			bubblesKey.WithHelp("space", "play/pause"),
		),
		SeekForward: bubblesKey.NewBinding(
			bubblesKey.WithKeys("right", "l"),
			bubblesKey.WithHelp("→", "forward"),
		),
		SeekBackward: bubblesKey.NewBinding(
			bubblesKey.WithKeys("left", "h"),
			bubblesKey.WithHelp("←", "back"),
		),
		VolumeUp: bubblesKey.NewBinding(
			bubblesKey.WithKeys("up", "k", "+"),
			bubblesKey.WithHelp("↑", "volume up"),
		),
		VolumeDown: bubblesKey.NewBinding(
			bubblesKey.WithKeys("down", "j", "-"),
			bubblesKey.WithHelp("↓", "volume down"),
		),
		Faster: bubblesKey.NewBinding(
			bubblesKey.WithKeys("]"),
			bubblesKey.WithHelp("]", "faster"),
		),
		Slower: bubblesKey.NewBinding(
			bubblesKey.WithKeys("["),
			bubblesKey.WithHelp("[", "slower"),
		),
		Fullscreen: bubblesKey.NewBinding(
			bubblesKey.WithKeys("f"),
			bubblesKey.WithHelp("f", "fullscreen"),
		),
		Skip: bubblesKey.NewBinding(
			bubblesKey.WithKeys("s", "enter"),
			bubblesKey.WithHelp("s", "skip"),
		),
		CycleSubtitles: bubblesKey.NewBinding(
			bubblesKey.WithKeys("c"),
			bubblesKey.WithHelp("c", "subtitles"),
		),
		SubtitlesOff: bubblesKey.NewBinding(
			bubblesKey.WithKeys("C"),
			bubblesKey.WithHelp("C", "subtitles off"),
		),
		Quit: bubblesKey.NewBinding(
			bubblesKey.WithKeys("q", "ctrl+c", "ctrl+d"),
			bubblesKey.WithHelp("q", "quit"),
		),
		seekStep:   seek,
		volumeStep: volume,
	}
}

// Resolve maps a key press to an intent.
func (k Keymap) Resolve(msg tea.KeyMsg) mo.Option[Intent] {
	switch {
	case bubblesKey.Matches(msg, k.TogglePlay):
		return mo.Some(Of(TogglePlay))
	case bubblesKey.Matches(msg, k.SeekForward):
		return mo.Some(With(SeekRelative, k.seekStep))
	case bubblesKey.Matches(msg, k.SeekBackward):
		return mo.Some(With(SeekRelative, -k.seekStep))
	case bubblesKey.Matches(msg, k.VolumeUp):
		return mo.Some(With(VolumeDelta, k.volumeStep))
	case bubblesKey.Matches(msg, k.VolumeDown):
		return mo.Some(With(VolumeDelta, -k.volumeStep))
	case bubblesKey.Matches(msg, k.Faster):
		return mo.Some(With(RateDelta, 0.25))
	case bubblesKey.Matches(msg, k.Slower):
		return mo.Some(With(RateDelta, -0.25))
	case bubblesKey.Matches(msg, k.Fullscreen):
		return mo.Some(Of(ToggleFullscreen))
	case bubblesKey.Matches(msg, k.Skip):
		return mo.Some(Of(Skip))
	case bubblesKey.Matches(msg, k.CycleSubtitles):
		return mo.Some(Of(CycleSubtitles))
	case bubblesKey.Matches(msg, k.SubtitlesOff):
		return mo.Some(Of(SubtitlesOff))
	case bubblesKey.Matches(msg, k.Quit):
		return mo.Some(Of(Quit))
	}
	return mo.None[Intent]()
}

// ShortHelp implements help.KeyMap.
func (k Keymap) ShortHelp() []bubblesKey.Binding {
	return []bubblesKey.Binding{k.TogglePlay, k.SeekBackward, k.SeekForward, k.Skip, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k Keymap) FullHelp() [][]bubblesKey.Binding {
	return [][]bubblesKey.Binding{
		{k.TogglePlay, k.SeekBackward, k.SeekForward, k.Faster, k.Slower},
		{k.VolumeUp, k.VolumeDown, k.Fullscreen},
		{k.Skip, k.CycleSubtitles, k.SubtitlesOff, k.Quit},
	}
}
