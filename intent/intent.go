// Package intent unifies keyboard, gesture and remote-control input into a
// single set of control intents consumed by the session.
package intent

// Kind is a control action independent of its input source.
type Kind int

const (
	TogglePlay Kind = iota + 1
	Play
	Pause
	// SeekRelative moves by Value seconds, negative for backwards.
	SeekRelative
	// SeekFraction jumps to Value in [0,1] of the duration.
	SeekFraction
	// VolumeDelta changes volume by Value, a signed fraction.
	VolumeDelta
	// BrightnessDelta changes brightness by Value, a signed fraction.
	BrightnessDelta
	// RateDelta changes the playback rate by Value.
	RateDelta
	ToggleFullscreen
	// Skip skips whichever of intro or outro is currently offered.
	Skip
	SkipIntro
	SkipOutro
	CycleSubtitles
	SubtitlesOff
	ShowChrome
	Quit
)

var names = map[Kind]string{
	TogglePlay:       "toggle_play",
	Play:             "play",
	Pause:            "pause",
	SeekRelative:     "seek_relative",
	SeekFraction:     "seek_fraction",
	VolumeDelta:      "volume_delta",
	BrightnessDelta:  "brightness_delta",
	RateDelta:        "rate_delta",
	ToggleFullscreen: "toggle_fullscreen",
	Skip:             "skip",
	SkipIntro:        "skip_intro",
	SkipOutro:        "skip_outro",
	CycleSubtitles:   "cycle_subtitles",
	SubtitlesOff:     "subtitles_off",
	ShowChrome:       "show_chrome",
	Quit:             "quit",
}

func (k Kind) String() string {
	if n, ok := names[k]; ok {
		return n
	}
	return "unknown"
}

// Intent is a control action with its optional argument.
type Intent struct {
	Kind  Kind
	Value float64
}

// Of builds an argument-less intent.
func Of(k Kind) Intent {
	return Intent{Kind: k}
}

// With builds an intent carrying a value.
func With(k Kind, v float64) Intent {
	return Intent{Kind: k, Value: v}
}
