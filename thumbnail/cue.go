// Package thumbnail parses scrubber preview cue lists and answers which
// sprite region to show for a given playback position.
package thumbnail

import (
	"sort"

	"github.com/samber/mo"
)

// Cue is one preview region valid during [Start, End).
type Cue struct {
	Start     float64 `json:"start"`
	End       float64 `json:"end"`
	SpriteURL string  `json:"sprite_url"`
	X         int     `json:"x"`
	Y         int     `json:"y"`
	Width     int     `json:"width"`
	Height    int     `json:"height"`
}

// Nearest returns the cue enclosing t. Cues must be sorted by Start.
// Positions before the first cue, at or after the last end, and in gaps
// between cues have no preview.
func Nearest(cues []Cue, t float64) mo.Option[Cue] {
	if len(cues) == 0 || t < cues[0].Start || t >= cues[len(cues)-1].End {
		return mo.None[Cue]()
	}

	// first cue starting after t, the candidate is the one before it
	i := sort.Search(len(cues), func(i int) bool {
		return cues[i].Start > t
	}) - 1
	if i < 0 {
		return mo.None[Cue]()
	}

	if c := cues[i]; t < c.End {
		return mo.Some(c)
	}
	return mo.None[Cue]()
}
