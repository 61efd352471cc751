package player

import (
	"encoding/json"

	"github.com/anisan-cli/playcore/track"
	"github.com/samber/lo"
)

// mpvTrack is an entry of mpv's track-list property.
type mpvTrack struct {
	ID       int    `json:"id"`
	Type     string `json:"type"`
	Title    string `json:"title"`
	Lang     string `json:"lang"`
	Selected bool   `json:"selected"`
	External bool   `json:"external"`
}

// parseTrackList keeps the subtitle entries of a track-list payload, in order.
func parseTrackList(data json.RawMessage) ([]mpvTrack, error) {
	var all []mpvTrack
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	return lo.Filter(all, func(t mpvTrack, _ int) bool {
		return t.Type == "sub"
	}), nil
}

// runtimeTracks converts mpv subtitle tracks to the element's text track list.
// mpv cannot keep a track loaded but hidden, so tracks are either showing or
// disabled.
func runtimeTracks(tracks []mpvTrack) []track.Runtime {
	return lo.Map(tracks, func(t mpvTrack, _ int) track.Runtime {
		mode := track.Disabled
		if t.Selected {
			mode = track.Showing
		}
		label := t.Title
		if label == "" {
			label = t.Lang
		}
		return track.Runtime{Label: label, Language: t.Lang, Kind: track.Subtitles, Mode: mode}
	})
}
