// Package track decides which text track is active. The element's own track
// list is the source of truth: the resolver proposes a desired index and a
// pure reconciliation pass turns it into mode changes.
package track

// Kind classifies a text track.
type Kind string

const (
	Subtitles  Kind = "subtitles"
	Captions   Kind = "captions"
	Thumbnails Kind = "thumbnails"
	Metadata   Kind = "metadata"
)

// Selectable reports whether tracks of this kind can be shown as captions.
func (k Kind) Selectable() bool {
	return k != Metadata && k != Thumbnails
}

// Descriptor is a caller-supplied track reference. It is never mutated.
type Descriptor struct {
	File     string `json:"file"`
	Label    string `json:"label"`
	Kind     Kind   `json:"kind"`
	Language string `json:"language,omitempty"`
	Default  bool   `json:"default,omitempty"`
}

// Mode is the display mode of a runtime text track.
type Mode int

const (
	Disabled Mode = iota
	Hidden
	Showing
)

func (m Mode) String() string {
	switch m {
	case Hidden:
		return "hidden"
	case Showing:
		return "showing"
	default:
		return "disabled"
	}
}

// Runtime is a text track as enumerated by the media element.
type Runtime struct {
	Label    string
	Language string
	Kind     Kind
	Mode     Mode
}

// SubtitleDescriptors returns the subtitle and caption descriptors of a track list.
func SubtitleDescriptors(tracks []Descriptor) []Descriptor {
	var out []Descriptor
	for _, t := range tracks {
		if t.Kind.Selectable() {
			out = append(out, t)
		}
	}
	return out
}

// Thumbnail returns the first thumbnails descriptor, if any.
func Thumbnail(tracks []Descriptor) (Descriptor, bool) {
	for _, t := range tracks {
		if t.Kind == Thumbnails {
			return t, true
		}
	}
	return Descriptor{}, false
}
