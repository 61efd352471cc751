package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/anisan-cli/playcore/filesystem"
	"github.com/anisan-cli/playcore/session"
	"github.com/anisan-cli/playcore/skip"
	"github.com/anisan-cli/playcore/track"
	"github.com/anisan-cli/playcore/util"
	"github.com/samber/mo"
)

// requestFile is the JSON form of a playback request accepted by --request.
type requestFile struct {
	EpisodeID     string             `json:"episode_id,omitempty" jsonschema:"description=Stable identifier of the episode. Progress is stored under it."`
	Title         string             `json:"title" jsonschema:"description=Display title of the session."`
	SourceURL     string             `json:"source_url" jsonschema:"description=Media URL. HLS and DASH manifests and direct files are accepted."`
	Headers       map[string]string  `json:"headers,omitempty" jsonschema:"description=Extra request headers for the stream host."`
	Tracks        []track.Descriptor `json:"tracks,omitempty" jsonschema:"description=Subtitle, caption and thumbnail tracks."`
	Intro         *skip.Window       `json:"intro,omitempty" jsonschema:"description=Intro window in seconds."`
	Outro         *skip.Window       `json:"outro,omitempty" jsonschema:"description=Outro window in seconds."`
	ResumeFrom    float64            `json:"resume_from,omitempty" jsonschema:"description=Position in seconds to start from."`
	CaptionOffset float64            `json:"caption_offset,omitempty" jsonschema:"description=Vertical caption offset."`
	MalID         int                `json:"mal_id,omitempty" jsonschema:"description=MyAnimeList id used to look up skip windows."`
	EpisodeNumber int                `json:"episode_number,omitempty" jsonschema:"description=Episode number used to look up skip windows."`
}

func optionalWindow(w *skip.Window) mo.Option[skip.Window] {
	if w == nil {
		return mo.None[skip.Window]()
	}
	return mo.Some(*w)
}

func (r requestFile) toRequest() session.Request {
	return session.Request{
		EpisodeID:     r.EpisodeID,
		Title:         r.Title,
		SourceURL:     r.SourceURL,
		Headers:       r.Headers,
		Tracks:        r.Tracks,
		Intro:         optionalWindow(r.Intro),
		Outro:         optionalWindow(r.Outro),
		ResumeFrom:    r.ResumeFrom,
		CaptionOffset: r.CaptionOffset,
		MalID:         r.MalID,
		EpisodeNumber: r.EpisodeNumber,
	}
}

// readRequest decodes a request file; "-" reads standard input.
func readRequest(path string) (requestFile, error) {
	var (
		r   io.Reader
		out requestFile
	)

	if path == "-" {
		r = os.Stdin
	} else {
		f, err := filesystem.API().Open(path)
		if err != nil {
			return out, err
		}
		defer util.Ignore(f.Close)
		r = f
	}

	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return out, fmt.Errorf("decode request: %w", err)
	}
	return out, nil
}

// parseWindow reads a window written as START-END, each side in seconds or
// [h:]mm:ss.
func parseWindow(s string) (skip.Window, error) {
	from, to, ok := strings.Cut(s, "-")
	if !ok {
		return skip.Window{}, fmt.Errorf("window %q: expected START-END", s)
	}

	start, err := parseTimestamp(from)
	if err != nil {
		return skip.Window{}, fmt.Errorf("window %q: %w", s, err)
	}
	end, err := parseTimestamp(to)
	if err != nil {
		return skip.Window{}, fmt.Errorf("window %q: %w", s, err)
	}

	w := skip.Window{Start: start, End: end}
	return w, w.Validate()
}

func parseTimestamp(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty timestamp")
	}

	var seconds float64
	for _, part := range strings.Split(s, ":") {
		v, err := strconv.ParseFloat(part, 64)
		if err != nil || v < 0 {
			return 0, fmt.Errorf("timestamp %q", s)
		}
		seconds = seconds*60 + v
	}
	return seconds, nil
}

// parseHeaders reads "Name: value" pairs.
func parseHeaders(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	headers := make(map[string]string, len(pairs))
	for _, p := range pairs {
		name, value, ok := strings.Cut(p, ":")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("header %q: expected Name: value", p)
		}
		headers[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}
	return headers, nil
}

// parseTrack reads a track flag written as URL or LABEL=URL, with an
// optional language after a comma: English,en=https://...
func parseTrack(s string, kind track.Kind) track.Descriptor {
	d := track.Descriptor{File: s, Kind: kind}

	// URLs contain "=" in their query, so only a prefix before "://" counts.
	scheme := strings.Index(s, "://")
	if eq := strings.Index(s, "="); eq > 0 && (scheme < 0 || eq < scheme) {
		d.File = s[eq+1:]
		label := s[:eq]
		if name, lang, ok := strings.Cut(label, ","); ok {
			d.Label, d.Language = name, lang
		} else {
			d.Label = label
		}
	}
	return d
}
