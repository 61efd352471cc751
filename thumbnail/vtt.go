package thumbnail

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// ErrNotWebVTT is returned when the input lacks the WEBVTT signature.
var ErrNotWebVTT = errors.New("not a WebVTT document")

const fragment = "#xywh="

// Parse reads a WebVTT thumbnail track. Each cue payload must be a sprite
// reference carrying an xywh media fragment; sprite references are resolved
// against base. Cues without a usable payload are skipped. The result is
// sorted by Start.
func Parse(r io.Reader, base string) ([]Cue, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, err
		}
		return nil, ErrNotWebVTT
	}
	if !strings.HasPrefix(strings.TrimPrefix(scanner.Text(), "\ufeff"), "WEBVTT") {
		return nil, ErrNotWebVTT
	}

	var (
		cues    []Cue
		pending *Cue
	)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "":
			pending = nil
		case strings.Contains(line, "-->"):
			start, end, ok := parseTiming(line)
			if !ok {
				pending = nil
				continue
			}
			pending = &Cue{Start: start, End: end}
		case pending != nil:
			cue, ok := parsePayload(*pending, line, baseURL)
			if ok {
				cues = append(cues, cue)
			}
			pending = nil
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(cues, func(i, j int) bool {
		return cues[i].Start < cues[j].Start
	})

	return cues, nil
}

func parseTiming(line string) (start, end float64, ok bool) {
	from, to, found := strings.Cut(line, "-->")
	if !found {
		return 0, 0, false
	}

	// cue settings may follow the end timestamp
	fields := strings.Fields(to)
	if len(fields) == 0 {
		return 0, 0, false
	}

	start, err := parseTimestamp(strings.TrimSpace(from))
	if err != nil {
		return 0, 0, false
	}
	end, err = parseTimestamp(fields[0])
	if err != nil || end < start {
		return 0, 0, false
	}
	return start, end, true
}

// parseTimestamp accepts hh:mm:ss.ttt and mm:ss.ttt.
func parseTimestamp(s string) (float64, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("malformed timestamp %q", s)
	}

	var total float64
	for i, p := range parts {
		var (
			v   float64
			err error
		)
		if i == len(parts)-1 {
			v, err = strconv.ParseFloat(p, 64)
		} else {
			var n int
			n, err = strconv.Atoi(p)
			v = float64(n)
		}
		if err != nil || v < 0 {
			return 0, fmt.Errorf("malformed timestamp %q", s)
		}
		total = total*60 + v
	}
	return total, nil
}

func parsePayload(cue Cue, line string, base *url.URL) (Cue, bool) {
	idx := strings.LastIndex(line, fragment)
	if idx < 0 {
		return cue, false
	}

	coords := strings.Split(line[idx+len(fragment):], ",")
	if len(coords) != 4 {
		return cue, false
	}

	values := make([]int, 4)
	for i, c := range coords {
		n, err := strconv.Atoi(strings.TrimSpace(c))
		if err != nil || n < 0 {
			return cue, false
		}
		values[i] = n
	}

	ref, err := url.Parse(line[:idx])
	if err != nil {
		return cue, false
	}

	cue.SpriteURL = base.ResolveReference(ref).String()
	cue.X, cue.Y, cue.Width, cue.Height = values[0], values[1], values[2], values[3]
	return cue, true
}
