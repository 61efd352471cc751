package stream

import (
	"encoding/xml"
	"fmt"
	"io"
	"time"
)

type mpd struct {
	XMLName  xml.Name `xml:"MPD"`
	Type     string   `xml:"type,attr"`
	Duration string   `xml:"mediaPresentationDuration,attr"`
}

// loadDASH validates the MPD root and reads its presentation duration.
// Segment addressing is left to the media element.
func (l *base) loadDASH() (Manifest, error) {
	m := Manifest{URL: l.src.URL, Kind: DASH}

	resp, err := l.get(l.src.URL)
	if err != nil {
		return m, fmt.Errorf("fetch mpd: %w", err)
	}
	defer resp.Body.Close()

	var doc mpd
	if err := xml.NewDecoder(io.LimitReader(resp.Body, 8<<20)).Decode(&doc); err != nil {
		return m, fmt.Errorf("parse mpd: %w", err)
	}

	m.Live = doc.Type == "dynamic"
	if d, err := parseISODuration(doc.Duration); err == nil {
		m.Duration = d.Seconds()
	}
	return m, nil
}

// parseISODuration handles the PnDTnHnMnS subset used by MPDs.
func parseISODuration(s string) (time.Duration, error) {
	if len(s) < 2 || s[0] != 'P' {
		return 0, fmt.Errorf("invalid duration %q", s)
	}

	var (
		total  time.Duration
		num    float64
		frac   float64
		digits bool
		inTime bool
	)
	for _, c := range s[1:] {
		switch {
		case c == 'T':
			inTime = true
		case c >= '0' && c <= '9':
			if frac > 0 {
				num += float64(c-'0') * frac
				frac /= 10
			} else {
				num = num*10 + float64(c-'0')
			}
			digits = true
		case c == '.':
			frac = 0.1
		default:
			if !digits {
				return 0, fmt.Errorf("invalid duration %q", s)
			}
			var unit time.Duration
			switch {
			case c == 'D' && !inTime:
				unit = 24 * time.Hour
			case c == 'H' && inTime:
				unit = time.Hour
			case c == 'M' && inTime:
				unit = time.Minute
			case c == 'S' && inTime:
				unit = time.Second
			default:
				return 0, fmt.Errorf("invalid duration %q", s)
			}
			total += time.Duration(num * float64(unit))
			num, frac, digits = 0, 0, false
		}
	}
	if digits {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return total, nil
}
