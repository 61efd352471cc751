package stream

import (
	"bufio"
	"errors"
	"fmt"
	"net/url"
	"sort"

	"github.com/anisan-cli/playcore/log"
	"github.com/grafov/m3u8"
)

// ErrEmptyManifest is returned for master playlists without variants.
var ErrEmptyManifest = errors.New("manifest has no variants")

func (l *base) loadHLS() (Manifest, error) {
	m := Manifest{URL: l.src.URL, Kind: HLS}

	playlist, listType, err := l.fetchPlaylist(l.src.URL)
	if err != nil {
		return m, err
	}

	switch listType {
	case m3u8.MEDIA:
		media := playlist.(*m3u8.MediaPlaylist)
		m.Duration, m.Live = mediaDuration(media), !media.Closed
		return m, nil
	case m3u8.MASTER:
	default:
		return m, fmt.Errorf("parse %s: unknown playlist type", l.src.URL)
	}

	master := playlist.(*m3u8.MasterPlaylist)
	for _, v := range master.Variants {
		if v == nil || v.URI == "" {
			continue
		}
		m.Variants = append(m.Variants, Variant{URI: v.URI, Bandwidth: v.Bandwidth, Resolution: v.Resolution})
	}
	if len(m.Variants) == 0 {
		return m, ErrEmptyManifest
	}

	sort.SliceStable(m.Variants, func(i, j int) bool {
		return m.Variants[i].Bandwidth > m.Variants[j].Bandwidth
	})

	// the best variant only refines duration; failing to read it is recoverable
	best, err := resolve(l.src.URL, m.Variants[0].URI)
	if err != nil {
		l.fail(fmt.Errorf("resolve variant: %w", err), false)
		return m, nil
	}

	playlist, listType, err = l.fetchPlaylist(best)
	if err != nil {
		if l.ctx.Err() != nil {
			return m, err
		}
		l.fail(fmt.Errorf("variant playlist: %w", err), false)
		return m, nil
	}
	if listType == m3u8.MEDIA {
		media := playlist.(*m3u8.MediaPlaylist)
		m.Duration, m.Live = mediaDuration(media), !media.Closed
	}

	return m, nil
}

func (l *base) fetchPlaylist(rawURL string) (m3u8.Playlist, m3u8.ListType, error) {
	resp, err := l.get(rawURL)
	if err != nil {
		return nil, 0, fmt.Errorf("fetch playlist: %w", err)
	}
	defer resp.Body.Close()

	playlist, listType, err := m3u8.DecodeFrom(bufio.NewReader(resp.Body), false)
	if err != nil {
		return nil, 0, fmt.Errorf("parse %s: %w", rawURL, err)
	}
	log.Debugf("parsed %s playlist %s", listTypeName(listType), rawURL)
	return playlist, listType, nil
}

func mediaDuration(p *m3u8.MediaPlaylist) float64 {
	var total float64
	for _, seg := range p.Segments {
		if seg != nil {
			total += seg.Duration
		}
	}
	return total
}

func resolve(base, ref string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	r, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	return b.ResolveReference(r).String(), nil
}

func listTypeName(t m3u8.ListType) string {
	if t == m3u8.MASTER {
		return "master"
	}
	return "media"
}
