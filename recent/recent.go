// Package recent remembers played sources and suggests them for completion.
package recent

import (
	"strings"
	"sync"
	"time"

	"github.com/anisan-cli/playcore/filesystem"
	"github.com/anisan-cli/playcore/key"
	"github.com/anisan-cli/playcore/where"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/metafates/gache"
	"github.com/samber/lo"
	"github.com/spf13/viper"
	"golang.org/x/exp/slices"
)

// Source is a remembered source URL.
type Source struct {
	URL      string    `json:"url"`
	Title    string    `json:"title"`
	Plays    int       `json:"plays"`
	LastPlay time.Time `json:"last_play"`
}

var (
	mu     sync.Mutex
	cacher = gache.New[map[string]*Source](
		&gache.Options{
			Path:       where.Recent(),
			FileSystem: &filesystem.GacheFs{},
		},
	)
)

// Remember records a play of rawURL.
func Remember(rawURL, title string) error {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil
	}

	mu.Lock()
	defer mu.Unlock()

	cached, expired, err := cacher.Get()
	if expired || err != nil || cached == nil {
		cached = make(map[string]*Source)
	}

	s, ok := cached[rawURL]
	if !ok {
		s = &Source{URL: rawURL}
		cached[rawURL] = s
	}
	s.Plays++
	s.LastPlay = time.Now()
	if title != "" {
		s.Title = title
	}

	return cacher.Set(cached)
}

// Suggest returns remembered sources whose URL or title fuzzily matches
// partial, most played first.
func Suggest(partial string) []Source {
	if !viper.GetBool(key.HistorySuggestSources) {
		return nil
	}

	mu.Lock()
	cached, _, err := cacher.Get()
	mu.Unlock()
	if err != nil || cached == nil {
		return nil
	}

	partial = strings.ToLower(strings.TrimSpace(partial))
	matches := lo.Filter(lo.Values(cached), func(s *Source, _ int) bool {
		return partial == "" ||
			fuzzy.Match(partial, strings.ToLower(s.URL)) ||
			fuzzy.Match(partial, strings.ToLower(s.Title))
	})

	slices.SortFunc(matches, func(a, b *Source) int {
		if a.Plays != b.Plays {
			return b.Plays - a.Plays
		}
		return b.LastPlay.Compare(a.LastPlay)
	})

	return lo.Map(matches, func(s *Source, _ int) Source { return *s })
}
