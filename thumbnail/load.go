package thumbnail

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/anisan-cli/playcore/constant"
	"github.com/anisan-cli/playcore/internal/cache"
	"github.com/anisan-cli/playcore/key"
	"github.com/anisan-cli/playcore/log"
	"github.com/anisan-cli/playcore/network"
	"github.com/anisan-cli/playcore/where"
	"github.com/spf13/viper"
)

// TTL bounds how long a parsed cue list is reused.
const TTL = 24 * time.Hour

// Load fetches and parses the thumbnail track at trackURL. Any failure
// degrades to an empty list: previews are optional.
func Load(ctx context.Context, trackURL string, headers map[string]string) []Cue {
	var store *cache.Cache
	if viper.GetBool(key.ThumbnailsCache) {
		store = cache.New(where.Thumbnails(), TTL)
	}

	cues, err := load(ctx, store, trackURL, headers)
	if err != nil {
		log.Warnf("thumbnails unavailable for %s: %v", trackURL, err)
		return nil
	}
	return cues
}

func load(ctx context.Context, store *cache.Cache, trackURL string, headers map[string]string) ([]Cue, error) {
	id := cache.Key(trackURL)

	if store != nil {
		var cached []Cue
		if store.Read(id, &cached) {
			log.Debugf("thumbnail cues for %s served from cache", trackURL)
			return cached, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, trackURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", constant.UserAgent)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := network.Stream().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	cues, err := Parse(resp.Body, trackURL)
	if err != nil {
		return nil, err
	}

	if store != nil && len(cues) > 0 {
		if err := store.Write(id, cues); err != nil {
			log.Warnf("caching thumbnail cues: %v", err)
		}
	}

	return cues, nil
}
