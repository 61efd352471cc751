package skip

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/anisan-cli/playcore/log"
	"github.com/anisan-cli/playcore/network"
	"github.com/samber/mo"
)

// AniskipURL is the AniSkip skip-times endpoint.
var AniskipURL = "https://api.aniskip.com/v1/skip-times"

// aniskipResponse defines the structural mapping for AniSkip API responses.
type aniskipResponse struct {
	Found   bool `json:"found"`
	Results []struct {
		Interval struct {
			StartTime float64 `json:"start_time"`
			EndTime   float64 `json:"end_time"`
		} `json:"interval"`
		SkipType string `json:"skip_type"`
	} `json:"results"`
}

// Fetch retrieves intro and outro windows for a MAL entry and episode number.
// Missing data and upstream unavailability both yield two empty options
// without an error; only malformed responses are reported.
func Fetch(ctx context.Context, malID, episode int) (intro, outro mo.Option[Window], err error) {
	intro, outro = mo.None[Window](), mo.None[Window]()

	url := fmt.Sprintf("%s/%d/%d?types=op&types=ed", AniskipURL, malID, episode)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return intro, outro, fmt.Errorf("build aniskip request: %w", err)
	}

	resp, err := network.Client.Do(req)
	if err != nil {
		log.Warnf("aniskip request failed: %v", err)
		return intro, outro, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Warnf("aniskip returned status %d", resp.StatusCode)
		return intro, outro, nil
	}

	var data aniskipResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return intro, outro, fmt.Errorf("parse aniskip response: %w", err)
	}

	if !data.Found {
		return intro, outro, nil
	}

	for _, result := range data.Results {
		w := Window{Start: result.Interval.StartTime, End: result.Interval.EndTime}
		switch result.SkipType {
		case "op":
			intro = mo.Some(w)
		case "ed":
			outro = mo.Some(w)
		}
	}

	return intro, outro, nil
}
