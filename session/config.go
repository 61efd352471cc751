package session

import (
	"time"

	"github.com/anisan-cli/playcore/gesture"
	"github.com/anisan-cli/playcore/key"
	"github.com/anisan-cli/playcore/util"
	"github.com/spf13/viper"
)

// Config holds the tunables of a controller.
type Config struct {
	// Strict turns contract violations into errors instead of no-ops.
	Strict bool
	// AutoSkip seeks past skip windows on entry.
	AutoSkip bool

	PreferredSubtitle  string
	ProgressInterval   time.Duration
	ChromeHideDelay    time.Duration
	FullscreenCooldown time.Duration
	// ThumbnailDelay holds back the thumbnail fetch so sessions replaced in
	// quick succession never fetch. Zero fetches at once.
	ThumbnailDelay time.Duration
	Gestures       gesture.Thresholds

	Volume float64
	Rate   float64
}

// DefaultConfig returns the built-in tunables.
func DefaultConfig() Config {
	return Config{
		ProgressInterval:   10 * time.Second,
		ChromeHideDelay:    3 * time.Second,
		FullscreenCooldown: 800 * time.Millisecond,
		Gestures:           gesture.DefaultThresholds(),
		Volume:             1,
		Rate:               1,
	}
}

// ConfigFromViper reads the tunables from the loaded configuration.
func ConfigFromViper() Config {
	c := DefaultConfig()
	c.Strict = viper.GetBool(key.CoreStrict)
	c.AutoSkip = viper.GetBool(key.SkipAuto)
	c.PreferredSubtitle = viper.GetString(key.SubtitlesPreferred)

	if s := viper.GetInt(key.HistoryIntervalSecs); s > 0 {
		c.ProgressInterval = time.Duration(s) * time.Second
	}
	if ms := viper.GetInt(key.ChromeHideDelay); ms > 0 {
		c.ChromeHideDelay = time.Duration(ms) * time.Millisecond
	}
	if ms := viper.GetInt(key.ScreenFullscreenCooldown); ms > 0 {
		c.FullscreenCooldown = time.Duration(ms) * time.Millisecond
	}
	if ms := viper.GetInt(key.ThumbnailsDelayMs); ms > 0 {
		c.ThumbnailDelay = time.Duration(ms) * time.Millisecond
	}
	c.Gestures = gesture.ThresholdsFromConfig()

	if viper.IsSet(key.PlayerVolume) {
		c.Volume = util.Clamp(viper.GetFloat64(key.PlayerVolume)/100, 0, 1)
	}
	if r := viper.GetFloat64(key.PlayerRate); r > 0 {
		c.Rate = util.Clamp(r, minRate, maxRate)
	}
	return c
}
