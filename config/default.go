// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"text/template"

	"github.com/anisan-cli/playcore/color"
	"github.com/anisan-cli/playcore/constant"
	"github.com/anisan-cli/playcore/key"
	"github.com/anisan-cli/playcore/style"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Field represents a configuration field definition.
type Field struct {
	Key         string
	Value       any
	Description string
}

// Pretty returns a colored string representation of the field for display.
func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

// Env returns the environment variable name for this field.
func (f *Field) Env() string {
	env := strings.ToUpper(EnvKeyReplacer.Replace(f.Key))
	prefix := strings.ToUpper(constant.Playcore + "_")
	if strings.HasPrefix(env, prefix) {
		return env
	}
	return prefix + env
}

// MarshalJSON customizes JSON output to include current and default values.
func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string `json:"key"`
		Value       any    `json:"value"`
		Default     any    `json:"default"`
		Description string `json:"description"`
		Type        string `json:"type"`
	}{
		Key:         f.Key,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
		Type:        f.typeName(),
	})
}

// typeName returns the string representation of the field's underlying value type.
func (f *Field) typeName() string {
	switch f.Value.(type) {
	case string:
		return "string"
	case int:
		return "int"
	case float64:
		return "float"
	case bool:
		return "bool"
	case []string:
		return "[]string"
	case []int:
		return "[]int"
	default:
		return "unknown"
	}
}

// Default holds the map of all configuration fields.
var Default = make(map[string]Field)

// EnvExposed holds keys that are bound to environment variables.
var EnvExposed []string

func init() {
	register := func(k string, v any, desc string) {
		if _, exists := Default[k]; exists {
			panic("Duplicate config key: " + k)
		}
		f := Field{Key: k, Value: v, Description: desc}
		Default[k] = f
		EnvExposed = append(EnvExposed, k)
	}

	register(key.Player, "mpv", "Name or path of the mpv executable to drive")
	register(key.PlayerVolume, 100, "Initial volume in percent, from 0 to 100")
	register(key.PlayerRate, 1.0, "Initial playback rate")
	register(key.PlayerSeekStep, 10, "Seconds skipped by double-tap and arrow keys")
	register(key.PlayerVolumeStep, 5, "Volume step in percent for keyboard and remote input")
	register(key.SkipAuto, false, "Seek past intro and outro windows automatically instead of showing a skip button")
	register(key.Aniskip, true, "Fetch intro/outro windows from AniSkip when a MAL id is known and none were supplied")
	register(key.SubtitlesPreferred, "", "Preferred subtitle label, matched case-insensitively.\nFalls back to the default track, then English, then the first track")
	register(key.SubtitlesOffset, 0, "Vertical caption offset handed to the caption renderer")
	register(key.ChromeHideDelay, 3000, "Milliseconds of inactivity before the controls hide")
	register(key.GestureDoubleTapWindow, 300, "Maximum milliseconds between the two taps of a double-tap")
	register(key.GestureDoubleTapRadius, 40, "Maximum distance between the two taps of a double-tap")
	register(key.GestureTapSlop, 10, "Maximum pointer travel for a press to still count as a tap")
	register(key.ScreenFullscreenCooldown, 800, "Milliseconds during which repeated fullscreen toggles are ignored")
	register(key.ScreenWakeLock, true, "Keep the display awake while playing in fullscreen")
	register(key.HistorySaveProgress, true, "Persist playback progress to the localized watch history")
	register(key.HistoryIntervalSecs, 10, "Minimum seconds of playback between periodic progress saves")
	register(key.HistoryResumeOnStart, true, "Resume from the last saved position when no explicit resume time is given")
	register(key.HistorySuggestSources, true, "Suggest recently played sources in shell completion")
	register(key.ThumbnailsCache, true, "Cache parsed thumbnail cue lists on disk")
	register(key.ThumbnailsDelayMs, 250, "Milliseconds a session must stay current before its thumbnails are fetched")
	register(key.NetworkTLSFingerprint, false, "Use a browser TLS fingerprint for manifest and cue requests")
	register(key.CoreStrict, false, "Fail fast on contract violations such as invalid skip windows")
	register(key.MetricsAddr, "", "Address to serve Prometheus metrics on, e.g. :9090. Empty disables it")
	register(key.IconsVariant, "plain", "Icons variant.\nAvailable options are: emoji, kaomoji, plain, squares, nerd (nerd-font required)")
	register(key.LogsWrite, false, "Write logs")
	register(key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace")
	register(key.LogsJson, false, "Use json format for logs")
	register(key.CliColored, true, "Enable colored CLI output")
	register(key.CliVersionCheck, true, "Check for a newer release when printing help or version")
}

var prettyTemplate = lo.Must(template.New("pretty").Funcs(template.FuncMap{
	"faint":    style.Faint,
	"bold":     style.Bold,
	"purple":   style.Fg(color.Purple),
	"blue":     style.Fg(color.Blue),
	"cyan":     style.Fg(color.Cyan),
	"value":    func(k string) any { return viper.Get(k) },
	"typename": func(v any) string { return reflect.TypeOf(v).String() },
	"hl": func(v any) string {
		switch value := v.(type) {
		case bool:
			b := strconv.FormatBool(value)
			if value {
				return style.Fg(color.Green)(b)
			}
			return style.Fg(color.Red)(b)
		case string:
			return style.Fg(color.Yellow)(value)
		default:
			return fmt.Sprint(value)
		}
	},
}).Parse(`{{ faint .Description }}
{{ blue "Key:" }}     {{ purple .Key }}
{{ blue "Env:" }}     {{ .Env }}
{{ blue "Value:" }}   {{ hl (value .Key) }}
{{ blue "Default:" }} {{ hl (.Value) }}
{{ blue "Type:" }}    {{ typename .Value }}`))
