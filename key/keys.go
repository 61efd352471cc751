// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Media Playback - these keys select and tune the playback backend.
const (
	Player           = "player.default"
	PlayerVolume     = "player.volume"
	PlayerRate       = "player.rate"
	PlayerSeekStep   = "player.seek_step"
	PlayerVolumeStep = "player.volume_step"
)

// Skip Windows - these keys govern intro/outro skip affordances and the AniSkip integration.
const (
	SkipAuto = "skip.auto"
	Aniskip  = "skip.aniskip"
)

// Subtitles - these keys manage subtitle selection and caption placement.
const (
	SubtitlesPreferred = "subtitles.preferred"
	SubtitlesOffset    = "subtitles.offset"
)

// Chrome Visibility - these keys configure auto-hide of the control overlay.
const (
	ChromeHideDelay = "chrome.hide_delay_ms"
)

// Gestures - these keys define the thresholds of the pointer gesture interpreter.
const (
	GestureDoubleTapWindow = "gesture.double_tap_ms"
	GestureDoubleTapRadius = "gesture.double_tap_radius"
	GestureTapSlop         = "gesture.tap_slop"
)

// Screen - these keys configure fullscreen toggling and the wake lock.
const (
	ScreenFullscreenCooldown = "screen.fullscreen_cooldown_ms"
	ScreenWakeLock           = "screen.wake_lock"
)

// History Tracking - these keys configure the persistence of playback progress.
const (
	HistorySaveProgress   = "history.save_progress"
	HistoryIntervalSecs   = "history.interval_seconds"
	HistoryResumeOnStart  = "history.resume_on_start"
	HistorySuggestSources = "history.suggest_sources"
)

// Thumbnails - these keys manage scrubber preview cue caching.
const (
	ThumbnailsCache   = "thumbnails.cache"
	ThumbnailsDelayMs = "thumbnails.delay_ms"
)

// Networking - these keys shape requests made to stream hosts.
const (
	NetworkTLSFingerprint = "network.tls_fingerprint"
)

// Core Contracts - these keys toggle development-time contract enforcement.
const (
	CoreStrict = "core.strict"
)

// Metrics - these keys expose the Prometheus endpoint.
const (
	MetricsAddr = "metrics.addr"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the non-TUI application behavior.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
