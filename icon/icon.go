// Package icon provides a flexible multi-variant rendering engine for UI symbols and feedback indicators.
//
// Icons can be displayed as emoji, nerd-font glyphs, plain ASCII, kaomoji,
// or Unicode squares depending on user preference.
package icon

import (
	"github.com/anisan-cli/playcore/key"
	"github.com/spf13/viper"
)

// Visual Variant Constants - these define the supported aesthetic styles for icon rendering.
const (
	emoji   = "emoji"
	nerd    = "nerd"
	plain   = "plain"
	kaomoji = "kaomoji"
	squares = "squares"
)

// AvailableVariants returns a slice of all registered icon style identifiers.
func AvailableVariants() []string {
	return []string{emoji, nerd, plain, kaomoji, squares}
}

// iconDef encapsulates the visual representations of a single UI symbol across all supported variants.
type iconDef struct {
	emoji   string
	nerd    string
	plain   string
	kaomoji string
	squares string
}

// Get retrieves the visual representation for the receiver Def based on the global icons variant configuration.
func (d *iconDef) Get() string {
	switch viper.GetString(key.IconsVariant) {
	case emoji:
		return d.emoji
	case nerd:
		return d.nerd
	case plain:
		return d.plain
	case kaomoji:
		return d.kaomoji
	case squares:
		return d.squares
	default:
		return ""
	}
}

// Icon identifies a registered UI symbol.
type Icon int

// Registered symbols.
const (
	Progress Icon = iota
	Success
	Fail
	Play
	Pause
	Skip
	Subtitles
	Fullscreen
	Buffering
)

var icons = map[Icon]*iconDef{
	Progress:   {emoji: "⏳", nerd: "\uf110", plain: "...", kaomoji: "(・_・ヾ", squares: "◫"},
	Success:    {emoji: "✅", nerd: "\uf00c", plain: "OK", kaomoji: "(ᵔ◡ᵔ)", squares: "▣"},
	Fail:       {emoji: "❌", nerd: "\uf00d", plain: "X", kaomoji: "(╥﹏╥)", squares: "▨"},
	Play:       {emoji: "▶️", nerd: "\uf04b", plain: ">", kaomoji: "(ﾉ◕ヮ◕)ﾉ", squares: "▶"},
	Pause:      {emoji: "⏸️", nerd: "\uf04c", plain: "||", kaomoji: "(￣o￣) zzZ", squares: "⏸"},
	Skip:       {emoji: "⏭️", nerd: "\uf051", plain: ">>", kaomoji: "ε=ε=┌( >_<)┘", squares: "⏭"},
	Subtitles:  {emoji: "💬", nerd: "\uf20a", plain: "CC", kaomoji: "(｀・ω・´)", squares: "▤"},
	Fullscreen: {emoji: "🖥️", nerd: "\uf065", plain: "[ ]", kaomoji: "(⌐■_■)", squares: "▢"},
	Buffering:  {emoji: "🌀", nerd: "\uf251", plain: "~", kaomoji: "(。_。)", squares: "◌"},
}

// Get returns the rendered string for a specified Icon identifier from the global registry.
func Get(i Icon) string {
	return icons[i].Get()
}
