package track

import (
	"strings"

	"github.com/samber/lo"
	"github.com/samber/mo"
)

// ResolveDefault picks the runtime track that should be active when the user
// has not chosen one. In order: the preferred label (or the caller's default
// descriptor) by label then language, an English track, the first selectable
// track, none. It is a pure function of its inputs.
func ResolveDefault(tracks []Descriptor, runtime []Runtime, preferredLabel string) mo.Option[int] {
	for _, target := range preferredTargets(tracks, preferredLabel) {
		if i, ok := matchLabel(runtime, target.Label); ok {
			return mo.Some(i)
		}
		if i, ok := matchLanguage(runtime, target.Language); ok {
			return mo.Some(i)
		}
	}

	if i, ok := findEnglish(runtime); ok {
		return mo.Some(i)
	}

	for i, rt := range runtime {
		if rt.Kind.Selectable() {
			return mo.Some(i)
		}
	}

	return mo.None[int]()
}

// preferredTargets lists the descriptors to look for, the preferred label
// first and the caller's default after it.
func preferredTargets(tracks []Descriptor, preferredLabel string) []Descriptor {
	var targets []Descriptor

	if preferredLabel != "" {
		d, ok := lo.Find(tracks, func(d Descriptor) bool {
			return d.Kind.Selectable() && strings.EqualFold(d.Label, preferredLabel)
		})
		targets = append(targets, lo.Ternary(ok, d, Descriptor{Label: preferredLabel}))
	}

	if d, ok := lo.Find(tracks, func(d Descriptor) bool {
		return d.Default && d.Kind.Selectable()
	}); ok {
		targets = append(targets, d)
	}
	return targets
}

func matchLabel(runtime []Runtime, label string) (int, bool) {
	if label == "" {
		return -1, false
	}
	_, i, ok := lo.FindIndexOf(runtime, func(rt Runtime) bool {
		return rt.Kind.Selectable() && strings.EqualFold(strings.TrimSpace(rt.Label), strings.TrimSpace(label))
	})
	return i, ok
}

func matchLanguage(runtime []Runtime, lang string) (int, bool) {
	if lang == "" {
		return -1, false
	}
	_, i, ok := lo.FindIndexOf(runtime, func(rt Runtime) bool {
		return rt.Kind.Selectable() && strings.EqualFold(rt.Language, lang)
	})
	return i, ok
}

func findEnglish(runtime []Runtime) (int, bool) {
	_, i, ok := lo.FindIndexOf(runtime, func(rt Runtime) bool {
		return rt.Kind.Selectable() && IsEnglish(rt)
	})
	return i, ok
}

// IsEnglish reports whether a runtime track is English by code or label.
func IsEnglish(rt Runtime) bool {
	lang := strings.ToLower(rt.Language)
	if lang == "en" || lang == "eng" || strings.HasPrefix(lang, "en-") || strings.HasPrefix(lang, "en_") {
		return true
	}
	return strings.Contains(strings.ToLower(rt.Label), "english")
}
