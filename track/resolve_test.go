package track

import (
	"testing"

	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
)

func TestResolveDefault(t *testing.T) {
	Convey("ResolveDefault", t, func() {
		runtime := []Runtime{
			{Label: "thumbs", Kind: Metadata},
			{Label: "Español", Language: "es", Kind: Subtitles},
			{Label: "English [CC]", Language: "en", Kind: Subtitles},
			{Label: "Deutsch", Language: "de", Kind: Subtitles},
		}

		Convey("Matches the caller default by case-insensitive label", func() {
			tracks := []Descriptor{{Label: "deutsch", Kind: Subtitles, Default: true}}
			So(ResolveDefault(tracks, runtime, ""), ShouldResemble, mo.Some(3))
		})

		Convey("Falls back to the default's language code", func() {
			tracks := []Descriptor{{Label: "Castellano", Language: "ES", Kind: Subtitles, Default: true}}
			So(ResolveDefault(tracks, runtime, ""), ShouldResemble, mo.Some(1))
		})

		Convey("The preferred label wins over the caller default", func() {
			tracks := []Descriptor{{Label: "Deutsch", Kind: Subtitles, Default: true}}
			So(ResolveDefault(tracks, runtime, "ESPAÑOL"), ShouldResemble, mo.Some(1))
		})

		Convey("An unmatched preferred label falls back to the caller default", func() {
			tracks := []Descriptor{{Label: "Deutsch", Kind: Subtitles, Default: true}}
			So(ResolveDefault(tracks, runtime, "Klingon"), ShouldResemble, mo.Some(3))
		})

		Convey("Scans for English when nothing matches", func() {
			tracks := []Descriptor{{Label: "Français", Language: "fr", Kind: Subtitles, Default: true}}
			So(ResolveDefault(tracks, runtime, ""), ShouldResemble, mo.Some(2))
		})

		Convey("Recognises English by label alone", func() {
			rt := []Runtime{
				{Label: "Japanese", Kind: Subtitles},
				{Label: "english (signs)", Kind: Subtitles},
			}
			So(ResolveDefault(nil, rt, ""), ShouldResemble, mo.Some(1))
		})

		Convey("Falls back to the first non-metadata track", func() {
			rt := []Runtime{
				{Label: "chapters", Kind: Metadata},
				{Label: "Português", Language: "pt", Kind: Subtitles},
				{Label: "Italiano", Language: "it", Kind: Subtitles},
			}
			So(ResolveDefault(nil, rt, ""), ShouldResemble, mo.Some(1))
		})

		Convey("Returns none when only metadata tracks exist", func() {
			rt := []Runtime{{Label: "thumbs", Kind: Metadata}}
			So(ResolveDefault(nil, rt, "").IsPresent(), ShouldBeFalse)
			So(ResolveDefault(nil, nil, "").IsPresent(), ShouldBeFalse)
		})

		Convey("Is deterministic for identical inputs", func() {
			tracks := []Descriptor{{Label: "Deutsch", Kind: Subtitles, Default: true}}
			first := ResolveDefault(tracks, runtime, "")
			for i := 0; i < 20; i++ {
				So(ResolveDefault(tracks, runtime, ""), ShouldResemble, first)
			}
		})
	})
}

func TestIsEnglish(t *testing.T) {
	Convey("IsEnglish", t, func() {
		So(IsEnglish(Runtime{Language: "en-US"}), ShouldBeTrue)
		So(IsEnglish(Runtime{Language: "eng"}), ShouldBeTrue)
		So(IsEnglish(Runtime{Language: "es"}), ShouldBeFalse)
		So(IsEnglish(Runtime{Label: "ENGLISH"}), ShouldBeTrue)
	})
}
