package player

import (
	"github.com/anisan-cli/playcore/skip"
	"github.com/samber/mo"
)

// SkipChapters lays out timeline chapters around the intro and outro
// windows: the parts between them are plain chapters and each window gets
// its own named mark.
func SkipChapters(intro, outro mo.Option[skip.Window]) []Chapter {
	if intro.IsAbsent() && outro.IsAbsent() {
		return nil
	}

	chapters := []Chapter{{Title: "Part A", Time: 0}}

	if w, ok := intro.Get(); ok {
		chapters = append(chapters,
			Chapter{Title: "Opening", Time: w.Start},
			Chapter{Title: "Part B", Time: w.End},
		)
	}

	if w, ok := outro.Get(); ok {
		chapters = append(chapters,
			Chapter{Title: "Ending", Time: w.Start},
			Chapter{Title: "Preview / Next", Time: w.End},
		)
	}

	// an intro at 0 replaces the leading part
	if len(chapters) > 1 && chapters[1].Time == 0 {
		chapters = chapters[1:]
	}
	return chapters
}
