package tui

import (
	"fmt"
	"strings"

	"github.com/anisan-cli/playcore/constant"
	"github.com/anisan-cli/playcore/icon"
	"github.com/anisan-cli/playcore/session"
	"github.com/anisan-cli/playcore/style"
	"github.com/anisan-cli/playcore/util"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wrap"
	"github.com/samber/lo"
)

func (b *bubble) View() string {
	if b.width == 0 || b.height == 0 {
		return ""
	}

	top := b.viewHeader()
	if err := b.snap.Err; err != nil {
		top = append(top, b.viewError(err)...)
	} else {
		top = append(top, b.viewOverlay()...)
	}

	bottom := []string{"", ""}
	if b.snap.ChromeVisible {
		bottom = []string{b.viewTimeline(), b.viewStatus()}
	}
	bottom = append(bottom, b.helpC.View(b.keymap))

	return b.notifier.View(b.renderLines(top, bottom))
}

// renderLines pins bottom to the last rows of the screen.
func (b *bubble) renderLines(top, bottom []string) string {
	_, y := paddingStyle.GetFrameSize()
	room := b.height - y - len(bottom) - (b.layout().helpLines - 1)
	room = util.Max(room, 0)

	if len(top) > room {
		top = top[:room]
	}
	for len(top) < room {
		top = append(top, "")
	}

	return paddingStyle.Render(strings.Join(append(top, bottom...), "\n"))
}

func (b *bubble) contentWidth() int {
	x, _ := paddingStyle.GetFrameSize()
	return util.Max(b.width-x, 1)
}

func (b *bubble) viewHeader() []string {
	name := style.Title(constant.Playcore)
	title := truncate.StringWithTail(b.snap.Title, uint(util.Max(b.contentWidth()-len(constant.Playcore)-4, 1)), "…")
	return []string{name + " " + style.Bold(title), ""}
}

func (b *bubble) viewError(err error) []string {
	return []string{
		style.ErrorTitle("Error"),
		"",
		icon.Get(icon.Fail) + " Playback failed:",
		"",
		wrap.String(err.Error(), b.contentWidth()),
	}
}

func (b *bubble) viewOverlay() []string {
	s := b.snap
	lines := []string{b.viewPhase()}

	if m, ok := s.Manifest.Get(); ok {
		lines = append(lines, style.Faint(fmt.Sprintf(
			"%s · %s%s",
			m.Kind,
			util.Quantify(len(m.Variants), "variant", "variants"),
			lo.Ternary(m.Live, " · live", ""),
		)))
	} else {
		lines = append(lines, style.Faint(s.Source.Kind.String()))
	}
	lines = append(lines, "")

	if s.Skip.Intro {
		lines = append(lines, style.Tag(style.Base, style.AccentColor)(icon.Get(icon.Skip)+" Skip intro [s]"))
	}
	if s.Skip.Outro {
		lines = append(lines, style.Tag(style.Base, style.AccentColor)(icon.Get(icon.Skip)+" Skip outro [s]"))
	}

	if fb, ok := s.Feedback.Get(); ok {
		arrow := lo.Ternary(fb.Key == "left", "« ", "» ")
		lines = append(lines, style.Fg(style.SecondaryColor)(arrow+fb.Key))
	}

	if cue, ok := b.preview.Get(); ok {
		lines = append(lines, style.Faint(fmt.Sprintf(
			"preview %s  %s#xywh=%d,%d,%d,%d",
			util.FormatSeconds(cue.Start),
			cue.SpriteURL, cue.X, cue.Y, cue.Width, cue.Height,
		)))
	}

	return lines
}

func (b *bubble) viewPhase() string {
	s := b.snap
	switch {
	case s.Loading:
		return b.spinnerC.View() + " Loading"
	case s.Buffering:
		return b.spinnerC.View() + " " + icon.Get(icon.Buffering) + " Buffering"
	}

	switch s.Phase {
	case session.PhasePlaying:
		return icon.Get(icon.Play) + " Playing"
	case session.PhasePaused:
		return icon.Get(icon.Pause) + " Paused"
	case session.PhaseEnded:
		return icon.Get(icon.Success) + " Ended"
	default:
		return icon.Get(icon.Progress) + " " + util.Capitalize(s.Phase.String())
	}
}

func (b *bubble) viewTimeline() string {
	s := b.snap
	var fraction float64
	if s.Duration > 0 {
		fraction = s.CurrentTime / s.Duration
	}

	return fmt.Sprintf(
		"%*s %s %-*s",
		labelWidth, util.FormatSeconds(s.CurrentTime),
		b.progressC.ViewAs(util.Clamp(fraction, 0, 1)),
		labelWidth, util.FormatSeconds(s.Duration),
	)
}

func (b *bubble) viewStatus() string {
	s := b.snap
	parts := []string{
		fmt.Sprintf("vol %d%%", int(s.Volume*100+0.5)),
		fmt.Sprintf("%gx", s.Rate),
		icon.Get(icon.Subtitles) + " " + b.subtitleLabel(),
	}
	if s.Fullscreen {
		parts = append(parts, icon.Get(icon.Fullscreen))
	}
	return style.Faint(strings.Join(parts, " · "))
}

func (b *bubble) subtitleLabel() string {
	i, ok := b.snap.ActiveTrack.Get()
	if !ok || i < 0 || i >= len(b.snap.Tracks) {
		return "off"
	}
	t := b.snap.Tracks[i]
	return lo.Ternary(t.Label != "", t.Label, lo.Ternary(t.Language != "", t.Language, "on"))
}
