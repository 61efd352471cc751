package tui

import (
	"time"

	"github.com/anisan-cli/playcore/gesture"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/mo"
)

// Terminal cells are mapped onto a virtual pixel surface so the gesture
// thresholds keep their meaning.
const (
	cellWidth  = 8
	cellHeight = 16
)

// Timeline position labels are padded to this width.
const labelWidth = 8

var paddingStyle = lipgloss.NewStyle().Padding(1, 2)

// layout locates the timeline on screen.
type layout struct {
	width, height int
	// helpLines is the height of the help block below the status line.
	helpLines int
	// barWidth is the width of the progress bar in cells.
	barWidth int
}

// timelineRow is the screen row of the progress bar.
func (l layout) timelineRow() int {
	return l.height - paddingStyle.GetPaddingBottom() - l.helpLines - 2
}

// barColumn is the screen column where the progress bar starts.
func (l layout) barColumn() int {
	return paddingStyle.GetPaddingLeft() + labelWidth + 1
}

func (l layout) surface() gesture.Rect {
	return gesture.Rect{Width: float64(l.width * cellWidth), Height: float64(l.height * cellHeight)}
}

func (l layout) scrubBar() gesture.Rect {
	return gesture.Rect{
		X:      float64(l.barColumn() * cellWidth),
		Y:      float64(l.timelineRow() * cellHeight),
		Width:  float64(l.barWidth * cellWidth),
		Height: cellHeight,
	}
}

// onScrubBar reports whether the cell at x, y is part of the progress bar.
func (l layout) onScrubBar(x, y int) bool {
	return y == l.timelineRow() && x >= l.barColumn() && x < l.barColumn()+l.barWidth
}

// fraction is the share of the bar left of column x, clamped to [0,1].
func (l layout) fraction(x int) float64 {
	if l.barWidth <= 0 {
		return 0
	}
	f := float64(x-l.barColumn()) / float64(l.barWidth)
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}

func point(x, y int) gesture.Point {
	return gesture.Point{
		X: float64(x*cellWidth + cellWidth/2),
		Y: float64(y*cellHeight + cellHeight/2),
	}
}

// trace builds the gesture for a press released at x, y. The scrub bar is
// only reported when the overlay shows it.
func (l layout) trace(p press, x, y int, up time.Time, chrome bool) gesture.Trace {
	tr := gesture.Trace{
		From:     point(p.x, p.y),
		To:       point(x, y),
		Down:     p.at,
		Up:       up,
		Surface:  l.surface(),
		ScrubBar: mo.None[gesture.Rect](),
	}
	if chrome && l.barWidth > 0 {
		tr.ScrubBar = mo.Some(l.scrubBar())
	}
	return tr
}
