package tui

import (
	"time"

	"github.com/anisan-cli/playcore/intent"
	"github.com/anisan-cli/playcore/internal/ui"
	"github.com/anisan-cli/playcore/log"
	"github.com/anisan-cli/playcore/session"
	"github.com/anisan-cli/playcore/thumbnail"
	"github.com/anisan-cli/playcore/util"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/mo"
)

// Mouse wheel volume step.
const wheelStep = 0.05

func (b *bubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if cmd := b.notifier.Update(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
	case tea.KeyMsg:
		if msg.String() == "?" {
			b.helpC.ShowAll = !b.helpC.ShowAll
			break
		}
		in, ok := b.keymap.Resolve(msg).Get()
		if !ok {
			break
		}
		if in.Kind == intent.Quit {
			return b, b.quit()
		}
		cmds = append(cmds, b.dispatch(in))
	case tea.MouseMsg:
		cmds = append(cmds, b.handleMouse(msg))
	case signalMsg:
		b.snap = b.ctrl.State()
		if b.snap.Phase == session.PhaseIdle {
			return b, tea.Quit
		}
		cmds = append(cmds, b.waitForSignal())
	case spinner.TickMsg:
		var cmd tea.Cmd
		b.spinnerC, cmd = b.spinnerC.Update(msg)
		cmds = append(cmds, cmd)
	}

	return b, tea.Batch(cmds...)
}

func (b *bubble) resize(width, height int) {
	b.width, b.height = width, height

	x, _ := paddingStyle.GetFrameSize()
	b.helpC.Width = width - x
	// labels on both sides of the bar
	b.progressC.Width = util.Max(width-x-2*(labelWidth+1), 0)
}

func (b *bubble) layout() layout {
	return layout{
		width:     b.width,
		height:    b.height,
		helpLines: lipgloss.Height(b.helpC.View(b.keymap)),
		barWidth:  b.progressC.Width,
	}
}

func (b *bubble) quit() tea.Cmd {
	if err := b.ctrl.Dispatch(intent.Of(intent.Quit)); err != nil {
		log.Warn(err)
	}
	return tea.Quit
}

func (b *bubble) dispatch(in intent.Intent) tea.Cmd {
	before := b.snap.Skip

	if err := b.ctrl.Dispatch(in); err != nil {
		log.Warnf("%s: %v", in.Kind, err)
		return ui.Notify(err.Error())
	}
	b.snap = b.ctrl.State()

	switch in.Kind {
	case intent.Skip, intent.SkipIntro, intent.SkipOutro:
		if before.Intro || before.Outro {
			return ui.Notify("skipped")
		}
	case intent.CycleSubtitles, intent.SubtitlesOff:
		return ui.Notify(b.subtitleLabel())
	}
	return nil
}

func (b *bubble) handleMouse(msg tea.MouseMsg) tea.Cmd {
	l := b.layout()

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			return b.dispatch(intent.With(intent.VolumeDelta, wheelStep))
		case tea.MouseButtonWheelDown:
			return b.dispatch(intent.With(intent.VolumeDelta, -wheelStep))
		case tea.MouseButtonLeft:
			b.press = mo.Some(press{x: msg.X, y: msg.Y, at: time.Now()})
			if b.snap.ChromeVisible && l.onScrubBar(msg.X, msg.Y) {
				b.scrubbing = true
				b.ctrl.BeginScrub()
				b.preview = b.previewAt(l, msg.X)
			}
		}
	case tea.MouseActionMotion:
		if b.scrubbing {
			b.preview = b.previewAt(l, msg.X)
		}
	case tea.MouseActionRelease:
		p, ok := b.press.Get()
		if !ok {
			return nil
		}
		b.press = mo.None[press]()

		tr := l.trace(p, msg.X, msg.Y, time.Now(), b.snap.ChromeVisible)
		if b.scrubbing {
			b.scrubbing = false
			b.preview = mo.None[thumbnail.Cue]()
			b.ctrl.EndScrub()
		}

		if ev, ok := b.ctrl.HandleGesture(tr).Get(); ok {
			log.Debugf("gesture %s", ev.Kind)
		}
		b.snap = b.ctrl.State()
	}
	return nil
}

func (b *bubble) previewAt(l layout, x int) mo.Option[thumbnail.Cue] {
	if b.snap.Duration <= 0 {
		return mo.None[thumbnail.Cue]()
	}
	return b.ctrl.Preview(l.fraction(x) * b.snap.Duration)
}
