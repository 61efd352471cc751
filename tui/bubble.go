package tui

import (
	"time"

	"github.com/anisan-cli/playcore/intent"
	"github.com/anisan-cli/playcore/internal/ui"
	"github.com/anisan-cli/playcore/session"
	"github.com/anisan-cli/playcore/style"
	"github.com/anisan-cli/playcore/thumbnail"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/mo"
)

// signalMsg carries a controller signal into the program.
type signalMsg session.Signal

// press is a mouse button held down.
type press struct {
	x, y int
	at   time.Time
}

// bubble is the session surface model.
type bubble struct {
	ctrl   *session.Controller
	keymap intent.Keymap

	spinnerC  spinner.Model
	progressC progress.Model
	helpC     help.Model
	notifier  *ui.Model

	signals chan session.Signal
	snap    session.Snapshot

	width, height int

	press     mo.Option[press]
	scrubbing bool
	preview   mo.Option[thumbnail.Cue]
}

func newBubble(ctrl *session.Controller) *bubble {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = style.New().Foreground(style.AccentColor)

	return &bubble{
		ctrl:      ctrl,
		keymap:    intent.NewKeymap(),
		spinnerC:  s,
		progressC: progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		helpC:     help.New(),
		notifier:  &ui.Model{},
		signals:   make(chan session.Signal, 64),
		snap:      ctrl.State(),
		preview:   mo.None[thumbnail.Cue](),
		press:     mo.None[press](),
	}
}

// forward hands a signal to the program. Signals are dropped when the
// program falls behind; every one of them only triggers a fresh snapshot.
func (b *bubble) forward(sig session.Signal) {
	select {
	case b.signals <- sig:
	default:
	}
}

func (b *bubble) waitForSignal() tea.Cmd {
	return func() tea.Msg {
		return signalMsg(<-b.signals)
	}
}

func (b *bubble) Init() tea.Cmd {
	return tea.Batch(b.spinnerC.Tick, b.waitForSignal())
}
