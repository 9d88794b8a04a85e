package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/arisanov/pomo/internal/config"
	"github.com/arisanov/pomo/internal/countdown"
	"github.com/arisanov/pomo/internal/engine"
	"github.com/arisanov/pomo/internal/models"
)

// TimerModel is the interactive focus timer. The ticking display is
// local and advisory; every control key round-trips through the engine
// and reseeds the countdown from the confirmed record, and a periodic
// resync picks up changes made from other terminals.
type TimerModel struct {
	width  int
	height int

	eng     *engine.Engine
	session *models.Session

	cd       *countdown.Countdown
	progress progress.Model

	resyncEvery time.Duration

	// outcome flags read after the program quits
	completed bool
	cancelled bool
	detached  bool
	err       error
}

// timerTickMsg advances the local countdown every second
type timerTickMsg struct{}

// resyncTickMsg re-fetches the canonical record on the poll interval
type resyncTickMsg struct{}

// NewTimerModel builds the timer for a started session.
func NewTimerModel(eng *engine.Engine, cfg *config.Config, session *models.Session) TimerModel {
	cd := countdown.New(nil)
	cd.Seed(remainingOf(session), session.State == models.StateActive)

	resync := cfg.PollInterval
	if resync <= 0 {
		resync = 5 * time.Second
	}

	return TimerModel{
		eng:         eng,
		session:     session,
		cd:          cd,
		progress:    progress.New(progress.WithSolidFill(ColorAccentMain)),
		resyncEvery: resync,
	}
}

func remainingOf(s *models.Session) time.Duration {
	return time.Duration(s.RemainingSeconds(time.Now())) * time.Second
}

// Init starts the local tick and the resync tick
func (m TimerModel) Init() tea.Cmd {
	return tea.Batch(
		tea.Tick(time.Second, func(time.Time) tea.Msg { return timerTickMsg{} }),
		tea.Tick(m.resyncEvery, func(time.Time) tea.Msg { return resyncTickMsg{} }),
	)
}

// reseed replaces the session record and reanchors the countdown.
func (m *TimerModel) reseed(sess *models.Session) {
	m.session = sess
	m.cd.Seed(remainingOf(sess), sess.State == models.StateActive)
}

// Update handles messages
func (m TimerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case timerTickMsg:
		m.cd.Tick()

		// The server timestamps are authoritative: when the planned
		// time is spent, confirm completion through the engine rather
		// than trusting the local display.
		if m.session.State == models.StateActive && m.session.RemainingSeconds(time.Now()) == 0 {
			sess, err := m.eng.Complete(context.Background(), m.session.ID)
			if err == nil {
				m.reseed(sess)
				m.completed = true
				return m, tea.Quit
			}
			m.err = err
		}
		return m, tea.Tick(time.Second, func(time.Time) tea.Msg { return timerTickMsg{} })

	case resyncTickMsg:
		sess, err := m.eng.Get(context.Background(), m.session.ID)
		if err == nil {
			m.reseed(sess)
			if sess.Terminal() {
				m.completed = sess.State == models.StateCompleted
				m.cancelled = sess.State == models.StateCancelled
				return m, tea.Quit
			}
		}
		return m, tea.Tick(m.resyncEvery, func(time.Time) tea.Msg { return resyncTickMsg{} })

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(msg.Width-10, 48)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "p", "P":
			return m.control(m.eng.Pause), nil
		case "r", "R":
			return m.control(m.eng.Resume), nil
		case "c", "C", "enter":
			next := m.control(m.eng.Complete)
			if next.err == nil {
				next.completed = true
				return next, tea.Quit
			}
			return next, nil
		case "x", "X":
			next := m.control(m.eng.Cancel)
			if next.err == nil {
				next.cancelled = true
				return next, tea.Quit
			}
			return next, nil
		case "ctrl+c", "esc", "q":
			// Leave without touching the session
			m.detached = true
			return m, tea.Quit
		}
	}

	return m, nil
}

// control runs one engine operation and reseeds from its result.
func (m TimerModel) control(op func(context.Context, string) (*models.Session, error)) TimerModel {
	sess, err := op(context.Background(), m.session.ID)
	if err != nil {
		m.err = err
		return m
	}
	m.err = nil
	m.reseed(sess)
	return m
}

// View renders the timer
func (m TimerModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var components []string

	headerText := "🍅  FOCUS"
	headerColor := ColorAccentBright
	if m.session.Type != models.SessionWork {
		headerText = "☕  BREAK"
		headerColor = ColorBreak
	}
	if m.session.State == models.StatePaused {
		headerText += "  ·  PAUSED"
		headerColor = ColorWarning
	}
	components = append(components, lipgloss.NewStyle().
		Foreground(lipgloss.Color(headerColor)).
		Bold(true).
		Align(lipgloss.Center).
		Width(m.width).
		Render(headerText))

	if m.session.Title != "" {
		components = append(components, lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorPrimaryText)).
			Bold(true).
			Align(lipgloss.Center).
			Width(m.width).
			Render(m.session.Title))
	}

	components = append(components, m.renderClock())

	planned := time.Duration(m.session.PlannedSeconds) * time.Second
	done := 1.0
	if planned > 0 {
		done = 1.0 - m.cd.Remaining().Seconds()/planned.Seconds()
	}
	bar := lipgloss.NewStyle().
		Align(lipgloss.Center).
		Width(m.width).
		Render(m.progress.ViewAs(done))
	components = append(components, bar)

	info := fmt.Sprintf("%s planned · session %.8s", planned, m.session.ID)
	if m.session.StartedAt != nil {
		info = fmt.Sprintf("Started at %s · %s", m.session.StartedAt.Format("15:04:05"), info)
	}
	components = append(components, lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorSecondaryText)).
		Italic(true).
		Align(lipgloss.Center).
		Width(m.width).
		Render(info))

	if m.err != nil {
		components = append(components, lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorError)).
			Align(lipgloss.Center).
			Width(m.width).
			Render(m.err.Error()))
	}

	content := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height-2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(strings.Join(components, "\n\n"))

	return lipgloss.JoinVertical(lipgloss.Left, content, m.renderHelpBar())
}

// renderClock renders the remaining time as a big ASCII clock
func (m TimerModel) renderClock() string {
	remaining := m.cd.Remaining()
	hours := int(remaining.Hours())
	minutes := int(remaining.Minutes()) % 60
	seconds := int(remaining.Seconds()) % 60

	timeStr := fmt.Sprintf("%02d:%02d", minutes, seconds)
	if hours > 0 {
		timeStr = fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}

	color := ColorAccentBright
	if m.session.State == models.StatePaused {
		color = ColorWarning
	}

	clock := renderBigDigits(timeStr, color)
	lines := strings.Split(clock, "\n")
	var b strings.Builder
	for i, line := range lines {
		b.WriteString(lipgloss.NewStyle().
			Align(lipgloss.Center).
			Width(m.width).
			Render(line))
		if i < len(lines)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// renderHelpBar renders the help bar at the bottom
func (m TimerModel) renderHelpBar() string {
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHelpText)).
		Italic(true).
		Align(lipgloss.Center).
		Width(m.width)

	help := "p pause · r resume · c complete · x cancel · esc/q leave running"
	if m.session.State == models.StatePaused {
		help = "r resume · c complete · x cancel · esc/q leave paused"
	}
	return helpStyle.Render(help)
}
