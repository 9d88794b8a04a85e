package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/arisanov/pomo/internal/config"
	"github.com/arisanov/pomo/internal/engine"
	"github.com/arisanov/pomo/internal/models"
)

// RunTimer runs the interactive focus timer for a started session.
func RunTimer(eng *engine.Engine, cfg *config.Config, session *models.Session) error {
	model := NewTimerModel(eng, cfg, session)

	p := tea.NewProgram(model, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	m, ok := finalModel.(TimerModel)
	if !ok {
		return nil
	}

	switch {
	case m.completed:
		actual := time.Duration(m.session.ActualSeconds) * time.Second
		fmt.Printf("✅ Completed %s session — %s of focused time\n", typeLabel(m.session.Type), actual)
	case m.cancelled:
		fmt.Printf("❌ Cancelled %s session\n", typeLabel(m.session.Type))
	case m.detached:
		fmt.Printf("💡 Session keeps running in the background.\n")
		fmt.Printf("   'pomo status' shows it, 'pomo done' completes it.\n")
	case m.err != nil:
		fmt.Printf("Error: %v\n", m.err)
	}
	return nil
}

func typeLabel(t models.SessionType) string {
	switch t {
	case models.SessionShortBreak:
		return "short break"
	case models.SessionLongBreak:
		return "long break"
	default:
		return "work"
	}
}
