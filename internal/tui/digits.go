package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// bigDigits is 5-row ASCII art for the clock characters
var bigDigits = map[rune][5]string{
	'0': {" ███ ", "█   █", "█   █", "█   █", " ███ "},
	'1': {"  █  ", " ██  ", "  █  ", "  █  ", "█████"},
	'2': {" ███ ", "█   █", "   █ ", "  █  ", "█████"},
	'3': {" ███ ", "█   █", "  ██ ", "█   █", " ███ "},
	'4': {"█   █", "█   █", "█████", "    █", "    █"},
	'5': {"█████", "█    ", "████ ", "    █", "████ "},
	'6': {" ███ ", "█    ", "████ ", "█   █", " ███ "},
	'7': {"█████", "    █", "   █ ", "  █  ", " █   "},
	'8': {" ███ ", "█   █", " ███ ", "█   █", " ███ "},
	'9': {" ███ ", "█   █", " ████", "    █", " ███ "},
	':': {"     ", "  █  ", "     ", "  █  ", "     "},
}

// renderBigDigits renders a time string like "24:59" as a multi-line
// block in the given color.
func renderBigDigits(timeStr, color string) string {
	var lines [5]strings.Builder
	for _, char := range timeStr {
		art, ok := bigDigits[char]
		if !ok {
			continue
		}
		for i := 0; i < 5; i++ {
			lines[i].WriteString(art[i])
			lines[i].WriteString(" ")
		}
	}

	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color(color)).
		Bold(true)

	var b strings.Builder
	for i := 0; i < 5; i++ {
		b.WriteString(style.Render(lines[i].String()))
		if i < 4 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
