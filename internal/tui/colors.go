package tui

// Color constants for the pomo TUI theme
const (
	// Base Colors
	ColorAppBackground = ""        // Use terminal default background
	ColorBorder        = "#55383A" // Muted brick

	// Text Colors
	ColorPrimaryText   = "#F2EAE6" // Primary text (titles, the clock)
	ColorSecondaryText = "#C7B4B1" // Secondary text - warm grey
	ColorDisabledText  = "#83706D" // Disabled/muted text
	ColorHelpText      = "240"     // Dark grey for help text

	// Accent Colors (Tomato theme)
	ColorAccentMain   = "#E11D48" // Accent elements, active borders
	ColorAccentBright = "#FB7185" // Highlights, the running clock

	// State Colors
	ColorError   = "#EF4444" // Failed operations
	ColorSuccess = "#22C55E" // Completion
	ColorWarning = "#F59E0B" // Paused state
	ColorBreak   = "#38BDF8" // Break sessions
)
