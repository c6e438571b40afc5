package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var titleGlyphs = map[rune][3]string{
	'T': {"▀█▀", " █ ", " ▀ "},
	'A': {"▄▀█", "█▀█", "▀ ▀"},
	'L': {"█  ", "█▄▄", "▀▀▀"},
	'Y': {"█ █", "▀█▀", " ▀ "},
	'U': {"█ █", "█▄█", "▀▀▀"},
	'P': {"█▀█", "█▀▀", "▀  "},
}

func renderBlockTitle() string {
	coral := lipgloss.NewStyle().Foreground(lipgloss.Color("#F47A60")).Bold(true)
	yellow := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD54A")).Bold(true)

	lineParts := [3][]string{{}, {}, {}}
	for i, ch := range "TALLYUP" {
		g, ok := titleGlyphs[ch]
		if !ok {
			continue
		}
		// Alternates coral/yellow per letter.
		fill := coral
		if i%2 == 1 {
			fill = yellow
		}
		for row := range lineParts {
			lineParts[row] = append(lineParts[row], fill.Render(g[row]))
		}
	}

	rows := make([]string, 0, len(lineParts)+1)
	for _, parts := range lineParts {
		rows = append(rows, strings.Join(parts, " "))
	}
	rows = append(rows, mutedStyle.Render("Invoice Tracker"))
	return strings.Join(rows, "\n")
}
