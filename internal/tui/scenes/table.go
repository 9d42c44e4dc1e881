package scenes

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/rgehrsitz/tcogo/internal/tui/tuistyles"
)

// newTable builds a focused table with the shared header and cursor styles.
func newTable(columns []table.Column, height int) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height),
	)
	styles := table.DefaultStyles()
	styles.Header = tuistyles.TableHeaderStyle
	styles.Selected = tuistyles.TableHighlightStyle
	t.SetStyles(styles)
	return t
}

// tableHeight fits a table of n rows plus its bordered header into the space
// left by a scene's chrome.
func tableHeight(n, available int) int {
	h := n + 3
	if available > 0 && h > available {
		h = available
	}
	if h < 2 {
		h = 2
	}
	return h
}
