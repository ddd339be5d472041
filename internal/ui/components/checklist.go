package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/thinkfast/internal/ui/theme"
)

// CheckItem is one row of a Checklist.
type CheckItem struct {
	Label   string
	Note    string
	Checked bool
}

// Checklist is a cursor over toggleable rows. Toggling is left to the
// owner so that the source of truth stays outside the component.
type Checklist struct {
	Items  []CheckItem
	Cursor int
}

// NewChecklist creates a checklist with the cursor on the first row.
func NewChecklist(items []CheckItem) Checklist {
	return Checklist{Items: items}
}

// Update moves the cursor. It reports toggled=true when space or x was
// pressed on the current row.
func (c Checklist) Update(msg tea.Msg) (Checklist, bool) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || len(c.Items) == 0 {
		return c, false
	}

	switch kmsg.String() {
	case "up", "k":
		if c.Cursor > 0 {
			c.Cursor--
		}
	case "down", "j":
		if c.Cursor < len(c.Items)-1 {
			c.Cursor++
		}
	case "space", " ", "x":
		return c, true
	}
	return c, false
}

// Current returns the row under the cursor.
func (c Checklist) Current() (CheckItem, bool) {
	if c.Cursor < 0 || c.Cursor >= len(c.Items) {
		return CheckItem{}, false
	}
	return c.Items[c.Cursor], true
}

// SetItems replaces the rows and keeps the cursor in range.
func (c *Checklist) SetItems(items []CheckItem) {
	c.Items = items
	if c.Cursor >= len(items) {
		c.Cursor = len(items) - 1
	}
	if c.Cursor < 0 {
		c.Cursor = 0
	}
}

// View renders at most maxRows rows, scrolled so the cursor is visible.
func (c Checklist) View(focused bool, maxRows int) string {
	start, end := 0, len(c.Items)
	if maxRows > 0 && end > maxRows {
		start = c.Cursor - maxRows/2
		if start < 0 {
			start = 0
		}
		end = start + maxRows
		if end > len(c.Items) {
			end = len(c.Items)
			start = end - maxRows
		}
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		item := c.Items[i]
		box := "[ ]"
		if item.Checked {
			box = "[x]"
		}
		prefix := "  "
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if focused && i == c.Cursor {
			prefix = "▸ "
			style = theme.Selected
		}
		line := style.Render(prefix + box + " " + item.Label)
		if item.Note != "" {
			line += " " + theme.Hint.Render(item.Note)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}
