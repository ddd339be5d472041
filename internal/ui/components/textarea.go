package components

import (
	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
)

// TextArea wraps bubbles/textarea for multi-line free text.
type TextArea struct {
	Model    textarea.Model
	readOnly bool
}

// NewTextArea creates a focused text area.
func NewTextArea(placeholder string, width, height int) TextArea {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.ShowLineNumbers = false
	ta.Prompt = "│ "
	ta.CharLimit = 0
	ta.SetWidth(width)
	ta.SetHeight(height)
	ta.Focus()
	return TextArea{Model: ta}
}

// Init returns the initial command.
func (t TextArea) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update forwards messages unless the area is read-only.
func (t TextArea) Update(msg tea.Msg) (TextArea, tea.Cmd) {
	if t.readOnly {
		return t, nil
	}
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the text area.
func (t TextArea) View() string {
	return t.Model.View()
}

// Value returns the current text.
func (t TextArea) Value() string {
	return t.Model.Value()
}

// SetSize resizes the editing area.
func (t *TextArea) SetSize(width, height int) {
	t.Model.SetWidth(width)
	t.Model.SetHeight(height)
}

// Lock stops accepting input.
func (t *TextArea) Lock() {
	t.readOnly = true
	t.Model.Blur()
}

// Locked reports whether input is disabled.
func (t TextArea) Locked() bool {
	return t.readOnly
}
