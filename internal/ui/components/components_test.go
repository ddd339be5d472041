package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func TestChecklist_CursorAndToggle(t *testing.T) {
	c := NewChecklist([]CheckItem{{Label: "a"}, {Label: "b"}, {Label: "c"}})

	c, _ = c.Update(keyPress('j'))
	c, _ = c.Update(keyPress('j'))
	c, _ = c.Update(keyPress('j'))
	if c.Cursor != 2 {
		t.Errorf("cursor = %d, want 2", c.Cursor)
	}

	c, toggled := c.Update(keyPress('x'))
	if !toggled {
		t.Error("expected toggle on x")
	}
	item, ok := c.Current()
	if !ok || item.Label != "c" {
		t.Errorf("current = %+v", item)
	}

	c, _ = c.Update(keyPress('k'))
	if c.Cursor != 1 {
		t.Errorf("cursor = %d, want 1", c.Cursor)
	}
}

func TestChecklist_SetItemsClampsCursor(t *testing.T) {
	c := NewChecklist([]CheckItem{{Label: "a"}, {Label: "b"}})
	c.Cursor = 1
	c.SetItems([]CheckItem{{Label: "only"}})
	if c.Cursor != 0 {
		t.Errorf("cursor = %d, want 0", c.Cursor)
	}
	c.SetItems(nil)
	if _, ok := c.Current(); ok {
		t.Error("expected no current item")
	}
}

func TestChecklist_ViewScrolls(t *testing.T) {
	var items []CheckItem
	for _, l := range []string{"a", "b", "c", "d", "e", "f"} {
		items = append(items, CheckItem{Label: "topic-" + l, Checked: l == "f"})
	}
	c := NewChecklist(items)
	c.Cursor = 5

	view := c.View(true, 3)
	if strings.Contains(view, "topic-a") {
		t.Error("expected first row scrolled out")
	}
	if !strings.Contains(view, "[x] topic-f") {
		t.Errorf("expected checked last row, got %q", view)
	}
}

func TestScoreBar(t *testing.T) {
	bar := NewScoreBar("Clarity", 7, 12, 40)
	view := bar.View()
	if !strings.Contains(view, " 7/10") {
		t.Errorf("view = %q", view)
	}
	if w := lipgloss.Width(view); w != 40 {
		t.Errorf("width = %d, want 40", w)
	}
}

func TestMenu_SkipsDisabled(t *testing.T) {
	var picked string
	m := NewMenu([]MenuItem{
		{Label: "off", Disabled: true},
		{Label: "one", Action: func() tea.Cmd { picked = "one"; return nil }},
		{Label: "two", Action: func() tea.Cmd { picked = "two"; return nil }},
	})
	if m.Selected != 1 {
		t.Fatalf("selected = %d, want 1", m.Selected)
	}
	m, _ = m.Update(keyPress('k'))
	if m.Selected != 1 {
		t.Errorf("moved onto disabled item")
	}
	m, _ = m.Update(keyPress('j'))
	m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if picked != "two" {
		t.Errorf("picked = %q, want two", picked)
	}
}

func TestTextArea_Lock(t *testing.T) {
	ta := NewTextArea("type", 40, 5)
	ta, _ = ta.Update(keyPress('a'))
	if ta.Value() != "a" {
		t.Fatalf("value = %q", ta.Value())
	}
	ta.Lock()
	ta, _ = ta.Update(keyPress('b'))
	if ta.Value() != "a" || !ta.Locked() {
		t.Errorf("locked area accepted input: %q", ta.Value())
	}
}
