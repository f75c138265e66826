package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m model) View() string {
	if m.help {
		return m.helpView()
	}

	cols, rows := m.canvasCols(), m.canvasRows()
	grid := RenderGrid(m.board.Scene(), m.board.SelectedID(), cols, rows)
	if m.mode == ModeNormal {
		grid.Cursor(m.cursorX, m.cursorY)
	}

	var result strings.Builder
	result.WriteString(m.renderPageBar(cols))
	result.WriteString("\n")
	result.WriteString(strings.Join(grid.Lines(true), "\n"))
	result.WriteString("\n")
	result.WriteString(m.statusLine(cols))
	return result.String()
}

func (m model) renderPageBar(width int) string {
	var tabs []string
	active := m.board.ActivePageID()
	for _, p := range m.board.Pages() {
		label := fmt.Sprintf("%s (%d)", p.Name, len(p.Shapes))
		if p.ID == active {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
}

func (m model) statusLine(width int) string {
	switch m.mode {
	case ModeTextInput:
		return statusStyle.Width(width).Render("Text: " + m.input + "█  (enter to place, ctrl+v to paste, esc to cancel)")
	case ModeRename:
		return statusStyle.Width(width).Render("Page name: " + m.input + "█  (enter to rename, esc to cancel)")
	case ModeImagePath:
		return statusStyle.Width(width).Render("Image file: " + m.input + "█  (enter to place at the cursor, esc to cancel)")
	case ModeConfirm:
		return errorStyle.Render(confirmPrompt(m.confirm, m.board.ActivePage().Name))
	}

	if m.errorMessage != "" {
		return errorStyle.Render("Error: " + m.errorMessage)
	}
	if m.successMessage != "" {
		return successStyle.Render(m.successMessage)
	}

	cursor, length := m.board.HistoryPosition()
	status := fmt.Sprintf("%s | page %d/%d | %d,%d | history %d/%d",
		m.board.Tool(), m.activePageNumber(), len(m.board.Pages()),
		m.cursorX, m.cursorY, cursor, length-1)
	if m.board.CanUndo() {
		status += " | u:undo"
	}
	if m.board.CanRedo() {
		status += " | ctrl+r:redo"
	}
	if m.keyDown {
		status += " | drawing (space to finish)"
	}
	status += " | ?:help"
	return statusStyle.Width(width).MaxWidth(width).Render(status)
}

func confirmPrompt(action ConfirmAction, page string) string {
	switch action {
	case ConfirmClearPage:
		return fmt.Sprintf("Clear all shapes on %q? (y/n)", page)
	case ConfirmDeletePage:
		return fmt.Sprintf("Delete %q and its history? (y/n)", page)
	default:
		return "Quit? Unsaved changes are lost. (y/n)"
	}
}

func (m model) helpView() string {
	sections := []struct {
		title string
		lines []string
	}{
		{"Tools", []string{
			"  s                Select and drag shapes",
			"  p                Pen",
			"  r / c / a        Rectangle / circle / star",
			"  t                Text (opens an input line)",
			"  i                Insert an image file at the cursor",
		}},
		{"Drawing", []string{
			"  mouse            Press, drag and release to draw",
			"  arrows           Move the cursor",
			"  space            Press or release the pointer at the cursor",
			"  esc              Cancel the current gesture",
		}},
		{"Editing", []string{
			"  u / ctrl+r       Undo / redo on this page",
			"  d                Delete the selected shape",
			"  X                Clear the page",
		}},
		{"Pages", []string{
			"  n / x            New page / delete page",
			"  tab / shift+tab  Next / previous page",
			"  R                Rename page",
		}},
		{"Files", []string{
			"  w                Save",
			"  e / P / T        Export PNG / PDF / text",
			"  y                Copy the document JSON",
			"  q                Quit",
		}},
	}

	var b strings.Builder
	b.WriteString(helpTitleStyle.Render("inkboard help"))
	b.WriteString("\n")
	for _, s := range sections {
		b.WriteString("\n")
		b.WriteString(helpTitleStyle.Render(s.title + ":"))
		b.WriteString("\n")
		for _, l := range s.lines {
			b.WriteString(l)
			b.WriteString("\n")
		}
	}
	b.WriteString("\nPress ? or esc to close")
	return b.String()
}
