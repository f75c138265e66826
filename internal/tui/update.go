package tui

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"inkboard/internal/board"
	"inkboard/internal/config"
	"inkboard/internal/export"
	"inkboard/internal/render"
	"inkboard/internal/shape"
)

type savedMsg struct {
	path string
	blob []byte
	err  error
}

type exportedMsg struct {
	path string
	err  error
}

type fileChangedMsg struct {
	path string
}

type reloadedMsg struct {
	data []byte
	err  error
}

type imageLoadedMsg struct {
	path          string
	src           string
	width, height int
	at            pendingText
	err           error
}

var toolKeys = map[string]board.Tool{
	"s": board.ToolSelect,
	"p": board.ToolPen,
	"r": board.ToolRect,
	"c": board.ToolCircle,
	"a": board.ToolStar,
	"t": board.ToolText,
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ensureCursorInBounds()
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		if m.help {
			switch msg.String() {
			case "esc", "q", "?":
				m.help = false
			}
			return m, nil
		}
		switch m.mode {
		case ModeTextInput:
			return m.handleTextInput(msg)
		case ModeRename:
			return m.handleRename(msg)
		case ModeConfirm:
			return m.handleConfirm(msg)
		case ModeImagePath:
			return m.handleImagePath(msg)
		}
		return m.handleKey(msg)

	case savedMsg:
		if msg.err != nil {
			m.notify(msg.err)
			return m, nil
		}
		m.lastSaved = msg.blob
		m.successMessage = "Saved " + msg.path
		return m, nil

	case exportedMsg:
		if msg.err != nil {
			m.notify(msg.err)
			return m, nil
		}
		m.successMessage = "Exported " + msg.path
		return m, nil

	case imageLoadedMsg:
		if msg.err != nil {
			m.notify(fmt.Errorf("image: %w", msg.err))
			return m, nil
		}
		m.settleGesture()
		w, h := board.FitSize(float64(msg.width), float64(msg.height), m.board.Size())
		p := ToCanvas(msg.at.col, msg.at.row)
		m.board.AddImage(msg.src, p.X, p.Y, w, h)
		m.successMessage = "Placed " + filepath.Base(msg.path)
		return m, nil

	case fileChangedMsg:
		return m, m.reload()

	case reloadedMsg:
		if msg.err != nil {
			m.notify(msg.err)
			return m, nil
		}
		if bytes.Equal(msg.data, m.lastSaved) {
			return m, nil
		}
		if err := m.board.LoadWire(msg.data); err != nil {
			m.notify(err)
			return m, nil
		}
		m.lastSaved = msg.data
		m.clearMessages()
		m.successMessage = "Reloaded from disk"
		return m, nil
	}
	return m, nil
}

func (m model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.help || m.mode != ModeNormal {
		return m, nil
	}
	// Row 0 is the page bar.
	col, row := msg.X, msg.Y-1
	if row < 0 {
		if !m.mouseDown {
			return m, nil
		}
		row = 0
	}
	m.cursorX, m.cursorY = col, row
	m.ensureCursorInBounds()
	p := ToCanvas(m.cursorX, m.cursorY)

	switch msg.Type {
	case tea.MouseLeft:
		if m.mouseDown {
			m.board.PointerMove(p)
			return m, nil
		}
		m.clearMessages()
		if m.board.Tool() == board.ToolText {
			m.openTextInput()
			return m, nil
		}
		m.mouseDown = true
		m.board.PointerDown(p)
	case tea.MouseMotion:
		if m.mouseDown {
			m.board.PointerMove(p)
		}
	case tea.MouseRelease:
		if m.mouseDown {
			m.mouseDown = false
			m.board.PointerUp(p)
		}
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if tool, ok := toolKeys[key]; ok {
		m.clearMessages()
		m.keyDown = false
		m.board.SetTool(tool)
		return m, nil
	}

	switch key {
	case "ctrl+c":
		return m, tea.Quit
	case "q":
		if m.config.Confirmations {
			m.askConfirm(ConfirmQuit)
			return m, nil
		}
		return m, tea.Quit
	case "?":
		m.help = true
	case "esc":
		m.keyDown = false
		m.board.Cancel()
		m.clearMessages()

	case "up", "down", "left", "right":
		m.moveCursor(key)
		if m.keyDown {
			m.board.PointerMove(m.cursorPoint())
		}
	case " ":
		m.clearMessages()
		if m.keyDown {
			m.keyDown = false
			m.board.PointerUp(m.cursorPoint())
			return m, nil
		}
		if m.board.Tool() == board.ToolText {
			m.openTextInput()
			return m, nil
		}
		m.keyDown = true
		m.board.PointerDown(m.cursorPoint())

	case "u":
		m.clearMessages()
		m.settleGesture()
		if !m.board.Undo() {
			m.successMessage = "Nothing to undo"
		}
	case "ctrl+r":
		m.clearMessages()
		m.settleGesture()
		if !m.board.Redo() {
			m.successMessage = "Nothing to redo"
		}
	case "d":
		m.clearMessages()
		m.settleGesture()
		m.notify(m.board.DeleteSelected())
	case "X":
		m.clearMessages()
		m.settleGesture()
		if m.config.Confirmations {
			m.askConfirm(ConfirmClearPage)
			return m, nil
		}
		m.board.Clear()

	case "n":
		m.clearMessages()
		m.settleGesture()
		m.board.AddPage("")
		m.successMessage = "Added " + m.board.ActivePage().Name
	case "x":
		m.clearMessages()
		m.settleGesture()
		if len(m.board.Pages()) <= 1 {
			m.notify(m.board.DeletePage(m.board.ActivePageID()))
			return m, nil
		}
		if m.config.Confirmations {
			m.askConfirm(ConfirmDeletePage)
			return m, nil
		}
		m.notify(m.board.DeletePage(m.board.ActivePageID()))
	case "tab":
		m.clearMessages()
		m.cyclePage(1)
	case "shift+tab":
		m.clearMessages()
		m.cyclePage(-1)
	case "R":
		m.clearMessages()
		m.settleGesture()
		m.mode = ModeRename
		m.input = m.board.ActivePage().Name

	case "i":
		m.clearMessages()
		m.settleGesture()
		m.mode = ModeImagePath
		m.input = ""
		m.pending = pendingText{col: m.cursorX, row: m.cursorY}

	// Files are written from committed shapes only, so a held pointer is
	// released first.
	case "w":
		m.clearMessages()
		m.settleGesture()
		return m, m.save()
	case "e":
		m.clearMessages()
		m.settleGesture()
		return m, m.exportPNG()
	case "P":
		m.clearMessages()
		m.settleGesture()
		return m, m.exportPDF()
	case "T":
		m.clearMessages()
		m.settleGesture()
		return m, m.exportText()
	case "y":
		m.clearMessages()
		m.settleGesture()
		data, err := m.board.Wire()
		if err == nil {
			err = writeClipboard(string(data))
		}
		if err != nil {
			m.notify(fmt.Errorf("copy: %w", err))
			return m, nil
		}
		m.successMessage = "Copied document to clipboard"
	}
	return m, nil
}

func (m model) handleTextInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEscape:
		m.mode = ModeNormal
		m.input = ""
	case tea.KeyEnter:
		p := ToCanvas(m.pending.col, m.pending.row)
		m.prompt.value = m.input
		m.board.PointerDown(p)
		m.board.PointerUp(p)
		m.prompt.value = ""
		m.mode = ModeNormal
		m.input = ""
	case tea.KeyBackspace:
		m.input = dropLastRune(m.input)
	case tea.KeyCtrlV:
		text, err := readClipboard()
		if err != nil {
			m.notify(fmt.Errorf("paste: %w", err))
			break
		}
		m.input += text
	case tea.KeySpace:
		m.input += " "
	case tea.KeyRunes:
		m.input += string(msg.Runes)
	}
	return m, nil
}

func (m model) handleRename(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEscape:
		m.mode = ModeNormal
		m.input = ""
	case tea.KeyEnter:
		m.mode = ModeNormal
		m.notify(m.board.RenamePage(m.board.ActivePageID(), m.input))
		m.input = ""
	case tea.KeyBackspace:
		m.input = dropLastRune(m.input)
	case tea.KeySpace:
		m.input += " "
	case tea.KeyRunes:
		m.input += string(msg.Runes)
	}
	return m, nil
}

func (m model) handleConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		m.mode = ModeNormal
		switch m.confirm {
		case ConfirmQuit:
			return m, tea.Quit
		case ConfirmClearPage:
			m.board.Clear()
			m.successMessage = "Cleared " + m.board.ActivePage().Name
		case ConfirmDeletePage:
			name := m.board.ActivePage().Name
			if err := m.board.DeletePage(m.board.ActivePageID()); err != nil {
				m.notify(err)
				break
			}
			m.successMessage = "Deleted " + name
		}
	case "n", "N", "esc":
		m.mode = ModeNormal
	}
	return m, nil
}

func (m model) handleImagePath(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEscape:
		m.mode = ModeNormal
		m.input = ""
	case tea.KeyEnter:
		path, at := m.input, m.pending
		m.mode = ModeNormal
		m.input = ""
		if path == "" {
			return m, nil
		}
		return m, loadImage(config.ExpandHome(path), at)
	case tea.KeyBackspace:
		m.input = dropLastRune(m.input)
	case tea.KeyCtrlV:
		text, err := readClipboard()
		if err != nil {
			m.notify(fmt.Errorf("paste: %w", err))
			break
		}
		m.input += text
	case tea.KeySpace:
		m.input += " "
	case tea.KeyRunes:
		m.input += string(msg.Runes)
	}
	return m, nil
}

// loadImage reads and encodes the file off the update loop; the board is only
// touched when the result comes back as imageLoadedMsg.
func loadImage(path string, at pendingText) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return imageLoadedMsg{path: path, err: err}
		}
		defer f.Close()
		src, w, h, err := render.ImageDataURL(f)
		return imageLoadedMsg{path: path, src: src, width: w, height: h, at: at, err: err}
	}
}

// settleGesture releases any held pointer, reverting an uncommitted drag.
func (m *model) settleGesture() {
	m.keyDown = false
	m.mouseDown = false
	m.board.Cancel()
}

func (m *model) askConfirm(action ConfirmAction) {
	m.settleGesture()
	m.mode = ModeConfirm
	m.confirm = action
}

func (m *model) openTextInput() {
	m.mode = ModeTextInput
	m.input = ""
	m.pending = pendingText{col: m.cursorX, row: m.cursorY}
}

func (m *model) moveCursor(key string) {
	switch key {
	case "up":
		m.cursorY--
	case "down":
		m.cursorY++
	case "left":
		m.cursorX--
	case "right":
		m.cursorX++
	}
	m.ensureCursorInBounds()
}

func (m model) cursorPoint() shape.Point {
	return ToCanvas(m.cursorX, m.cursorY)
}

func (m *model) cyclePage(step int) {
	pages := m.board.Pages()
	current := 0
	for i, p := range pages {
		if p.ID == m.board.ActivePageID() {
			current = i
			break
		}
	}
	next := (current + step + len(pages)) % len(pages)
	m.keyDown = false
	m.notify(m.board.SelectPage(pages[next].ID))
}

func (m model) activePageNumber() int {
	for i, p := range m.board.Pages() {
		if p.ID == m.board.ActivePageID() {
			return i + 1
		}
	}
	return 0
}

// save encodes on the update loop and leaves only the disk write to the
// command, so the board is never read from another goroutine.
func (m model) save() tea.Cmd {
	blob, err := m.board.Wire()
	if err != nil {
		return errCmd(err)
	}
	pages := m.board.Pages()
	ids := make([]string, len(pages))
	for i, p := range pages {
		ids[i] = p.ID
	}
	m.thumbs.Prune(ids)
	thumb, err := m.thumbs.Get(m.board.ActivePage())
	if err != nil {
		m.log.Warn("thumbnail for %s: %v", m.key, err)
		thumb = nil
	}
	hits, misses := m.thumbs.Stats()
	m.log.Debug("thumbnail cache: %d entries, %d hits, %d misses", m.thumbs.Len(), hits, misses)
	st, key := m.store, m.key
	return func() tea.Msg {
		err := st.Save(context.Background(), key, blob, thumb)
		return savedMsg{path: st.BlobPath(key), blob: blob, err: err}
	}
}

func (m model) reload() tea.Cmd {
	st, key := m.store, m.key
	return func() tea.Msg {
		data, err := st.Load(context.Background(), key)
		return reloadedMsg{data: data, err: err}
	}
}

func (m model) exportPNG() tea.Cmd {
	data, err := m.board.Export(&render.Rasterizer{Log: m.log.WithPrefix("render")})
	if err != nil {
		return errCmd(err)
	}
	path := m.config.SavePath(fmt.Sprintf("%s-page%d.png", m.key, m.activePageNumber()))
	return writeCmd(path, data)
}

func (m model) exportPDF() tea.Cmd {
	var buf bytes.Buffer
	if err := export.PDF(&buf, m.board.Document(), m.board.Size()); err != nil {
		return errCmd(err)
	}
	return writeCmd(m.config.SavePath(m.key+".pdf"), buf.Bytes())
}

func (m model) exportText() tea.Cmd {
	size := m.board.Size()
	cols, rows := GridSize(size.Width, size.Height)
	shapes := m.board.Shapes()
	path := m.config.SavePath(fmt.Sprintf("%s-page%d.txt", m.key, m.activePageNumber()))
	return func() tea.Msg {
		return exportedMsg{path: path, err: WriteTextFile(path, shapes, cols, rows)}
	}
}

func writeCmd(path string, data []byte) tea.Cmd {
	return func() tea.Msg {
		return exportedMsg{path: path, err: os.WriteFile(path, data, 0644)}
	}
}

func errCmd(err error) tea.Cmd {
	return func() tea.Msg {
		return exportedMsg{err: err}
	}
}

func dropLastRune(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	return string(runes[:len(runes)-1])
}
