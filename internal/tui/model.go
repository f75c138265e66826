// Package tui is the terminal front end: it turns mouse and keyboard input
// into board pointer events and draws pages as character cells.
package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"inkboard/internal/board"
	"inkboard/internal/config"
	"inkboard/internal/logger"
	"inkboard/internal/paint"
	"inkboard/internal/shape"
	"inkboard/internal/store"
	"inkboard/internal/thumbnail"
	"inkboard/internal/watch"
)

// Mode selects what key presses are routed to.
type Mode int

const (
	ModeNormal Mode = iota
	ModeTextInput
	ModeRename
	ModeConfirm
	ModeImagePath
)

// ConfirmAction is the edit waiting on a yes/no answer.
type ConfirmAction int

const (
	ConfirmClearPage ConfirmAction = iota
	ConfirmDeletePage
	ConfirmQuit
)

// promptAnswer backs the board's text prompt. The model fills it in from the
// modal input line right before replaying the pointer event.
type promptAnswer struct {
	value string
}

func (p *promptAnswer) answer(string) string {
	return p.value
}

// Options configure New and Run.
type Options struct {
	Config       *config.Config
	Log          *logger.Logger
	Store        *store.FileStore
	Key          string
	Initial      []byte
	BoardOptions []board.Option
	Watch        bool
}

type model struct {
	board  *board.Board
	prompt *promptAnswer
	store  *store.FileStore
	key    string
	config *config.Config
	log    *logger.Logger
	thumbs *thumbnail.Cache

	width     int
	height    int
	cursorX   int
	cursorY   int
	keyDown   bool
	mouseDown bool

	mode    Mode
	help    bool
	input   string
	pending pendingText
	confirm ConfirmAction

	errorMessage   string
	successMessage string
	lastSaved      []byte
}

type pendingText struct {
	col, row int
}

// New builds the model and its board. Initial, when set, is loaded as the
// document; a malformed blob is an error.
func New(opts Options) (tea.Model, error) {
	m, err := newModel(opts)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func newModel(opts Options) (model, error) {
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.Log == nil {
		opts.Log = logger.Discard()
	}
	if opts.Store == nil {
		opts.Store = store.NewFileStore(opts.Config.SaveDirectory)
	}
	if opts.Key == "" {
		opts.Key = "untitled"
	}
	prompt := &promptAnswer{}
	boardOpts := append(BoardOptions(opts.Config), board.WithLogger(opts.Log.WithPrefix("board")))
	boardOpts = append(boardOpts, opts.BoardOptions...)
	boardOpts = append(boardOpts, board.WithTextPrompt(prompt.answer))
	b := board.New(boardOpts...)
	if opts.Initial != nil {
		if err := b.LoadWire(opts.Initial); err != nil {
			return model{}, fmt.Errorf("load %s: %w", opts.Key, err)
		}
	}
	return model{
		board:     b,
		prompt:    prompt,
		store:     opts.Store,
		key:       opts.Key,
		config:    opts.Config,
		log:       opts.Log,
		thumbs:    thumbnail.NewCache(),
		lastSaved: opts.Initial,
	}, nil
}

// BoardOptions maps the configured canvas, style and history limit onto board
// options. Colors that do not parse keep the board defaults.
func BoardOptions(cfg *config.Config) []board.Option {
	style := board.DefaultStyle()
	if _, ok := paint.Parse(cfg.StrokeColor); ok {
		style.Stroke = cfg.StrokeColor
	}
	if cfg.StrokeWidth > 0 {
		style.StrokeWidth = cfg.StrokeWidth
	}
	if c, ok := paint.Parse(cfg.FillColor); ok && !paint.IsTransparent(c) {
		style.Fill = shape.NewFill(cfg.FillColor)
	}
	if cfg.FontSize > 0 {
		style.FontSize = cfg.FontSize
	}
	return []board.Option{
		board.WithStyle(style),
		board.WithSize(board.Size{Width: cfg.CanvasWidth, Height: cfg.CanvasHeight}),
		board.WithHistoryLimit(cfg.HistoryLimit),
	}
}

// Run starts the program and blocks until the user quits.
func Run(opts Options) error {
	m, err := newModel(opts)
	if err != nil {
		return err
	}
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	if opts.Watch {
		w, err := watch.New(watch.DefaultDebounce, m.log.WithPrefix("watch"))
		if err != nil {
			return err
		}
		defer w.Close()
		err = w.Watch([]string{m.store.BlobPath(m.key)}, func(path string) {
			p.Send(fileChangedMsg{path: path})
		})
		if err != nil {
			return err
		}
		w.Start()
	}

	_, err = p.Run()
	return err
}

func (m model) Init() tea.Cmd {
	return nil
}

// canvasRows is the number of rows between the page bar and the status line.
func (m model) canvasRows() int {
	rows := m.height - 2
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (m model) canvasCols() int {
	if m.width < 1 {
		return 1
	}
	return m.width
}

func (m *model) ensureCursorInBounds() {
	if m.cursorX < 0 {
		m.cursorX = 0
	}
	if m.cursorY < 0 {
		m.cursorY = 0
	}
	if m.cursorX >= m.canvasCols() {
		m.cursorX = m.canvasCols() - 1
	}
	if m.cursorY >= m.canvasRows() {
		m.cursorY = m.canvasRows() - 1
	}
}

func (m *model) clearMessages() {
	m.errorMessage = ""
	m.successMessage = ""
}

func (m *model) notify(err error) {
	if err != nil {
		m.errorMessage = err.Error()
		m.log.Warn("%v", err)
	}
}
