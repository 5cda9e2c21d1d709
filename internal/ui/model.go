package ui

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"w8/internal/domain"
	"w8/internal/services"
	"w8/internal/state"
)

// chromeLines is the number of rows the panel border, panel header, status
// line and key line take away from the listing.
const chromeLines = 6

// Model browses a weighted tree. When a scanner is attached the root can be
// rescanned in place.
type Model struct {
	state   *state.State
	scanner services.Scanner
	request services.ScanRequest
	keys    KeyMap
	help    help.Model
	spinner spinner.Model

	status   string
	scanning bool
	cancel   context.CancelFunc

	width   int
	height  int
	viewTop int
}

func NewModel(appState *state.State, scanner services.Scanner, request services.ScanRequest) Model {
	return Model{
		state:   appState,
		scanner: scanner,
		request: request,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		spinner: spinner.New(spinner.WithSpinner(spinner.MiniDot)),
		status:  "Ready",
		width:   100,
		height:  30,
	}
}

func (model Model) WithStatus(message string) Model {
	if message != "" {
		model.status = message
	}
	return model
}

func (model Model) Init() tea.Cmd {
	return nil
}

func (model Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		return model.handleKey(typed)
	case tea.WindowSizeMsg:
		model.width, model.height = typed.Width, typed.Height
		model.help.Width = typed.Width
		model.ensureCursorVisible()
	case spinner.TickMsg:
		if model.scanning {
			var cmd tea.Cmd
			model.spinner, cmd = model.spinner.Update(typed)
			return model, cmd
		}
	case scanResultMsg:
		model.applyScan(typed)
	}
	return model, nil
}

func (model *Model) applyScan(msg scanResultMsg) {
	model.scanning = false
	model.cancel = nil
	switch {
	case errors.Is(msg.err, context.Canceled):
		model.status = "Scan cancelled"
	case msg.err != nil:
		model.status = fmt.Sprintf("Scan error: %v", msg.err)
	default:
		model.state.SetTree(msg.result.Tree)
		model.status = fmt.Sprintf("Rescan complete (%s)", formatElapsed(msg.result.Duration))
		if n := len(msg.result.Warnings); n > 0 {
			model.status += fmt.Sprintf(", %d warning(s)", n)
		}
		model.ensureCursorVisible()
	}
}

func (model Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := model.keys
	switch {
	case key.Matches(msg, keys.Quit):
		model.stopScan()
		return model, tea.Quit
	case key.Matches(msg, keys.Help):
		model.help.ShowAll = !model.help.ShowAll
	case key.Matches(msg, keys.Up):
		model.moveCursor(-1)
	case key.Matches(msg, keys.Down):
		model.moveCursor(1)
	case key.Matches(msg, keys.Expand):
		if id, ok := model.selectedDir(); ok {
			model.state.ToggleExpanded(id)
		}
	case key.Matches(msg, keys.Open):
		if id, ok := model.selectedDir(); ok {
			model.state.EnterDir(id)
		}
	case key.Matches(msg, keys.Parent):
		model.state.LeaveDir()
	case key.Matches(msg, keys.Order):
		model.status = fmt.Sprintf("Order: %s", model.state.ToggleSortMode())
	case key.Matches(msg, keys.Rescan):
		return model.beginScan()
	default:
		return model, nil
	}
	model.ensureCursorVisible()
	return model, nil
}

func (model *Model) moveCursor(delta int) {
	next := model.state.Cursor + delta
	if next < 0 || next >= len(model.state.VisibleNodes()) {
		return
	}
	model.state.Cursor = next
}

func (model Model) selectedDir() (string, bool) {
	node := model.state.CurrentNode()
	if node == nil || node.Type != domain.NodeDir {
		return "", false
	}
	return node.ID, true
}

// beginScan rescans the browsed root in the background. Snapshots of
// trees that no longer exist on disk stay read-only.
func (model Model) beginScan() (Model, tea.Cmd) {
	switch {
	case model.scanner == nil:
		model.status = "Rescan unavailable"
		return model, nil
	case model.scanning:
		return model, nil
	}
	request := model.request
	if request.RootPath == "" {
		request.RootPath = model.state.Path
	}
	if info, err := os.Stat(request.RootPath); err != nil || !info.IsDir() {
		model.status = fmt.Sprintf("Root not on disk: %s", request.RootPath)
		return model, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	model.cancel = cancel
	model.scanning = true
	model.status = fmt.Sprintf("Scanning %s", request.RootPath)
	return model, tea.Batch(model.scanCmd(ctx, request), model.spinner.Tick)
}

func (model Model) scanCmd(ctx context.Context, request services.ScanRequest) tea.Cmd {
	scanner := model.scanner
	return func() tea.Msg {
		result, err := scanner.Scan(ctx, request)
		return scanResultMsg{result: result, err: err}
	}
}

func (model *Model) stopScan() {
	if model.cancel != nil {
		model.cancel()
		model.cancel = nil
	}
	model.scanning = false
}

// ensureCursorVisible clamps the cursor to the listing and scrolls the
// window so the cursor row is on screen.
func (model *Model) ensureCursorVisible() {
	total := len(model.state.VisibleNodes())
	model.state.Cursor = clamp(model.state.Cursor, 0, maxInt(total-1, 0))
	rows := model.listHeight()
	if total == 0 || rows <= 0 {
		model.viewTop = 0
		return
	}
	if model.state.Cursor < model.viewTop {
		model.viewTop = model.state.Cursor
	}
	if model.state.Cursor >= model.viewTop+rows {
		model.viewTop = model.state.Cursor - rows + 1
	}
	model.viewTop = clamp(model.viewTop, 0, maxInt(total-rows, 0))
}

func (model Model) listHeight() int {
	return model.height - chromeLines
}
