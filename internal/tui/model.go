// Package tui implements the interactive risk viewer started by `pactum watch`.
package tui

import (
	"context"
	"strconv"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/okian/pactum/internal/domain/risk"
	"github.com/okian/pactum/internal/domain/types"
)

// Refresher runs an aggregation cycle and returns its snapshot.
type Refresher interface {
	Refresh(ctx context.Context) *types.Snapshot
}

// snapshotMsg carries the result of a refresh.
type snapshotMsg struct {
	snapshot *types.Snapshot
}

// Model is the bubbletea model of the risk viewer.
type Model struct {
	ctx    context.Context
	source Refresher
	styles Styles

	snapshot *types.Snapshot
	filter   risk.Filter
	loading  bool

	search    textinput.Model
	searching bool
	spinner   spinner.Model

	width  int
	height int
}

// NewModel creates a viewer bound to src. The first refresh starts on Init.
func NewModel(ctx context.Context, src Refresher) Model {
	ti := textinput.New()
	ti.Placeholder = "Buscar contrato, descrição ou categoria..."
	ti.Prompt = "/ "
	ti.CharLimit = 80
	ti.Width = 48

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctx:     ctx,
		source:  src,
		styles:  DefaultStyles(),
		filter:  risk.Filter{Severity: risk.FilterAll},
		loading: true,
		search:  ti,
		spinner: sp,
	}
}

// Init starts the first refresh.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.refresh(), m.spinner.Tick)
}

func (m Model) refresh() tea.Cmd {
	ctx, src := m.ctx, m.source
	return func() tea.Msg {
		return snapshotMsg{snapshot: src.Refresh(ctx)}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotMsg:
		m.snapshot = msg.snapshot
		m.loading = false
		return m, nil
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "/":
		m.searching = true
		return m, m.search.Focus()
	case "f", "tab":
		m.filter.Severity = m.filter.Severity.Next()
	case "r":
		if m.loading {
			return m, nil
		}
		m.loading = true
		return m, tea.Batch(m.refresh(), m.spinner.Tick)
	case "esc":
		m.search.SetValue("")
		m.filter.Search = ""
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEnter:
		m.searching = false
		m.search.Blur()
		return m, nil
	case tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.filter.Search = ""
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.filter.Search = m.search.Value()
	return m, cmd
}

// Filter returns the active filter.
func (m Model) Filter() risk.Filter { return m.filter }

// Searching reports whether the search input has focus.
func (m Model) Searching() bool { return m.searching }

// Loading reports whether a refresh is in flight.
func (m Model) Loading() bool { return m.loading }

// RiskView returns the filtered projection of the current snapshot, or false before the first refresh.
func (m Model) RiskView() (types.RiskView, bool) {
	if m.snapshot == nil {
		return types.RiskView{}, false
	}
	return types.NewRiskView(m.snapshot, m.filter), true
}

func itoa(n int) string { return strconv.Itoa(n) }
