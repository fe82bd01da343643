package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zatekoja/doctordirectory/internal/domain/entities"
	"github.com/zatekoja/doctordirectory/internal/domain/querystate"
	"github.com/zatekoja/doctordirectory/internal/infrastructure/observability"
)

// Directory is the doctor listing the browser reads from.
type Directory interface {
	Load(ctx context.Context) error
	Search(ctx context.Context, state querystate.State) ([]entities.Doctor, error)
	Suggest(input string, limit int) ([]entities.Doctor, error)
	Specialties(q string) ([]string, error)
}

type focusArea int

const (
	focusSearch focusArea = iota
	focusFilters
	focusResults
	focusCount
)

const filterPanelWidth = 40

// loadedMsg reports the end of the one-time listing fetch.
type loadedMsg struct {
	err error
}

// pendingState is written by the store subscription and drained after each
// update.
type pendingState struct {
	state querystate.State
	dirty bool
}

// Model is the root bubbletea model of the browser.
type Model struct {
	ctx         context.Context
	directory   Directory
	history     *querystate.SessionHistory
	store       *querystate.Store
	pending     *pendingState
	unsubscribe func()
	styles      Styles

	search  searchBox
	filters filterPanel
	results viewport.Model
	spinner spinner.Model

	state   querystate.State
	doctors []entities.Doctor
	loading bool
	err     error
	focus   focusArea
	width   int
	height  int
}

// NewModel creates a browser whose address bar starts at initialQuery.
func NewModel(ctx context.Context, directory Directory, initialQuery string) Model {
	history := querystate.NewSessionHistory(initialQuery)
	store := querystate.NewStore(history)

	pending := &pendingState{}
	unsubscribe := store.Subscribe(func(st querystate.State) {
		pending.state = st
		pending.dirty = true
	})

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	styles := DefaultStyles()
	sp.Style = styles.Spinner

	state := store.State()
	return Model{
		ctx:         ctx,
		directory:   directory,
		history:     history,
		store:       store,
		pending:     pending,
		unsubscribe: unsubscribe,
		styles:      styles,
		search:      newSearchBox(state.Get(querystate.ParamSearch)),
		filters:     newFilterPanel(),
		results:     viewport.New(80, 20),
		spinner:     sp,
		state:       state,
		loading:     true,
	}
}

// Init starts the spinner and the listing fetch.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load, textinput.Blink)
}

func (m Model) load() tea.Msg {
	return loadedMsg{err: m.directory.Load(m.ctx)}
}

// Close detaches the model from its store.
func (m Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
	m.store.Close()
}

// Location returns the address bar, e.g. "/?search=amit".
func (m Model) Location() string {
	if loc := m.store.Location(); loc != "" {
		return "/?" + loc
	}
	return "/"
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.renderResults()

	case loadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			observability.GetLogger().Error().Err(msg.err).Msg("failed to load doctors")
			return m, nil
		}
		if specialties, err := m.directory.Specialties(""); err == nil {
			m.filters.specialties = specialties
		}
		m.refresh(m.store.State())

	case spinner.TickMsg:
		if m.loading {
			m.spinner, cmd = m.spinner.Update(msg)
		}

	case tea.KeyMsg:
		m, cmd = m.handleKey(msg)
	}

	if m.pending.dirty {
		m.pending.dirty = false
		m.refresh(m.pending.state)
	}
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "tab":
		m.setFocus((m.focus + 1) % focusCount)
		return m, nil
	case "shift+tab":
		m.setFocus((m.focus + focusCount - 1) % focusCount)
		return m, nil
	case "alt+left":
		m.history.Back()
		return m, nil
	case "alt+right":
		m.history.Forward()
		return m, nil
	case "ctrl+x":
		m.filters.specialtySearch.SetValue("")
		m.search.close()
		m.store.ClearAll()
		return m, nil
	}

	if m.err != nil {
		return m, nil
	}

	var cmd tea.Cmd
	switch m.focus {
	case focusSearch:
		m.search, cmd = m.search.update(msg, m.store, m.suggest)
	case focusFilters:
		m.filters, cmd = m.filters.update(msg, m.store)
	case focusResults:
		m.results, cmd = m.results.Update(msg)
	}
	return m, cmd
}

func (m Model) suggest(input string) []entities.Doctor {
	if m.loading {
		return nil
	}
	doctors, err := m.directory.Suggest(input, suggestionLimit)
	if err != nil {
		return nil
	}
	return doctors
}

// setFocus moves focus; leaving the search region closes its suggestions.
func (m *Model) setFocus(f focusArea) {
	if m.focus == focusSearch && f != focusSearch {
		m.search.close()
	}
	m.focus = f

	if f == focusSearch {
		m.search.input.Focus()
	} else {
		m.search.input.Blur()
	}
	if f == focusFilters {
		m.filters.focusRow(m.filters.rows(m.state))
	} else {
		m.filters.specialtySearch.Blur()
	}
}

// refresh re-renders every widget from state.
func (m *Model) refresh(state querystate.State) {
	m.state = state

	search := state.Get(querystate.ParamSearch)
	if strings.TrimSpace(m.search.input.Value()) != strings.TrimSpace(search) {
		m.search.setValue(search)
		m.search.close()
	}
	m.filters.clampCursor(len(m.filters.rows(state)))

	if m.loading || m.err != nil {
		return
	}
	doctors, err := m.directory.Search(m.ctx, state)
	if err != nil {
		observability.GetLogger().Warn().Err(err).Msg("search failed")
		doctors = nil
	}
	m.doctors = doctors
	m.renderResults()
}

func (m *Model) resize() {
	width := m.width - filterPanelWidth - 4
	if width < 20 {
		width = 20
	}
	height := m.height - 8
	if height < 5 {
		height = 5
	}
	m.results.Width = width
	m.results.Height = height
}

func (m *Model) renderResults() {
	m.results.SetContent(renderCards(m.doctors, m.styles, m.results.Width))
}

// View renders the browser.
func (m Model) View() string {
	if m.err != nil {
		return lipgloss.JoinVertical(lipgloss.Left,
			m.styles.Error.Render("Something went wrong"),
			m.err.Error(),
			"",
			m.styles.Help.Render("ctrl+c quit"),
		)
	}

	position, total := m.history.Position()
	header := lipgloss.JoinHorizontal(lipgloss.Top,
		m.styles.Header.Render("Doctor Directory"),
		"  ",
		m.styles.Location.Render(m.Location()),
		m.styles.Muted.Render(fmt.Sprintf("  history %d/%d", position, total)),
	)

	search := m.panel(m.search.view(m.styles, m.focus == focusSearch), m.focus == focusSearch, 0)
	filters := m.panel(m.filters.view(m.state, m.styles, m.focus == focusFilters), m.focus == focusFilters, filterPanelWidth)
	body := lipgloss.JoinHorizontal(lipgloss.Top, filters, " ", m.panel(m.resultsView(), m.focus == focusResults, 0))

	help := m.styles.Help.Render("tab focus • ↑/↓ move • enter select • alt+←/→ history • ctrl+x clear all • ctrl+c quit")
	return lipgloss.JoinVertical(lipgloss.Left, header, search, body, help)
}

func (m Model) resultsView() string {
	if m.loading {
		return m.spinner.View() + " Loading doctors..."
	}
	if len(m.doctors) == 0 {
		return m.styles.Muted.Render(emptyResults)
	}
	summary := m.styles.Muted.Render(fmt.Sprintf("%d doctors", len(m.doctors)))
	return summary + "\n" + m.results.View()
}

func (m Model) panel(content string, focused bool, width int) string {
	style := m.styles.Panel
	if focused {
		style = m.styles.Focused
	}
	if width > 0 {
		style = style.Width(width)
	}
	return style.Render(content)
}
