package ui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/doctordirectory/internal/application/services"
	"github.com/zatekoja/doctordirectory/internal/domain/entities"
	"github.com/zatekoja/doctordirectory/internal/domain/querystate"
)

type staticClient struct {
	doctors []entities.Doctor
	err     error
}

func (c staticClient) ListDoctors(context.Context) ([]entities.Doctor, error) {
	return c.doctors, c.err
}

func sampleDoctors() []entities.Doctor {
	return []entities.Doctor{
		{ID: "1", Name: "Asha Rao", Specialties: []string{"Cardiologist"}, ConsultationModes: []string{"video"}, Fee: 800, Experience: 12},
		{ID: "2", Name: "Vikram Mehta", Specialties: []string{"ENT"}, ConsultationModes: []string{"clinic"}, Fee: 500, Experience: 20},
		{ID: "3", Name: "Ashok Kumar", Specialties: []string{"Dentist"}, ConsultationModes: []string{"clinic", "video"}, Fee: 300, Experience: 4},
	}
}

func newLoadedModel(t *testing.T, query string) Model {
	t.Helper()
	ctx := context.Background()
	directory := services.NewDirectoryService(staticClient{doctors: sampleDoctors()})
	require.NoError(t, directory.Load(ctx))

	m := NewModel(ctx, directory, query)
	t.Cleanup(m.Close)
	return send(m, loadedMsg{})
}

func send(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func typeText(m Model, text string) Model {
	for _, r := range text {
		m = send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func key(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func names(doctors []entities.Doctor) []string {
	out := make([]string, 0, len(doctors))
	for _, d := range doctors {
		out = append(out, d.Name)
	}
	return out
}

func historyPosition(m Model) []int {
	position, total := m.history.Position()
	return []int{position, total}
}

func TestModel_InitialQuery(t *testing.T) {
	m := newLoadedModel(t, "?sortBy=fees&ref=mail")

	assert.Equal(t, []string{"Ashok Kumar", "Vikram Mehta", "Asha Rao"}, names(m.doctors))
	assert.Equal(t, "/?sortBy=fees&ref=mail", m.Location())
	assert.Equal(t, []string{"Cardiologist", "Dentist", "ENT"}, m.filters.specialties)
}

func TestModel_TypingReplacesHistoryEntry(t *testing.T) {
	m := newLoadedModel(t, "")
	m = typeText(m, "as")

	assert.Equal(t, "as", m.store.Get(querystate.ParamSearch))
	assert.Equal(t, "/?search=as", m.Location())
	assert.Equal(t, []int{1, 1}, historyPosition(m))
	assert.Equal(t, []string{"Asha Rao", "Ashok Kumar"}, names(m.search.suggestions))
	assert.Equal(t, []string{"Asha Rao", "Ashok Kumar"}, names(m.doctors))
}

func TestModel_ClearingInputRemovesSearch(t *testing.T) {
	m := newLoadedModel(t, "")
	m = typeText(m, "a")
	m = send(m, key(tea.KeyBackspace))

	assert.False(t, m.store.State().Has(querystate.ParamSearch))
	assert.Equal(t, "/", m.Location())
	assert.False(t, m.search.open())
	assert.Len(t, m.doctors, 3)
}

func TestModel_SelectSuggestionPushes(t *testing.T) {
	m := newLoadedModel(t, "")
	m = typeText(m, "as")
	m = send(m, key(tea.KeyDown), key(tea.KeyEnter))

	assert.Equal(t, "Asha Rao", m.store.Get(querystate.ParamSearch))
	assert.Equal(t, "Asha Rao", m.search.input.Value())
	assert.False(t, m.search.open())
	assert.Equal(t, []string{"Asha Rao"}, names(m.doctors))
	assert.Equal(t, []int{2, 2}, historyPosition(m))
}

func TestModel_SubmitTypedText(t *testing.T) {
	m := newLoadedModel(t, "sortBy=experience")
	m = typeText(m, "ash")
	m = send(m, key(tea.KeyEnter))

	assert.Equal(t, "ash", m.store.Get(querystate.ParamSearch))
	assert.Equal(t, querystate.SortByExperience, m.store.Get(querystate.ParamSortBy))
	assert.False(t, m.search.open())
	assert.Equal(t, []string{"Asha Rao", "Ashok Kumar"}, names(m.doctors))
	assert.Equal(t, []int{2, 2}, historyPosition(m))

	m = send(m, tea.KeyMsg{Type: tea.KeyLeft, Alt: true})
	assert.Equal(t, "/?sortBy=experience", m.Location())
	assert.Empty(t, m.search.input.Value())
}

func TestModel_SubmitAfterFilterKeepsFilterEntry(t *testing.T) {
	m := newLoadedModel(t, "")
	m = send(m, key(tea.KeyTab), key(tea.KeyDown), key(tea.KeyEnter))
	require.Equal(t, "/?sortBy=fees", m.Location())
	require.Equal(t, []int{2, 2}, historyPosition(m))

	m = send(m, key(tea.KeyShiftTab))
	m = typeText(m, "ash")
	assert.Equal(t, []int{2, 2}, historyPosition(m))

	m = send(m, key(tea.KeyEnter))
	assert.Equal(t, "/?search=ash&sortBy=fees", m.Location())
	assert.Equal(t, []int{3, 3}, historyPosition(m))

	m = send(m, tea.KeyMsg{Type: tea.KeyLeft, Alt: true})
	assert.Equal(t, "/?sortBy=fees", m.Location())
	assert.Empty(t, m.search.input.Value())
	assert.Equal(t, []string{"Ashok Kumar", "Vikram Mehta", "Asha Rao"}, names(m.doctors))

	m = send(m, tea.KeyMsg{Type: tea.KeyLeft, Alt: true})
	assert.Equal(t, "/", m.Location())
}

func TestModel_BackAndForward(t *testing.T) {
	m := newLoadedModel(t, "")
	m = typeText(m, "as")
	m = send(m, key(tea.KeyDown), key(tea.KeyEnter))

	m = send(m, tea.KeyMsg{Type: tea.KeyLeft, Alt: true})
	assert.False(t, m.store.State().Has(querystate.ParamSearch))
	assert.Empty(t, m.search.input.Value())
	assert.Len(t, m.doctors, 3)
	assert.Equal(t, []int{1, 2}, historyPosition(m))

	m = send(m, tea.KeyMsg{Type: tea.KeyRight, Alt: true})
	assert.Equal(t, "Asha Rao", m.search.input.Value())
	assert.Equal(t, []string{"Asha Rao"}, names(m.doctors))
}

func TestModel_FocusChangeClosesSuggestions(t *testing.T) {
	m := newLoadedModel(t, "")
	m = typeText(m, "as")
	require.True(t, m.search.open())

	m = send(m, key(tea.KeyTab))
	assert.Equal(t, focusFilters, m.focus)
	assert.False(t, m.search.open())
	assert.Equal(t, "as", m.store.Get(querystate.ParamSearch))

	m = send(m, key(tea.KeyShiftTab))
	assert.Equal(t, focusSearch, m.focus)
}

func TestModel_EscClosesSuggestions(t *testing.T) {
	m := newLoadedModel(t, "")
	m = typeText(m, "as")
	m = send(m, key(tea.KeyEsc))

	assert.False(t, m.search.open())
	assert.Equal(t, "as", m.search.input.Value())
}

func TestModel_SortRadioTogglesOff(t *testing.T) {
	m := newLoadedModel(t, "")
	m = send(m, key(tea.KeyTab), key(tea.KeyDown), key(tea.KeyEnter))

	assert.Equal(t, querystate.SortByFees, m.store.Get(querystate.ParamSortBy))
	assert.Equal(t, []string{"Ashok Kumar", "Vikram Mehta", "Asha Rao"}, names(m.doctors))
	assert.Equal(t, []int{2, 2}, historyPosition(m))

	m = send(m, key(tea.KeyEnter))
	assert.False(t, m.store.State().Has(querystate.ParamSortBy))
	assert.Equal(t, []int{3, 3}, historyPosition(m))
}

func TestModel_ModeRadioAndAll(t *testing.T) {
	m := newLoadedModel(t, "")
	m = send(m, key(tea.KeyTab))

	rows := m.filters.rows(m.state)
	m.filters.cursor = rowIndex(t, rows, rowMode, querystate.ConsultationClinic)
	m = send(m, key(tea.KeyEnter))
	assert.Equal(t, querystate.ConsultationClinic, m.store.Get(querystate.ParamConsultationType))
	assert.Equal(t, []string{"Vikram Mehta", "Ashok Kumar"}, names(m.doctors))

	m.filters.cursor = rowIndex(t, m.filters.rows(m.state), rowModeAll, "")
	m = send(m, key(tea.KeySpace))
	assert.False(t, m.store.State().Has(querystate.ParamConsultationType))
	assert.Len(t, m.doctors, 3)
}

func TestModel_SpecialtyCheckboxes(t *testing.T) {
	m := newLoadedModel(t, "")
	m = send(m, key(tea.KeyTab))

	m.filters.cursor = rowIndex(t, m.filters.rows(m.state), rowSpecialty, "Cardiologist")
	m = send(m, key(tea.KeyEnter))
	m.filters.cursor = rowIndex(t, m.filters.rows(m.state), rowSpecialty, "ENT")
	m = send(m, key(tea.KeyEnter))

	assert.Equal(t, "Cardiologist,ENT", m.store.Get(querystate.ParamSpecialties))
	assert.Equal(t, []string{"Asha Rao", "Vikram Mehta"}, names(m.doctors))

	m.filters.cursor = rowIndex(t, m.filters.rows(m.state), rowSpecialty, "Cardiologist")
	m = send(m, key(tea.KeyEnter))
	m.filters.cursor = rowIndex(t, m.filters.rows(m.state), rowSpecialty, "ENT")
	m = send(m, key(tea.KeyEnter))
	assert.False(t, m.store.State().Has(querystate.ParamSpecialties))
}

func TestModel_SpecialtySubSearch(t *testing.T) {
	m := newLoadedModel(t, "")
	m = send(m, key(tea.KeyTab))
	m.filters.cursor = rowIndex(t, m.filters.rows(m.state), rowSpecialtySearch, "")
	m = typeText(m, "den")

	var shown []string
	for _, row := range m.filters.rows(m.state) {
		if row.kind == rowSpecialty {
			shown = append(shown, row.value)
		}
	}
	assert.Equal(t, []string{"Dentist"}, shown)
	assert.False(t, m.store.State().Has(querystate.ParamSpecialties))
}

func TestModel_CollapseSection(t *testing.T) {
	m := newLoadedModel(t, "")
	m = send(m, key(tea.KeyTab))
	before := len(m.filters.rows(m.state))

	m = send(m, key(tea.KeyEnter))
	assert.False(t, m.filters.expanded[sectionSort])
	assert.Equal(t, before-2, len(m.filters.rows(m.state)))
}

func TestModel_ClearAll(t *testing.T) {
	m := newLoadedModel(t, "search=as&sortBy=fees&consultationType=video&ref=mail")
	m = send(m, key(tea.KeyCtrlX))

	assert.Empty(t, m.store.State())
	assert.Equal(t, "/?ref=mail", m.Location())
	assert.Empty(t, m.search.input.Value())
	assert.Equal(t, []int{2, 2}, historyPosition(m))
	assert.Len(t, m.doctors, 3)

	m = send(m, tea.KeyMsg{Type: tea.KeyLeft, Alt: true})
	assert.Equal(t, "as", m.search.input.Value())
	assert.Equal(t, querystate.ConsultationVideo, m.store.Get(querystate.ParamConsultationType))
}

func TestModel_ClearAllRowOnlyWithActiveFilters(t *testing.T) {
	m := newLoadedModel(t, "search=as")
	for _, row := range m.filters.rows(m.state) {
		assert.NotEqual(t, rowClearAll, row.kind)
	}

	m = newLoadedModel(t, "sortBy=fees")
	rows := m.filters.rows(m.state)
	assert.Equal(t, rowClearAll, rows[len(rows)-1].kind)
}

func TestModel_EmptyState(t *testing.T) {
	m := newLoadedModel(t, "")
	m = typeText(m, "zzz")

	assert.Empty(t, m.doctors)
	assert.Contains(t, m.View(), "No doctors found")
}

func TestModel_LoadingAndErrorViews(t *testing.T) {
	directory := services.NewDirectoryService(staticClient{err: errors.New("boom")})
	m := NewModel(context.Background(), directory, "")
	defer m.Close()

	assert.Contains(t, m.View(), "Loading doctors")

	// Typing before the listing arrives only updates the address bar
	m = typeText(m, "as")
	assert.Equal(t, "/?search=as", m.Location())
	assert.Empty(t, m.search.suggestions)

	m = send(m, loadedMsg{err: errors.New("failed to fetch doctor data")})
	view := m.View()
	assert.Contains(t, view, "Something went wrong")
	assert.Contains(t, view, "failed to fetch doctor data")
	assert.NotContains(t, view, "Doctor Directory")
}

func TestModel_QuitKey(t *testing.T) {
	m := newLoadedModel(t, "")
	_, cmd := m.Update(key(tea.KeyCtrlC))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func rowIndex(t *testing.T, rows []filterRow, kind rowKind, value string) int {
	t.Helper()
	for i, row := range rows {
		if row.kind == kind && row.value == value {
			return i
		}
	}
	t.Fatalf("row %d %q not found", kind, value)
	return -1
}
