package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zatekoja/doctordirectory/internal/domain/entities"
	"github.com/zatekoja/doctordirectory/internal/domain/querystate"
	"github.com/zatekoja/doctordirectory/internal/query/pipeline"
)

// searchBox is the free-text input with its suggestion list. selected is -1
// when no suggestion is highlighted.
type searchBox struct {
	input       textinput.Model
	suggestions []entities.Doctor
	selected    int
}

func newSearchBox(value string) searchBox {
	ti := textinput.New()
	ti.Placeholder = "Search Symptoms, Doctors, Specialists, Clinics"
	ti.Prompt = "Search: "
	ti.CharLimit = 120
	ti.SetValue(value)
	ti.Focus()

	return searchBox{input: ti, selected: -1}
}

func (s searchBox) open() bool {
	return len(s.suggestions) > 0
}

func (s *searchBox) close() {
	s.suggestions = nil
	s.selected = -1
}

// setValue syncs the input with the query state without reopening
// suggestions.
func (s *searchBox) setValue(v string) {
	s.input.SetValue(v)
	s.input.CursorEnd()
}

// update handles a key while the search box has focus. Keystrokes replace
// the current history entry; choosing a suggestion or pressing enter pushes
// a new one.
func (s searchBox) update(msg tea.KeyMsg, store *querystate.Store, suggest func(string) []entities.Doctor) (searchBox, tea.Cmd) {
	switch msg.String() {
	case "up":
		if s.open() && s.selected >= 0 {
			s.selected--
		}
		return s, nil
	case "down":
		if s.open() && s.selected < len(s.suggestions)-1 {
			s.selected++
		}
		return s, nil
	case "esc":
		s.close()
		return s, nil
	case "enter":
		value := s.input.Value()
		if s.open() && s.selected >= 0 {
			value = s.suggestions[s.selected].Name
			s.setValue(value)
		}
		s.close()
		commitSearch(store, value)
		return s, nil
	}

	before := s.input.Value()
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	after := s.input.Value()
	if after == before {
		return s, cmd
	}

	s.selected = -1
	if strings.TrimSpace(after) == "" {
		s.suggestions = nil
		store.Remove(querystate.ParamSearch)
		return s, cmd
	}
	s.suggestions = suggest(after)
	store.Set(querystate.ParamSearch, after)
	return s, cmd
}

func commitSearch(store *querystate.Store, value string) {
	store.Commit(func(st querystate.State) {
		if strings.TrimSpace(value) == "" {
			delete(st, querystate.ParamSearch)
			return
		}
		st[querystate.ParamSearch] = value
	})
}

func (s searchBox) view(styles Styles, focused bool) string {
	var b strings.Builder
	b.WriteString(s.input.View())

	if focused && s.open() {
		for i, d := range s.suggestions {
			b.WriteString("\n")
			line := "  " + d.Name
			if i == s.selected {
				line = styles.Selected.Render("> " + d.Name)
			}
			b.WriteString(line)
		}
	}
	return b.String()
}

// suggestionLimit is the number of suggestions shown under the input.
const suggestionLimit = pipeline.DefaultSuggestionLimit
