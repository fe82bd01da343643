package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zatekoja/doctordirectory/internal/domain/querystate"
	"github.com/zatekoja/doctordirectory/internal/query/pipeline"
)

// Filter panel sections.
const (
	sectionSort        = "sort"
	sectionSpecialties = "specialties"
	sectionMode        = "mode"
)

type rowKind int

const (
	rowSection rowKind = iota
	rowSort
	rowSpecialtySearch
	rowSpecialty
	rowMode
	rowModeAll
	rowClearAll
)

type filterRow struct {
	kind    rowKind
	section string
	value   string
	label   string
}

var sectionTitles = map[string]string{
	sectionSort:        "Sort by",
	sectionSpecialties: "Specialities",
	sectionMode:        "Mode of consultation",
}

// filterPanel renders the sort, specialty and consultation mode controls.
// Which options are selected is never stored here; it is read from the
// query state on every render.
type filterPanel struct {
	expanded        map[string]bool
	cursor          int
	specialtySearch textinput.Model
	specialties     []string
}

func newFilterPanel() filterPanel {
	ti := textinput.New()
	ti.Placeholder = "Search specialities"
	ti.Prompt = "/ "
	ti.CharLimit = 64

	return filterPanel{
		expanded: map[string]bool{
			sectionSort:        true,
			sectionSpecialties: true,
			sectionMode:        true,
		},
		specialtySearch: ti,
	}
}

// rows lays out the panel for state. "Clear All" is only offered while a
// filter or the sort is active.
func (p filterPanel) rows(state querystate.State) []filterRow {
	var rows []filterRow

	rows = append(rows, filterRow{kind: rowSection, section: sectionSort})
	if p.expanded[sectionSort] {
		rows = append(rows,
			filterRow{kind: rowSort, value: querystate.SortByFees, label: "Price: Low-High"},
			filterRow{kind: rowSort, value: querystate.SortByExperience, label: "Experience: Most Experience first"},
		)
	}

	rows = append(rows, filterRow{kind: rowSection, section: sectionSpecialties})
	if p.expanded[sectionSpecialties] {
		rows = append(rows, filterRow{kind: rowSpecialtySearch})
		for _, s := range pipeline.FilterSpecialties(p.specialties, p.specialtySearch.Value()) {
			rows = append(rows, filterRow{kind: rowSpecialty, value: s, label: s})
		}
	}

	rows = append(rows, filterRow{kind: rowSection, section: sectionMode})
	if p.expanded[sectionMode] {
		rows = append(rows,
			filterRow{kind: rowMode, value: querystate.ConsultationVideo, label: "Video Consultation"},
			filterRow{kind: rowMode, value: querystate.ConsultationClinic, label: "In-clinic Consultation"},
			filterRow{kind: rowModeAll, label: "All"},
		)
	}

	if hasActiveFilters(state) {
		rows = append(rows, filterRow{kind: rowClearAll, label: "Clear All"})
	}
	return rows
}

func hasActiveFilters(state querystate.State) bool {
	return state.Get(querystate.ParamConsultationType) != "" ||
		len(state.Specialties()) > 0 ||
		state.Get(querystate.ParamSortBy) != ""
}

func (p *filterPanel) clampCursor(n int) {
	if p.cursor >= n {
		p.cursor = n - 1
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
}

func (p *filterPanel) focusRow(rows []filterRow) {
	p.clampCursor(len(rows))
	if len(rows) > 0 && rows[p.cursor].kind == rowSpecialtySearch {
		p.specialtySearch.Focus()
	} else {
		p.specialtySearch.Blur()
	}
}

// update handles a key while the panel has focus.
func (p filterPanel) update(msg tea.KeyMsg, store *querystate.Store) (filterPanel, tea.Cmd) {
	rows := p.rows(store.State())
	p.clampCursor(len(rows))

	switch msg.String() {
	case "up":
		p.cursor--
		p.focusRow(rows)
		return p, nil
	case "down":
		p.cursor++
		p.focusRow(rows)
		return p, nil
	}

	if len(rows) == 0 {
		return p, nil
	}
	row := rows[p.cursor]

	if row.kind == rowSpecialtySearch {
		var cmd tea.Cmd
		p.specialtySearch.Focus()
		p.specialtySearch, cmd = p.specialtySearch.Update(msg)
		return p, cmd
	}

	switch msg.String() {
	case "enter", " ":
		p.activate(row, store)
		p.focusRow(p.rows(store.State()))
	}
	return p, nil
}

// activate performs the row's action. Every filter change is a complete,
// user-intended change and becomes a history entry.
func (p *filterPanel) activate(row filterRow, store *querystate.Store) {
	switch row.kind {
	case rowSection:
		p.expanded[row.section] = !p.expanded[row.section]
	case rowSort:
		commitRadio(store, querystate.ParamSortBy, row.value)
	case rowMode:
		commitRadio(store, querystate.ParamConsultationType, row.value)
	case rowModeAll:
		store.Commit(func(st querystate.State) {
			delete(st, querystate.ParamConsultationType)
		})
	case rowSpecialty:
		store.Commit(func(st querystate.State) {
			selected := toggle(st.Specialties(), row.value)
			if len(selected) == 0 {
				delete(st, querystate.ParamSpecialties)
				return
			}
			st[querystate.ParamSpecialties] = querystate.JoinSpecialties(selected)
		})
	case rowClearAll:
		p.specialtySearch.SetValue("")
		store.ClearAll()
	}
}

// commitRadio selects value for name, or clears it when it is already the
// selected value.
func commitRadio(store *querystate.Store, name, value string) {
	store.Commit(func(st querystate.State) {
		if st.Get(name) == value {
			delete(st, name)
			return
		}
		st[name] = value
	})
}

func toggle(selected []string, value string) []string {
	out := make([]string, 0, len(selected)+1)
	found := false
	for _, s := range selected {
		if strings.EqualFold(s, value) {
			found = true
			continue
		}
		out = append(out, s)
	}
	if !found {
		out = append(out, value)
	}
	return out
}

func (p filterPanel) view(state querystate.State, styles Styles, focused bool) string {
	var b strings.Builder
	b.WriteString(styles.Section.Render("Filters"))
	b.WriteString("\n")

	for i, row := range p.rows(state) {
		pointer := "  "
		if focused && i == p.cursor {
			pointer = styles.Cursor.Render("> ")
		}
		b.WriteString(pointer)
		b.WriteString(p.renderRow(row, state, styles))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (p filterPanel) renderRow(row filterRow, state querystate.State, styles Styles) string {
	switch row.kind {
	case rowSection:
		arrow := "▸"
		if p.expanded[row.section] {
			arrow = "▾"
		}
		return styles.Section.Render(fmt.Sprintf("%s %s", arrow, sectionTitles[row.section]))
	case rowSort:
		return radio(state.Get(querystate.ParamSortBy) == row.value) + row.label
	case rowMode:
		return radio(state.Get(querystate.ParamConsultationType) == row.value) + row.label
	case rowModeAll:
		return radio(state.Get(querystate.ParamConsultationType) == "") + row.label
	case rowSpecialtySearch:
		return p.specialtySearch.View()
	case rowSpecialty:
		return checkbox(containsFold(state.Specialties(), row.value)) + row.label
	case rowClearAll:
		return styles.Location.Render(row.label)
	}
	return ""
}

func radio(on bool) string {
	if on {
		return "(•) "
	}
	return "( ) "
}

func checkbox(on bool) string {
	if on {
		return "[x] "
	}
	return "[ ] "
}

func containsFold(values []string, v string) bool {
	for _, s := range values {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}
