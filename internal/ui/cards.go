package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/zatekoja/doctordirectory/internal/domain/entities"
)

const emptyResults = "No doctors found"

var modeLabels = map[string]string{
	entities.ConsultationModeVideo:  "Video Consult",
	entities.ConsultationModeClinic: "In Clinic",
}

// renderCard draws one doctor: avatar, name, specialties, qualification,
// experience, clinic, location, modes and fee.
func renderCard(d entities.Doctor, styles Styles, width int) string {
	avatar := styles.Avatar.Render(d.Initials())

	lines := []string{styles.CardTitle.Render(d.DisplayName())}
	if len(d.Specialties) > 0 {
		lines = append(lines, strings.Join(d.Specialties, ", "))
	}
	if d.Qualification != "" {
		lines = append(lines, styles.Muted.Render(d.Qualification))
	}
	lines = append(lines,
		d.ExperienceLabel(),
		d.ClinicLabel(),
		styles.Muted.Render(d.LocationLabel()),
	)
	if modes := renderModes(d.ConsultationModes); modes != "" {
		lines = append(lines, styles.Muted.Render(modes))
	}
	lines = append(lines, styles.Fee.Render(d.FeeLabel()))

	body := lipgloss.JoinVertical(lipgloss.Left, lines...)
	card := lipgloss.JoinHorizontal(lipgloss.Top, avatar, " ", body)

	style := styles.Card
	if width > 4 {
		style = style.Width(width - 2)
	}
	return style.Render(card)
}

func renderModes(modes []string) string {
	labels := make([]string, 0, len(modes))
	for _, mode := range modes {
		if label, ok := modeLabels[mode]; ok {
			labels = append(labels, label)
		} else if mode != "" {
			labels = append(labels, mode)
		}
	}
	return strings.Join(labels, " · ")
}

// renderCards draws the result list, or the empty state.
func renderCards(doctors []entities.Doctor, styles Styles, width int) string {
	if len(doctors) == 0 {
		return styles.Muted.Render(emptyResults)
	}

	cards := make([]string, 0, len(doctors))
	for _, d := range doctors {
		cards = append(cards, renderCard(d, styles, width))
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}
