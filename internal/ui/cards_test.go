package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zatekoja/doctordirectory/internal/domain/entities"
)

func TestRenderCard(t *testing.T) {
	card := renderCard(entities.Doctor{
		Name:              "Asha Rao",
		Specialties:       []string{"Cardiologist", "Physician"},
		ConsultationModes: []string{"video", "clinic"},
		Experience:        12,
		Fee:               800,
		Qualification:     "MBBS, MD",
		Clinic:            entities.Clinic{Name: "Heart Care"},
		Location:          "Indiranagar",
	}, DefaultStyles(), 100)

	for _, want := range []string{"AR", "Dr. Asha Rao", "Cardiologist, Physician", "MBBS, MD", "12 Years of experience", "Heart Care", "Indiranagar", "Video Consult · In Clinic", "₹800"} {
		assert.Contains(t, card, want)
	}
}

func TestRenderCard_Placeholders(t *testing.T) {
	card := renderCard(entities.Doctor{Name: "Dr. Neha"}, DefaultStyles(), 100)

	for _, want := range []string{"NE", "Dr. Neha", "Experience not specified", "Clinic Name Unavailable", "Location not specified", "₹0"} {
		assert.Contains(t, card, want)
	}
	assert.NotContains(t, card, "Dr. Dr.")
}

func TestRenderCards_Empty(t *testing.T) {
	assert.Equal(t, emptyResults, renderCards(nil, DefaultStyles(), 80))
}
