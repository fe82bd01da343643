package pipeline

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/zatekoja/doctordirectory/internal/domain/entities"
	"github.com/zatekoja/doctordirectory/internal/domain/querystate"
)

func fixtureDoctors() []entities.Doctor {
	return []entities.Doctor{
		{
			Name:              "Dr. Asha Rao",
			Specialties:       []string{"Cardiologist"},
			ConsultationModes: []string{"video", "clinic"},
			Experience:        12,
			Fee:               800,
			Clinic:            entities.Clinic{Name: "Heart Care Centre"},
			Location:          "Bandra",
		},
		{
			Name:              "Dr. Vikram Mehta",
			Specialties:       []string{"ENT"},
			ConsultationModes: []string{"clinic"},
			Experience:        20,
			Fee:               500,
			Clinic:            entities.Clinic{Name: "Mehta ENT Clinic"},
			Location:          "Andheri",
		},
		{
			Name:              "Dr. Neha Kapoor",
			Specialties:       []string{"Dermatology", "Cosmetology"},
			ConsultationModes: []string{"video"},
			Experience:        7,
			Fee:               500,
			Clinic:            entities.Clinic{Name: "Skin First"},
			Location:          "Powai",
		},
		{
			Name:        "Dr. Rohan Iyer",
			Specialties: []string{"Cardiology"},
			Experience:  0,
			Fee:         0,
		},
	}
}

func names(doctors []entities.Doctor) []string {
	out := make([]string, 0, len(doctors))
	for _, d := range doctors {
		out = append(out, d.Name)
	}
	return out
}

func TestApply(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{
			name:  "no parameters keeps listing order",
			query: "",
			want:  []string{"Dr. Asha Rao", "Dr. Vikram Mehta", "Dr. Neha Kapoor", "Dr. Rohan Iyer"},
		},
		{
			name:  "free text matches specialty when name does not",
			query: "search=cardio",
			want:  []string{"Dr. Asha Rao", "Dr. Rohan Iyer"},
		},
		{
			name:  "free text matches clinic name",
			query: "search=skin+first",
			want:  []string{"Dr. Neha Kapoor"},
		},
		{
			name:  "free text matches location",
			query: "search=ANDHERI",
			want:  []string{"Dr. Vikram Mehta"},
		},
		{
			name:  "video consultation",
			query: "consultationType=video",
			want:  []string{"Dr. Asha Rao", "Dr. Neha Kapoor"},
		},
		{
			name:  "clinic consultation",
			query: "consultationType=clinic",
			want:  []string{"Dr. Asha Rao", "Dr. Vikram Mehta"},
		},
		{
			name:  "specialties use OR semantics",
			query: "specialties=Dermatology,ENT",
			want:  []string{"Dr. Vikram Mehta", "Dr. Neha Kapoor"},
		},
		{
			name:  "specialties ignore case",
			query: "specialties=cardiologist",
			want:  []string{"Dr. Asha Rao"},
		},
		{
			name:  "fees ascending is stable",
			query: "sortBy=fees",
			want:  []string{"Dr. Rohan Iyer", "Dr. Vikram Mehta", "Dr. Neha Kapoor", "Dr. Asha Rao"},
		},
		{
			name:  "experience descending",
			query: "sortBy=experience",
			want:  []string{"Dr. Vikram Mehta", "Dr. Asha Rao", "Dr. Neha Kapoor", "Dr. Rohan Iyer"},
		},
		{
			name:  "unknown sort key is a no-op",
			query: "sortBy=rating",
			want:  []string{"Dr. Asha Rao", "Dr. Vikram Mehta", "Dr. Neha Kapoor", "Dr. Rohan Iyer"},
		},
		{
			name:  "stages combine",
			query: "consultationType=video&specialties=Dermatology,Cardiologist&sortBy=fees",
			want:  []string{"Dr. Neha Kapoor", "Dr. Asha Rao"},
		},
		{
			name:  "empty values are skipped",
			query: "search=&consultationType=&specialties=,&sortBy=",
			want:  []string{"Dr. Asha Rao", "Dr. Vikram Mehta", "Dr. Neha Kapoor", "Dr. Rohan Iyer"},
		},
		{
			name:  "no match",
			query: "search=orthopedic",
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := names(Apply(fixtureDoctors(), querystate.Parse(tt.query)))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Apply(%q) mismatch (-want +got):\n%s", tt.query, diff)
			}
		})
	}
}

func TestApply_SpecialtyFilterExcludesNonMatching(t *testing.T) {
	doctors := []entities.Doctor{
		{Name: "A", Specialties: []string{"ENT"}},
		{Name: "B", Specialties: []string{"Cardiology"}},
	}

	got := Apply(doctors, querystate.State{querystate.ParamSpecialties: "Dermatology,ENT"})

	assert.Equal(t, []string{"A"}, names(got))
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	doctors := fixtureDoctors()
	before := names(doctors)

	Apply(doctors, querystate.Parse("search=dr&sortBy=fees"))

	assert.Equal(t, before, names(doctors))
}

func TestSpecialties(t *testing.T) {
	got := Specialties(fixtureDoctors())

	assert.Equal(t, []string{"Cardiologist", "Cardiology", "Cosmetology", "Dermatology", "ENT"}, got)
}

func TestFilterSpecialties(t *testing.T) {
	all := []string{"Cardiologist", "Dentist", "Dermatology"}

	assert.Equal(t, []string{"Dentist", "Dermatology"}, FilterSpecialties(all, "DE"))
	assert.Equal(t, all, FilterSpecialties(all, "  "))
	assert.Empty(t, FilterSpecialties(all, "xyz"))
}
