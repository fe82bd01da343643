// Package pipeline derives the displayed doctor list from the full listing
// and the active query state.
package pipeline

import (
	"sort"
	"strings"

	"github.com/zatekoja/doctordirectory/internal/domain/entities"
	"github.com/zatekoja/doctordirectory/internal/domain/querystate"
)

// Apply filters and sorts doctors according to state. Stages run in a fixed
// order (free text, consultation mode, specialties, sort) and a stage whose
// parameter is absent or empty is skipped. The input slice is not modified.
func Apply(doctors []entities.Doctor, state querystate.State) []entities.Doctor {
	out := make([]entities.Doctor, 0, len(doctors))
	out = append(out, doctors...)

	if q := strings.TrimSpace(state.Get(querystate.ParamSearch)); q != "" {
		out = filter(out, func(d entities.Doctor) bool { return MatchesText(d, q) })
	}
	if mode := strings.TrimSpace(state.Get(querystate.ParamConsultationType)); mode != "" {
		out = filter(out, func(d entities.Doctor) bool { return d.HasConsultationMode(mode) })
	}
	if wanted := state.Specialties(); len(wanted) > 0 {
		set := make(map[string]struct{}, len(wanted))
		for _, s := range wanted {
			set[strings.ToLower(s)] = struct{}{}
		}
		out = filter(out, func(d entities.Doctor) bool { return hasAnySpecialty(d, set) })
	}

	SortBy(out, state.Get(querystate.ParamSortBy))
	return out
}

// MatchesText reports whether q occurs, ignoring case, in the doctor's name,
// any specialty, the clinic name or the location.
func MatchesText(d entities.Doctor, q string) bool {
	q = strings.ToLower(q)
	if containsFold(d.Name, q) || containsFold(d.Clinic.Name, q) || containsFold(d.Location, q) {
		return true
	}
	for _, s := range d.Specialties {
		if containsFold(s, q) {
			return true
		}
	}
	return false
}

// SortBy orders doctors in place: "fees" ascending, "experience" descending.
// Any other key leaves the order unchanged. Ties keep their relative order.
func SortBy(doctors []entities.Doctor, key string) {
	switch key {
	case querystate.SortByFees:
		sort.SliceStable(doctors, func(i, j int) bool { return doctors[i].Fee < doctors[j].Fee })
	case querystate.SortByExperience:
		sort.SliceStable(doctors, func(i, j int) bool { return doctors[i].Experience > doctors[j].Experience })
	}
}

// Specialties returns the sorted union of every doctor's specialties.
func Specialties(doctors []entities.Doctor) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, d := range doctors {
		for _, s := range d.Specialties {
			if s == "" {
				continue
			}
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}

// FilterSpecialties keeps the specialties containing q, ignoring case.
func FilterSpecialties(all []string, q string) []string {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return all
	}
	out := make([]string, 0, len(all))
	for _, s := range all {
		if containsFold(s, q) {
			out = append(out, s)
		}
	}
	return out
}

func filter(doctors []entities.Doctor, keep func(entities.Doctor) bool) []entities.Doctor {
	out := doctors[:0]
	for _, d := range doctors {
		if keep(d) {
			out = append(out, d)
		}
	}
	return out
}

func hasAnySpecialty(d entities.Doctor, wanted map[string]struct{}) bool {
	for _, s := range d.Specialties {
		if _, ok := wanted[strings.ToLower(strings.TrimSpace(s))]; ok {
			return true
		}
	}
	return false
}

// containsFold expects needle to be lower-cased already.
func containsFold(haystack, needle string) bool {
	return haystack != "" && strings.Contains(strings.ToLower(haystack), needle)
}
