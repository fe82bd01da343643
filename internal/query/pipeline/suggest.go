package pipeline

import (
	"strings"

	"github.com/zatekoja/doctordirectory/internal/domain/entities"
)

// DefaultSuggestionLimit is the number of names offered while typing.
const DefaultSuggestionLimit = 3

// Suggest returns up to limit doctors whose name contains input, ignoring
// case, in listing order. Blank input yields no suggestions. Only names are
// matched; specialties and locations are not.
func Suggest(doctors []entities.Doctor, input string, limit int) []entities.Doctor {
	q := strings.ToLower(strings.TrimSpace(input))
	if q == "" {
		return nil
	}
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}

	var out []entities.Doctor
	for _, d := range doctors {
		if !containsFold(d.Name, q) {
			continue
		}
		out = append(out, d)
		if len(out) == limit {
			break
		}
	}
	return out
}
