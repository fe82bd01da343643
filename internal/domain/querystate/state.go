// Package querystate keeps the active filter and sort parameters of the
// doctor directory in sync with a location's query string and its history.
package querystate

import (
	"net/url"
	"strings"
)

// Recognized parameter names. Any other query parameter is ignored.
const (
	ParamSearch           = "search"
	ParamConsultationType = "consultationType"
	ParamSpecialties      = "specialties"
	ParamSortBy           = "sortBy"
)

// Values accepted for consultationType and sortBy.
const (
	ConsultationVideo  = "video"
	ConsultationClinic = "clinic"

	SortByFees       = "fees"
	SortByExperience = "experience"
)

var recognized = map[string]struct{}{
	ParamSearch:           {},
	ParamConsultationType: {},
	ParamSpecialties:      {},
	ParamSortBy:           {},
}

// Params lists the recognized parameter names in a stable order.
func Params() []string {
	return []string{ParamSearch, ParamConsultationType, ParamSpecialties, ParamSortBy}
}

// IsRecognized reports whether name is one of the recognized parameters.
func IsRecognized(name string) bool {
	_, ok := recognized[name]
	return ok
}

// State maps recognized parameter names to their values. A missing key means
// "no constraint".
type State map[string]string

// Parse builds a State from a raw query string, with or without the leading
// "?". Malformed pairs and unrecognized keys are dropped; for repeated keys
// the first value wins.
func Parse(rawQuery string) State {
	values, _ := url.ParseQuery(strings.TrimPrefix(rawQuery, "?"))
	return FromValues(values)
}

// FromValues keeps the recognized keys of already parsed query values.
func FromValues(values url.Values) State {
	s := State{}
	for name, vs := range values {
		if !IsRecognized(name) || len(vs) == 0 {
			continue
		}
		s[name] = vs[0]
	}
	return s
}

// Get returns the value for name, or "" when it is absent or unknown.
func (s State) Get(name string) string {
	return s[name]
}

// Has reports whether name carries a non-empty value.
func (s State) Has(name string) bool {
	return strings.TrimSpace(s[name]) != ""
}

// Specialties splits the comma-joined specialties parameter, dropping blanks.
func (s State) Specialties() []string {
	return SplitSpecialties(s[ParamSpecialties])
}

// Values converts the state to url.Values.
func (s State) Values() url.Values {
	values := url.Values{}
	for name, v := range s {
		values.Set(name, v)
	}
	return values
}

// Encode serializes the state as a query string with keys in sorted order.
func (s State) Encode() string {
	return s.Values().Encode()
}

// Clone returns an independent copy.
func (s State) Clone() State {
	out := make(State, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Equal reports whether both states hold the same pairs.
func (s State) Equal(other State) bool {
	if len(s) != len(other) {
		return false
	}
	for k, v := range s {
		if ov, ok := other[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// SplitSpecialties splits a comma-joined specialty list. Commas inside a
// specialty name are not escaped and therefore always split.
func SplitSpecialties(joined string) []string {
	if joined == "" {
		return nil
	}
	parts := strings.Split(joined, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// JoinSpecialties is the inverse of SplitSpecialties.
func JoinSpecialties(specialties []string) string {
	return strings.Join(specialties, ",")
}
