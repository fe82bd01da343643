package entities

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Consultation modes every source label is normalized to.
const (
	ConsultationModeVideo  = "video"
	ConsultationModeClinic = "clinic"
)

// Doctor represents a healthcare provider listing. Doctors are built once
// from the remote listing and never modified afterwards.
type Doctor struct {
	ID                string   `json:"id,omitempty"`
	Name              string   `json:"name"`
	Specialties       []string `json:"specialties"`
	ConsultationModes []string `json:"consultation_modes"`
	Experience        int      `json:"experience"`
	Fee               float64  `json:"fee"`
	Qualification     string   `json:"qualification,omitempty"`
	Clinic            Clinic   `json:"clinic"`
	Location          string   `json:"location,omitempty"`
	Photo             string   `json:"photo,omitempty"`
}

// Clinic is the practice a doctor consults from
type Clinic struct {
	Name    string `json:"name,omitempty"`
	Address string `json:"address,omitempty"`
}

// HasConsultationMode reports whether any of the doctor's modes contains mode,
// ignoring case.
func (d Doctor) HasConsultationMode(mode string) bool {
	mode = strings.ToLower(strings.TrimSpace(mode))
	if mode == "" {
		return false
	}
	for _, m := range d.ConsultationModes {
		if strings.Contains(strings.ToLower(m), mode) {
			return true
		}
	}
	return false
}

// DisplayName returns the name prefixed with "Dr." unless it already is.
func (d Doctor) DisplayName() string {
	name := strings.TrimSpace(d.Name)
	if hasDoctorPrefix(name) {
		return name
	}
	return "Dr. " + name
}

// Initials returns up to two letters for the avatar. The "Dr." title is not
// part of the initials.
func (d Doctor) Initials() string {
	words := strings.Fields(d.Name)
	if len(words) > 0 && hasDoctorPrefix(words[0]) {
		words = words[1:]
	}
	switch {
	case len(words) == 0:
		return "DR"
	case len(words) == 1:
		return strings.ToUpper(firstRunes(words[0], 2))
	default:
		return strings.ToUpper(firstRunes(words[0], 1) + firstRunes(words[1], 1))
	}
}

// ExperienceLabel renders the experience line of a doctor card.
func (d Doctor) ExperienceLabel() string {
	if d.Experience <= 0 {
		return "Experience not specified"
	}
	return fmt.Sprintf("%d Years of experience", d.Experience)
}

// FeeLabel renders the consultation fee in rupees.
func (d Doctor) FeeLabel() string {
	return "₹" + strconv.FormatFloat(d.Fee, 'f', -1, 64)
}

// ClinicLabel renders the clinic name or a placeholder.
func (d Doctor) ClinicLabel() string {
	if d.Clinic.Name == "" {
		return "Clinic Name Unavailable"
	}
	return d.Clinic.Name
}

// LocationLabel renders the location or a placeholder.
func (d Doctor) LocationLabel() string {
	if d.Location == "" {
		return "Location not specified"
	}
	return d.Location
}

// NormalizeConsultationMode maps a free-form source label onto the fixed
// vocabulary. Unknown labels are returned lower-cased; blank labels yield "".
func NormalizeConsultationMode(label string) string {
	l := strings.ToLower(strings.TrimSpace(label))
	switch {
	case l == "":
		return ""
	case strings.Contains(l, "video"), strings.Contains(l, "online"), strings.Contains(l, "tele"):
		return ConsultationModeVideo
	case strings.Contains(l, "clinic"), strings.Contains(l, "person"), strings.Contains(l, "visit"):
		return ConsultationModeClinic
	default:
		return l
	}
}

// NormalizeConsultationModes normalizes and de-duplicates labels, keeping
// first-seen order.
func NormalizeConsultationModes(labels []string) []string {
	out := make([]string, 0, len(labels))
	seen := make(map[string]struct{}, len(labels))
	for _, label := range labels {
		mode := NormalizeConsultationMode(label)
		if mode == "" {
			continue
		}
		if _, ok := seen[mode]; ok {
			continue
		}
		seen[mode] = struct{}{}
		out = append(out, mode)
	}
	return out
}

// NormalizeSpecialties trims labels and drops blanks and case-insensitive
// duplicates, keeping first-seen order and spelling.
func NormalizeSpecialties(labels []string) []string {
	out := make([]string, 0, len(labels))
	seen := make(map[string]struct{}, len(labels))
	for _, label := range labels {
		label = strings.Join(strings.Fields(label), " ")
		if label == "" {
			continue
		}
		key := strings.ToLower(label)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, label)
	}
	return out
}

var amountPattern = regexp.MustCompile(`-?\d[\d,]*(?:\.\d+)?`)

// ParseAmount extracts the first number from strings such as "₹ 1,200" or
// "13 Years of experience". Missing, non-numeric and negative input yield 0.
func ParseAmount(s string) float64 {
	match := amountPattern.FindString(s)
	if match == "" {
		return 0
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(match, ",", ""), 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

func hasDoctorPrefix(s string) bool {
	lower := strings.ToLower(s)
	return lower == "dr" || strings.HasPrefix(lower, "dr.") || strings.HasPrefix(lower, "dr ")
}

func firstRunes(s string, n int) string {
	var b strings.Builder
	for len(s) > 0 && n > 0 {
		r, size := utf8.DecodeRuneInString(s)
		s = s[size:]
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		b.WriteRune(r)
		n--
	}
	return b.String()
}
