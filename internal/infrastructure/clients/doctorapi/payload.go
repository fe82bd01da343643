package doctorapi

import (
	"bytes"
	"encoding/json"
	"html"
	"math"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/zatekoja/doctordirectory/internal/domain/entities"
)

// textPolicy strips any markup from display strings in the remote listing.
var textPolicy = bluemonday.StrictPolicy()

// DoctorRecord is one entry of the remote listing. The listing is loosely
// typed: most fields arrive either as a scalar or a list, as a number or a
// formatted string, so every field decodes tolerantly and never fails.
type DoctorRecord struct {
	ID               FlexString  `json:"id"`
	Name             FlexString  `json:"name"`
	Specialty        FlexStrings `json:"specialty"`
	Specialities     FlexStrings `json:"specialities"`
	ConsultationMode FlexStrings `json:"consultationMode"`
	VideoConsult     *bool       `json:"video_consult"`
	InClinic         *bool       `json:"in_clinic"`
	Experience       FlexNumber  `json:"experience"`
	Fees             FlexNumber  `json:"fees"`
	Qualification    FlexString  `json:"qualification"`
	Introduction     FlexString  `json:"doctor_introduction"`
	Clinic           FlexClinic  `json:"clinic"`
	Location         FlexString  `json:"location"`
	Photo            FlexString  `json:"photo"`
}

// ToDoctor normalizes a record into its canonical shape.
func (r DoctorRecord) ToDoctor() entities.Doctor {
	specialties := append([]string{}, r.Specialty...)
	specialties = append(specialties, r.Specialities...)

	modes := append([]string{}, r.ConsultationMode...)
	if r.VideoConsult != nil && *r.VideoConsult {
		modes = append(modes, entities.ConsultationModeVideo)
	}
	if r.InClinic != nil && *r.InClinic {
		modes = append(modes, entities.ConsultationModeClinic)
	}

	qualification := clean(string(r.Qualification))
	if qualification == "" {
		qualification = clean(string(r.Introduction))
	}

	location := clean(string(r.Location))
	if location == "" {
		location = r.Clinic.Locality
	}

	return entities.Doctor{
		ID:                strings.TrimSpace(string(r.ID)),
		Name:              clean(string(r.Name)),
		Specialties:       entities.NormalizeSpecialties(cleanAll(specialties)),
		ConsultationModes: entities.NormalizeConsultationModes(modes),
		Experience:        years(r.Experience),
		Fee:               float64(r.Fees),
		Qualification:     qualification,
		Clinic: entities.Clinic{
			Name:    r.Clinic.Name,
			Address: r.Clinic.Address,
		},
		Location: location,
		Photo:    strings.TrimSpace(string(r.Photo)),
	}
}

// maxExperienceYears bounds the float to int conversion.
const maxExperienceYears = math.MaxInt32

func years(n FlexNumber) int {
	if n >= maxExperienceYears {
		return maxExperienceYears
	}
	return int(n)
}

// FlexString accepts a string or a number; anything else decodes to "".
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (s *FlexString) UnmarshalJSON(data []byte) error {
	*s = ""
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = FlexString(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err == nil {
		*s = FlexString(num.String())
	}
	return nil
}

// FlexStrings accepts a single string, a list of strings, or a list of
// objects carrying a "name" field.
type FlexStrings []string

// UnmarshalJSON implements json.Unmarshaler.
func (s *FlexStrings) UnmarshalJSON(data []byte) error {
	*s = nil
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if single != "" {
			*s = FlexStrings{single}
		}
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil
	}
	out := make(FlexStrings, 0, len(items))
	for _, item := range items {
		var str string
		if err := json.Unmarshal(item, &str); err == nil {
			out = append(out, str)
			continue
		}
		var named struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(item, &named); err == nil && named.Name != "" {
			out = append(out, named.Name)
		}
	}
	*s = out
	return nil
}

// FlexNumber accepts a number or a string with symbols around the digits,
// e.g. "₹ 500". Missing, non-numeric and negative values decode to 0.
type FlexNumber float64

// UnmarshalJSON implements json.Unmarshaler.
func (n *FlexNumber) UnmarshalJSON(data []byte) error {
	*n = 0
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		if f > 0 {
			*n = FlexNumber(f)
		}
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*n = FlexNumber(entities.ParseAmount(str))
	}
	return nil
}

// FlexClinic accepts a clinic name or an object with a name and an address
// that is itself either a string or a structured address.
type FlexClinic struct {
	Name     string
	Address  string
	Locality string
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *FlexClinic) UnmarshalJSON(data []byte) error {
	*c = FlexClinic{}
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		c.Name = clean(name)
		return nil
	}

	var obj struct {
		Name    FlexString      `json:"name"`
		Address json.RawMessage `json:"address"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil
	}
	c.Name = clean(string(obj.Name))

	raw := bytes.TrimSpace(obj.Address)
	if len(raw) == 0 {
		return nil
	}
	var line string
	if err := json.Unmarshal(raw, &line); err == nil {
		c.Address = clean(line)
		return nil
	}
	var addr struct {
		Line1    FlexString `json:"address_line1"`
		Locality FlexString `json:"locality"`
		City     FlexString `json:"city"`
	}
	if err := json.Unmarshal(raw, &addr); err == nil {
		locality := joinNonEmpty(", ", clean(string(addr.Locality)), clean(string(addr.City)))
		c.Address = joinNonEmpty(", ", clean(string(addr.Line1)), locality)
		c.Locality = locality
	}
	return nil
}

func clean(s string) string {
	return strings.Join(strings.Fields(html.UnescapeString(textPolicy.Sanitize(s))), " ")
}

func cleanAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, clean(s))
	}
	return out
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
