package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/zatekoja/doctordirectory/internal/application/services"
	"github.com/zatekoja/doctordirectory/internal/domain/entities"
	"github.com/zatekoja/doctordirectory/internal/domain/querystate"
	"github.com/zatekoja/doctordirectory/internal/infrastructure/observability"
	"github.com/zatekoja/doctordirectory/internal/query/pipeline"
	apperrors "github.com/zatekoja/doctordirectory/pkg/errors"
)

// MaxSuggestionLimit caps the limit parameter of the suggest endpoint.
const MaxSuggestionLimit = 20

// DoctorDirectory is the read side of the doctor listing.
type DoctorDirectory interface {
	Search(ctx context.Context, state querystate.State) ([]entities.Doctor, error)
	Suggest(input string, limit int) ([]entities.Doctor, error)
	Specialties(q string) ([]string, error)
	Get(id string) (*entities.Doctor, error)
	Status() (services.DirectoryStatus, error)
	Count() int
}

// DoctorHandler handles doctor listing HTTP requests
type DoctorHandler struct {
	directory DoctorDirectory
}

// NewDoctorHandler creates a new doctor handler
func NewDoctorHandler(directory DoctorDirectory) *DoctorHandler {
	return &DoctorHandler{
		directory: directory,
	}
}

// Suggestion is one autocomplete entry.
type Suggestion struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ListDoctors handles GET /api/doctors
func (h *DoctorHandler) ListDoctors(w http.ResponseWriter, r *http.Request) {
	state := querystate.FromValues(r.URL.Query())

	doctors, err := h.directory.Search(r.Context(), state)
	if err != nil {
		observability.LoggerFromContext(r.Context()).Warn().Err(err).Msg("doctor search failed")
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]any{
		"doctors": doctors,
		"count":   len(doctors),
		"total":   h.directory.Count(),
		"query":   state.Encode(),
	})
}

// SuggestDoctors handles GET /api/doctors/suggest
func (h *DoctorHandler) SuggestDoctors(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit := pipeline.DefaultSuggestionLimit
	if raw := strings.TrimSpace(query.Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > MaxSuggestionLimit {
			respondWithAppError(w, apperrors.NewValidationError("limit must be an integer between 1 and 20"))
			return
		}
		limit = n
	}

	doctors, err := h.directory.Suggest(query.Get("q"), limit)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	suggestions := make([]Suggestion, 0, len(doctors))
	for _, d := range doctors {
		suggestions = append(suggestions, Suggestion{ID: d.ID, Name: d.Name})
	}

	respondWithJSON(w, http.StatusOK, map[string]any{
		"suggestions": suggestions,
		"count":       len(suggestions),
	})
}

// GetDoctor handles GET /api/doctors/{id}
func (h *DoctorHandler) GetDoctor(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "doctor ID is required")
		return
	}

	doctor, err := h.directory.Get(id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, doctor)
}

// ListSpecialties handles GET /api/specialties
func (h *DoctorHandler) ListSpecialties(w http.ResponseWriter, r *http.Request) {
	specialties, err := h.directory.Specialties(r.URL.Query().Get("q"))
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	if specialties == nil {
		specialties = []string{}
	}

	respondWithJSON(w, http.StatusOK, map[string]any{
		"specialties": specialties,
		"count":       len(specialties),
	})
}

// GetStatus handles GET /api/status
func (h *DoctorHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.directory.Status()

	body := map[string]any{
		"status": status,
		"count":  h.directory.Count(),
	}
	if err != nil {
		body["error"] = err.Error()
		if appErr, ok := apperrors.AsAppError(err); ok {
			body["error"] = appErr.Message
		}
	}

	respondWithJSON(w, http.StatusOK, body)
}
