package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/prachar-hq/apiserver/internal/services"
	"github.com/prachar-hq/apiserver/internal/store"
)

// SurveyHandler provides HTTP handlers for surveys.
type SurveyHandler struct {
	surveyService *services.SurveyService
}

// NewSurveyHandler constructs a handler over the survey service.
func NewSurveyHandler(surveyService *services.SurveyService) *SurveyHandler {
	return &SurveyHandler{surveyService: surveyService}
}

// SurveyRouter registers survey routes on the given router.
func SurveyRouter(r chi.Router, surveyService *services.SurveyService) {
	handler := NewSurveyHandler(surveyService)

	r.Get("/", handler.ListSurveys)
	r.Post("/", handler.CreateSurvey)
	r.Route("/{surveyID}", func(r chi.Router) {
		r.Get("/", handler.GetSurvey)
		r.Put("/", handler.UpdateSurvey)
		r.Delete("/", handler.DeleteSurvey)
	})
}

// ListSurveys returns surveys newest first, optionally filtered by creator
// role and assigned constituency. Both filters accept repeated params and
// comma-separated values.
func (h *SurveyHandler) ListSurveys(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := store.SurveyFilter{
		Roles:       services.ParseRoleFilter(query["role"]),
		AssignedACs: services.ParseACFilter(query["assignedAC"]),
	}

	surveys, err := h.surveyService.List(r.Context(), filter)
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, surveys)
}

func (h *SurveyHandler) GetSurvey(w http.ResponseWriter, r *http.Request) {
	survey, err := h.surveyService.Get(r.Context(), chi.URLParam(r, "surveyID"))
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, survey)
}

func (h *SurveyHandler) CreateSurvey(w http.ResponseWriter, r *http.Request) {
	payload, err := decodePayload(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	survey, err := h.surveyService.Create(r.Context(), payload)
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, survey)
}

func (h *SurveyHandler) UpdateSurvey(w http.ResponseWriter, r *http.Request) {
	payload, err := decodePayload(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	survey, err := h.surveyService.Update(r.Context(), chi.URLParam(r, "surveyID"), payload)
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, survey)
}

func (h *SurveyHandler) DeleteSurvey(w http.ResponseWriter, r *http.Request) {
	if err := h.surveyService.Delete(r.Context(), chi.URLParam(r, "surveyID")); err != nil {
		writeAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// decodePayload reads the body as a loose JSON object so the service layer
// can distinguish absent keys from present-but-empty values. An empty body
// counts as an empty object.
func decodePayload(r *http.Request) (map[string]any, error) {
	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		if errors.Is(err, io.EOF) {
			return map[string]any{}, nil
		}
		return nil, err
	}
	if payload == nil {
		payload = map[string]any{}
	}
	return payload, nil
}
