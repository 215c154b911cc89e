package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/sundialhq/sundial/internal/api/middleware"
	"github.com/sundialhq/sundial/internal/domain"
	"github.com/sundialhq/sundial/internal/service"
)

type PreferenceHandler struct {
	svc *service.PreferenceService
}

func NewPreferenceHandler(svc *service.PreferenceService) *PreferenceHandler {
	return &PreferenceHandler{svc: svc}
}

type createPreferenceRequest struct {
	Value  string `json:"value"`
	Source string `json:"source,omitempty"`
}

func (h *PreferenceHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req createPreferenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	source := domain.SourceAPI
	if req.Source != "" {
		if !domain.ValidPreferenceSource(req.Source) {
			writeError(w, http.StatusBadRequest, "invalid source (valid options: chat, api)")
			return
		}
		source = domain.PreferenceSource(req.Source)
	}

	pref, err := h.svc.Store(r.Context(), user.ID, req.Value, source)
	if err != nil {
		if errors.Is(err, service.ErrPreferenceValueEmpty) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to store preference")
		return
	}

	writeJSON(w, http.StatusCreated, pref)
}

type listPreferencesResponse struct {
	Preferences []domain.Preference `json:"preferences"`
	Count       int                 `json:"count"`
}

func (h *PreferenceHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	prefs, err := h.svc.List(r.Context(), user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list preferences")
		return
	}
	if prefs == nil {
		prefs = []domain.Preference{}
	}

	writeJSON(w, http.StatusOK, listPreferencesResponse{Preferences: prefs, Count: len(prefs)})
}

func (h *PreferenceHandler) Clear(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	deleted, err := h.svc.Clear(r.Context(), user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to clear preferences")
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"deleted": deleted})
}

type similarPreferencesResponse struct {
	Preferences []domain.PreferenceWithScore `json:"preferences"`
	Count       int                          `json:"count"`
}

func (h *PreferenceHandler) Similar(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	query := r.URL.Query().Get("q")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	results, err := h.svc.SearchSimilar(r.Context(), user.ID, query, limit)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSimilarityQueryEmpty):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrEmbeddingsNotAvailable):
			writeError(w, http.StatusServiceUnavailable, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to search preferences")
		}
		return
	}
	if results == nil {
		results = []domain.PreferenceWithScore{}
	}

	writeJSON(w, http.StatusOK, similarPreferencesResponse{Preferences: results, Count: len(results)})
}
