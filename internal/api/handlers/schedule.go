package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/sundialhq/sundial/internal/api/middleware"
	"github.com/sundialhq/sundial/internal/domain"
	"github.com/sundialhq/sundial/internal/service"
)

const dateLayout = "2006-01-02"

// ScheduleHandler exposes the reasoning engine's pure query surface:
// active constraints, conflicts, and proposals per date.
type ScheduleHandler struct {
	svc *service.ReasoningService
}

func NewScheduleHandler(svc *service.ReasoningService) *ScheduleHandler {
	return &ScheduleHandler{svc: svc}
}

func parseDateParam(r *http.Request) (time.Time, bool) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return time.Time{}, false
	}
	date, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, false
	}
	return date, true
}

type constraintsResponse struct {
	Date        string              `json:"date"`
	Constraints []domain.Constraint `json:"constraints"`
	Count       int                 `json:"count"`
}

func (h *ScheduleHandler) Constraints(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	date, ok := parseDateParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "date is required (YYYY-MM-DD)")
		return
	}

	constraints, err := h.svc.ActiveConstraints(r.Context(), user.ID, date)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load constraints")
		return
	}
	if constraints == nil {
		constraints = []domain.Constraint{}
	}

	writeJSON(w, http.StatusOK, constraintsResponse{
		Date:        date.Format(dateLayout),
		Constraints: constraints,
		Count:       len(constraints),
	})
}

type conflictsResponse struct {
	Date      string                `json:"date"`
	Conflicts []domain.ConflictPair `json:"conflicts"`
	Count     int                   `json:"count"`
}

func (h *ScheduleHandler) Conflicts(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	date, ok := parseDateParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "date is required (YYYY-MM-DD)")
		return
	}

	conflicts, err := h.svc.Conflicts(r.Context(), user.ID, date)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to detect conflicts")
		return
	}
	if conflicts == nil {
		conflicts = []domain.ConflictPair{}
	}

	writeJSON(w, http.StatusOK, conflictsResponse{
		Date:      date.Format(dateLayout),
		Conflicts: conflicts,
		Count:     len(conflicts),
	})
}

type proposeRequest struct {
	Date string `json:"date"`
	// Time is an explicit "HH:MM" the user already stated; when present it
	// is used verbatim and reasoning is skipped.
	Time string `json:"time,omitempty"`
}

func (h *ScheduleHandler) Propose(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req proposeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "date is required (YYYY-MM-DD)")
		return
	}

	if req.Time != "" {
		if _, ok := domain.HourOf(req.Time); !ok {
			writeError(w, http.StatusBadRequest, "time must be HH:MM")
			return
		}
	}

	decision, err := h.svc.Schedule(r.Context(), user.ID, date, req.Time)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to propose a time")
		return
	}

	writeJSON(w, http.StatusOK, decision)
}
