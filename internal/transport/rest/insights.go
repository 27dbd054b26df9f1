package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/staffpulse/backend/internal/domain"
	"github.com/staffpulse/backend/internal/service/insight"
)

// insightService defines the minimal interface needed by InsightHandler.
type insightService interface {
	Generate(ctx context.Context, orgID uuid.UUID) (insight.GenerationSummary, error)
	List(ctx context.Context, filter domain.InsightFilter) ([]domain.Insight, error)
	MarkRead(ctx context.Context, id uuid.UUID, read bool) error
	Dismiss(ctx context.Context, id uuid.UUID) error
}

// InsightHandler serves the insight REST endpoints.
type InsightHandler struct {
	svc insightService
	log *slog.Logger
}

// NewInsightHandler creates an InsightHandler.
func NewInsightHandler(svc insightService, logger *slog.Logger) *InsightHandler {
	return &InsightHandler{svc: svc, log: logger.With("handler", "insights")}
}

type insightResponse struct {
	ID             string         `json:"id"`
	OrganizationID string         `json:"organization_id"`
	Type           string         `json:"insight_type"`
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	Severity       string         `json:"severity"`
	Origin         string         `json:"origin"`
	Department     *string        `json:"department,omitempty"`
	EmployeeID     *string        `json:"employee_id,omitempty"`
	DataPoints     map[string]any `json:"data_points"`
	ActionItems    []string       `json:"action_items"`
	Read           bool           `json:"is_read"`
	Dismissed      bool           `json:"is_dismissed"`
	CreatedAt      time.Time      `json:"created_at"`
}

type generateRequest struct {
	OrganizationID string `json:"organization_id"`
}

type updateInsightRequest struct {
	Read      *bool `json:"is_read"`
	Dismissed *bool `json:"is_dismissed"`
}

// List handles GET /api/insights.
func (h *InsightHandler) List(w http.ResponseWriter, r *http.Request) {
	orgID, err := uuid.Parse(r.URL.Query().Get("organization_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "organization_id must be a valid uuid")
		return
	}

	filter := domain.InsightFilter{OrganizationID: orgID}
	if dept := r.URL.Query().Get("department"); dept != "" {
		filter.Department = &dept
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		filter.Limit = limit
	}

	insights, err := h.svc.List(r.Context(), filter)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	out := make([]insightResponse, len(insights))
	for i, ins := range insights {
		out[i] = toInsightResponse(ins)
	}
	writeJSON(w, http.StatusOK, map[string]any{"insights": out})
}

// Generate handles POST /api/insights/generate.
func (h *InsightHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	orgID, err := uuid.Parse(req.OrganizationID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "organization_id must be a valid uuid")
		return
	}

	summary, err := h.svc.Generate(r.Context(), orgID)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// Update handles PATCH /api/insights/{id}. It accepts is_read and
// is_dismissed flags; setting is_dismissed to false is rejected because
// dismissal is terminal.
func (h *InsightHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "insight id must be a valid uuid")
		return
	}

	var req updateInsightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Read == nil && req.Dismissed == nil {
		writeError(w, http.StatusBadRequest, "nothing to update")
		return
	}
	if req.Dismissed != nil && !*req.Dismissed {
		writeError(w, http.StatusBadRequest, "insights cannot be un-dismissed")
		return
	}

	if req.Read != nil {
		if err := h.svc.MarkRead(r.Context(), id, *req.Read); err != nil {
			handleError(h.log, w, r, err)
			return
		}
	}
	if req.Dismissed != nil {
		if err := h.svc.Dismiss(r.Context(), id); err != nil {
			handleError(h.log, w, r, err)
			return
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

func toInsightResponse(ins domain.Insight) insightResponse {
	resp := insightResponse{
		ID:             ins.ID.String(),
		OrganizationID: ins.OrganizationID.String(),
		Type:           ins.Type.String(),
		Title:          ins.Title,
		Description:    ins.Description,
		Severity:       ins.Severity.String(),
		Origin:         ins.Origin.String(),
		Department:     ins.Department,
		DataPoints:     ins.DataPoints,
		ActionItems:    ins.ActionItems,
		Read:           ins.Read,
		Dismissed:      ins.Dismissed,
		CreatedAt:      ins.CreatedAt,
	}
	if ins.EmployeeID != nil {
		s := ins.EmployeeID.String()
		resp.EmployeeID = &s
	}
	if resp.DataPoints == nil {
		resp.DataPoints = map[string]any{}
	}
	if resp.ActionItems == nil {
		resp.ActionItems = []string{}
	}
	return resp
}
