package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/staffpulse/backend/internal/domain"
)

// alertReader defines the minimal interface needed by AlertHandler.
type alertReader interface {
	ListByOrg(ctx context.Context, orgID uuid.UUID, limit int) ([]domain.Alert, error)
}

// AlertHandler serves the burnout alert listing.
type AlertHandler struct {
	alerts alertReader
	log    *slog.Logger
}

// NewAlertHandler creates an AlertHandler.
func NewAlertHandler(alerts alertReader, logger *slog.Logger) *AlertHandler {
	return &AlertHandler{alerts: alerts, log: logger.With("handler", "alerts")}
}

type alertResponse struct {
	ID          string    `json:"id"`
	EmployeeID  string    `json:"employee_id"`
	Type        string    `json:"alert_type"`
	Severity    string    `json:"severity"`
	Description string    `json:"description"`
	Evidence    []int     `json:"evidence"`
	CreatedAt   time.Time `json:"created_at"`
}

// List handles GET /api/alerts.
func (h *AlertHandler) List(w http.ResponseWriter, r *http.Request) {
	orgID, err := uuid.Parse(r.URL.Query().Get("organization_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "organization_id must be a valid uuid")
		return
	}

	alerts, err := h.alerts.ListByOrg(r.Context(), orgID, 100)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	out := make([]alertResponse, len(alerts))
	for i, a := range alerts {
		out[i] = alertResponse{
			ID:          a.ID.String(),
			EmployeeID:  a.EmployeeID.String(),
			Type:        a.Type.String(),
			Severity:    a.Severity.String(),
			Description: a.Description,
			Evidence:    a.Evidence,
			CreatedAt:   a.CreatedAt,
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"alerts": out})
}
