package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/staffpulse/backend/internal/domain"
	"github.com/staffpulse/backend/internal/service/dispatch"
)

// dispatchService defines the minimal interface needed by DispatchHandler.
type dispatchService interface {
	Dispatch(ctx context.Context, req dispatch.Request) (domain.DispatchSummary, error)
}

// deliveryReader lists past delivery attempts.
type deliveryReader interface {
	ListByOrg(ctx context.Context, orgID uuid.UUID, limit int) ([]domain.DeliveryRecord, error)
}

// DispatchHandler triggers bulk check-in sends and exposes the delivery log.
type DispatchHandler struct {
	svc        dispatchService
	deliveries deliveryReader
	log        *slog.Logger
}

// NewDispatchHandler creates a DispatchHandler.
func NewDispatchHandler(svc dispatchService, deliveries deliveryReader, logger *slog.Logger) *DispatchHandler {
	return &DispatchHandler{svc: svc, deliveries: deliveries, log: logger.With("handler", "dispatch")}
}

type dispatchRequest struct {
	OrganizationID string   `json:"organization_id"`
	Template       string   `json:"template"`
	EmployeeIDs    []string `json:"employee_ids,omitempty"`
	Department     *string  `json:"department,omitempty"`
}

type dispatchResultResponse struct {
	EmployeeID        string `json:"employee_id"`
	Success           bool   `json:"success"`
	ProviderMessageID string `json:"provider_message_id,omitempty"`
	ErrorReason       string `json:"error_reason,omitempty"`
}

type dispatchSummaryResponse struct {
	Total   int                      `json:"total"`
	Sent    int                      `json:"sent"`
	Failed  int                      `json:"failed"`
	Results []dispatchResultResponse `json:"results"`
}

// Send handles POST /api/dispatch.
func (h *DispatchHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req dispatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	orgID, err := uuid.Parse(req.OrganizationID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "organization_id must be a valid uuid")
		return
	}

	employeeIDs := make([]uuid.UUID, 0, len(req.EmployeeIDs))
	for _, raw := range req.EmployeeIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "employee_ids must be valid uuids")
			return
		}
		employeeIDs = append(employeeIDs, id)
	}

	summary, err := h.svc.Dispatch(r.Context(), dispatch.Request{
		OrganizationID: orgID,
		Template:       domain.MessageTemplate(req.Template),
		EmployeeIDs:    employeeIDs,
		Department:     req.Department,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toDispatchSummaryResponse(summary))
}

type deliveryResponse struct {
	ID                string    `json:"id"`
	EmployeeID        *string   `json:"employee_id,omitempty"`
	Recipient         string    `json:"recipient"`
	ProviderMessageID *string   `json:"provider_message_id,omitempty"`
	Status            string    `json:"status"`
	ErrorReason       *string   `json:"error_reason,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// Deliveries handles GET /api/deliveries.
func (h *DispatchHandler) Deliveries(w http.ResponseWriter, r *http.Request) {
	orgID, err := uuid.Parse(r.URL.Query().Get("organization_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "organization_id must be a valid uuid")
		return
	}

	records, err := h.deliveries.ListByOrg(r.Context(), orgID, 100)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	out := make([]deliveryResponse, len(records))
	for i, rec := range records {
		out[i] = deliveryResponse{
			ID:                rec.ID.String(),
			Recipient:         rec.Recipient,
			ProviderMessageID: rec.ProviderMessageID,
			Status:            rec.Status.String(),
			ErrorReason:       rec.ErrorReason,
			CreatedAt:         rec.CreatedAt,
		}
		if rec.EmployeeID != nil {
			s := rec.EmployeeID.String()
			out[i].EmployeeID = &s
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"deliveries": out})
}

func toDispatchSummaryResponse(s domain.DispatchSummary) dispatchSummaryResponse {
	results := make([]dispatchResultResponse, len(s.Results))
	for i, r := range s.Results {
		results[i] = dispatchResultResponse{
			EmployeeID:        r.EmployeeID.String(),
			Success:           r.Success,
			ProviderMessageID: r.ProviderMessageID,
			ErrorReason:       r.ErrorReason,
		}
	}
	return dispatchSummaryResponse{
		Total:   s.Total,
		Sent:    s.Sent,
		Failed:  s.Failed,
		Results: results,
	}
}
