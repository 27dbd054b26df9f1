package rest

import (
	"context"
	"encoding/xml"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/staffpulse/backend/internal/service/checkin"
)

// checkinService defines the minimal interface needed by WebhookHandler.
type checkinService interface {
	ProcessInbound(ctx context.Context, in checkin.Inbound) (string, error)
}

// signatureValidator checks carrier webhook signatures.
type signatureValidator interface {
	Valid(url string, params map[string]string, signature string) bool
}

// WebhookHandler receives inbound WhatsApp messages from the carrier.
type WebhookHandler struct {
	svc       checkinService
	validator signatureValidator

	// baseURL is the public base the carrier signed against, e.g.
	// "https://api.example.com". The request path is appended to it.
	baseURL string
	log     *slog.Logger
}

// NewWebhookHandler creates a WebhookHandler.
func NewWebhookHandler(svc checkinService, validator signatureValidator, baseURL string, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{
		svc:       svc,
		validator: validator,
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		log:       logger.With("handler", "webhook"),
	}
}

// Inbound handles POST /webhooks/whatsapp. The carrier delivers
// form-encoded payloads and retries on non-2xx responses, so every
// processing outcome short of a hard failure acknowledges with 200 and a
// TwiML reply. Requests with a bad signature get 401 and are never
// processed.
func (h *WebhookHandler) Inbound(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form payload")
		return
	}

	if !h.signatureOK(r) {
		h.log.WarnContext(r.Context(), "webhook signature rejected",
			slog.String("remote_addr", r.RemoteAddr),
		)
		writeError(w, http.StatusUnauthorized, "invalid signature")
		return
	}

	reply, err := h.svc.ProcessInbound(r.Context(), checkin.Inbound{
		From:              r.PostFormValue("From"),
		Body:              r.PostFormValue("Body"),
		ProviderMessageID: r.PostFormValue("MessageSid"),
	})
	if err != nil {
		h.log.ErrorContext(r.Context(), "inbound processing failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeTwiML(w, reply)
}

func (h *WebhookHandler) signatureOK(r *http.Request) bool {
	params := make(map[string]string, len(r.PostForm))
	for key, values := range r.PostForm {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}

	url := h.baseURL + r.URL.RequestURI()
	return h.validator.Valid(url, params, r.Header.Get("X-Twilio-Signature"))
}

// twimlResponse is the carrier's reply envelope; the Message body is sent
// back to the user over the same channel.
type twimlResponse struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message,omitempty"`
}

func writeTwiML(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "text/xml")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, xml.Header)
	xml.NewEncoder(w).Encode(twimlResponse{Message: message}) //nolint:errcheck
}
