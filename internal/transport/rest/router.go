package rest

import (
	"log/slog"
	"net/http"

	"github.com/staffpulse/backend/internal/config"
	"github.com/staffpulse/backend/internal/transport/middleware"
)

// RouterDeps bundles the handlers the router mounts.
type RouterDeps struct {
	Webhook  *WebhookHandler
	Insights *InsightHandler
	Alerts   *AlertHandler
	Dispatch *DispatchHandler
	Health   *HealthHandler
}

// NewRouter builds the HTTP routing table with the standard middleware
// chain applied to every route.
func NewRouter(deps RouterDeps, corsCfg config.CORSConfig, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /webhooks/whatsapp", deps.Webhook.Inbound)

	mux.HandleFunc("GET /api/insights", deps.Insights.List)
	mux.HandleFunc("POST /api/insights/generate", deps.Insights.Generate)
	mux.HandleFunc("PATCH /api/insights/{id}", deps.Insights.Update)

	mux.HandleFunc("GET /api/alerts", deps.Alerts.List)

	mux.HandleFunc("POST /api/dispatch", deps.Dispatch.Send)
	mux.HandleFunc("GET /api/deliveries", deps.Dispatch.Deliveries)

	mux.HandleFunc("GET /health", deps.Health.Live)
	mux.HandleFunc("GET /ready", deps.Health.Ready)

	chain := middleware.Chain(
		middleware.RequestID,
		middleware.Recovery(logger),
		middleware.Logger(logger),
		middleware.CORS(corsCfg),
	)

	return chain(mux)
}
