package admin

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	adminapp "github.com/sngm3741/stagelink/api/internal/admin/application"
)

// Handler wires admin HTTP endpoints to application services.
type Handler struct {
	logger    *zap.Logger
	members   adminapp.MemberService
	dashboard adminapp.DashboardService
	ledger    adminapp.LedgerService
}

// Config provides dependencies for Handler.
type Config struct {
	Logger    *zap.Logger
	Members   adminapp.MemberService
	Dashboard adminapp.DashboardService
	Ledger    adminapp.LedgerService
}

// NewHandler constructs an admin HTTP handler set.
func NewHandler(cfg Config) *Handler {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Handler{
		logger:    cfg.Logger,
		members:   cfg.Members,
		dashboard: cfg.Dashboard,
		ledger:    cfg.Ledger,
	}
}

// Register mounts admin routes onto router. Authentication and the admin
// role check are applied by the caller.
func (h *Handler) Register(r chi.Router) {
	r.Get("/users", h.userListHandler())
	r.Get("/users/{id}", h.userDetailHandler())
	r.Patch("/users/{id}/status", h.userStatusHandler())
	r.Patch("/users/{id}/verified", h.userVerifiedHandler())
	r.Get("/dashboard", h.dashboardHandler())
	r.Get("/payments", h.paymentListHandler())
	r.Get("/notifications/failed", h.failedNotificationListHandler())
}
