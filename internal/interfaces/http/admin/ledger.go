package admin

import (
	"context"
	"net/http"
	"strings"
	"time"

	adminapp "github.com/sngm3741/stagelink/api/internal/admin/application"
	"github.com/sngm3741/stagelink/api/internal/interfaces/http/common"
	"github.com/sngm3741/stagelink/api/internal/interfaces/http/public"
	"github.com/sngm3741/stagelink/api/internal/public/domain"
)

const maxLedgerLimit = 100

// dashboardHandler fans out several aggregations, so it gets a longer budget.
func (h *Handler) dashboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		overview, err := h.dashboard.Overview(ctx)
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, buildDashboardResponse(*overview))
	}
}

func (h *Handler) paymentListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		query := r.URL.Query()
		params, err := common.ParsePage(query, common.DefaultPageLimit, maxLedgerLimit)
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		var status domain.PaymentStatus
		if raw := strings.TrimSpace(query.Get("status")); raw != "" {
			parsed, ok := domain.ParsePaymentStatus(raw)
			if !ok {
				common.WriteError(h.logger, w, r, domain.Invalid("status", "is not a payment status"))
				return
			}
			status = parsed
		}

		payments, total, err := h.ledger.Payments(ctx, status, adminapp.Paging{Page: params.Page, Limit: params.Limit})
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, common.NewPage(payments, params, total, public.BuildPaymentResponse))
	}
}

func (h *Handler) failedNotificationListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		params, err := common.ParsePage(r.URL.Query(), common.DefaultPageLimit, maxLedgerLimit)
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		items, total, err := h.ledger.FailedNotifications(ctx, adminapp.Paging{Page: params.Page, Limit: params.Limit})
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, common.NewPage(items, params, total, buildFailedNotificationResponse))
	}
}
