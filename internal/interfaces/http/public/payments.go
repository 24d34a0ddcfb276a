package public

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/sngm3741/stagelink/api/internal/interfaces/http/common"
	"github.com/sngm3741/stagelink/api/internal/public/domain"
)

// Providers sign webhooks with "t=<unix>,v1=<mac>"; Stripe uses its own header
// name, the sandbox gateway the generic one.
var webhookSignatureHeaders = []string{"Stripe-Signature", "X-Webhook-Signature"}

func (h *Handler) servicePurchaseHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := requestContext(r)
		defer cancel()

		principal, ok := h.principal(w, r)
		if !ok {
			return
		}
		serviceID, err := pathID(r, "id")
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}

		payment, err := h.payments.Purchase(ctx, principal.UserID, serviceID)
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusCreated, BuildPaymentResponse(*payment))
	}
}

func (h *Handler) paymentListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := requestContext(r)
		defer cancel()

		principal, ok := h.principal(w, r)
		if !ok {
			return
		}
		query := r.URL.Query()
		params, err := common.ParsePage(query, common.DefaultPageLimit, common.MaxPageLimit)
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

		payments, total, err := h.payments.List(ctx, principal.UserID, status, paging(params))
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, common.NewPage(payments, params, total, BuildPaymentResponse))
	}
}

func (h *Handler) paymentDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := requestContext(r)
		defer cancel()

		principal, ok := h.principal(w, r)
		if !ok {
			return
		}
		id, err := pathID(r, "id")
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		payment, err := h.payments.Get(ctx, principal.UserID, id)
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, BuildPaymentResponse(*payment))
	}
}

// paymentWebhookHandler reads the raw body so the gateway can verify the
// signature over the exact bytes the provider sent.
func (h *Handler) paymentWebhookHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := requestContext(r)
		defer cancel()

		payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, common.MaxWebhookBody))
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				common.WriteMessage(h.logger, w, http.StatusRequestEntityTooLarge, "payload too large")
				return
			}
			common.WriteError(h.logger, w, r, domain.Invalid("body", "could not be read"))
			return
		}

		var signature string
		for _, header := range webhookSignatureHeaders {
			if signature = strings.TrimSpace(r.Header.Get(header)); signature != "" {
				break
			}
		}
		if signature == "" {
			common.WriteError(h.logger, w, r, domain.Invalid("signature", "header is missing"))
			return
		}

		if err := h.payments.HandleWebhook(ctx, payload, signature); err != nil {
			if domain.IsValidation(err) {
				h.logger.Warn("rejected payment webhook", zap.Error(err))
			}
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]bool{"received": true})
	}
}
