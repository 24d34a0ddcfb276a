package public

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sngm3741/stagelink/api/internal/interfaces/http/common"
	publicapp "github.com/sngm3741/stagelink/api/internal/public/application"
	"github.com/sngm3741/stagelink/api/internal/public/domain"
)

func (h *Handler) serviceListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := requestContext(r)
		defer cancel()

		query := r.URL.Query()
		params, err := common.ParsePage(query, common.DefaultPageLimit, common.MaxPageLimit)
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		switch params.Sort {
		case "", "newest", "price_asc", "price_desc":
		default:
			common.WriteError(h.logger, w, r, domain.Invalid("sort", "must be newest, price_asc or price_desc"))
			return
		}

		filter := publicapp.ServiceFilter{
			ProfessionalID: strings.TrimSpace(query.Get("professionalId")),
			Keyword:        strings.TrimSpace(query.Get("keyword")),
		}
		if raw := strings.TrimSpace(query.Get("category")); raw != "" {
			category, err := domain.NewServiceCategory(raw)
			if err != nil {
				common.WriteError(h.logger, w, r, err)
				return
			}
			filter.Category = category
		}
		if raw := strings.TrimSpace(query.Get("maxPrice")); raw != "" {
			maxPrice, err := decimal.NewFromString(raw)
			if err != nil || maxPrice.IsNegative() {
				common.WriteError(h.logger, w, r, domain.Invalid("maxPrice", "must be a non-negative amount"))
				return
			}
			filter.MaxPrice = &maxPrice
		}

		services, total, err := h.catalog.List(ctx, filter, paging(params))
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, common.NewPage(services, params, total, buildServiceResponse))
	}
}

func (h *Handler) serviceDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := requestContext(r)
		defer cancel()

		id, err := pathID(r, "id")
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		svc, err := h.catalog.Get(ctx, id)
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, buildServiceResponse(*svc))
	}
}

func (h *Handler) serviceCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := requestContext(r)
		defer cancel()

		principal, ok := h.principal(w, r)
		if !ok {
			return
		}
		var req serviceRequest
		if err := common.DecodeJSON(w, r, &req); err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}

		svc, err := h.catalog.Create(ctx, principal.UserID, req.toDraft())
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusCreated, buildServiceResponse(*svc))
	}
}

func (h *Handler) serviceUpdateHandler() http.HandlerFunc {
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
		var req serviceRequest
		if err := common.DecodeJSON(w, r, &req); err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}

		svc, err := h.catalog.Update(ctx, principal.UserID, id, req.toDraft())
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, buildServiceResponse(*svc))
	}
}

func (h *Handler) serviceDeactivateHandler() http.HandlerFunc {
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
		if err := h.catalog.Deactivate(ctx, principal.UserID, id); err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
