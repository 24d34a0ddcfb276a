package admin

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	adminapp "github.com/sngm3741/stagelink/api/internal/admin/application"
	"github.com/sngm3741/stagelink/api/internal/interfaces/http/common"
	"github.com/sngm3741/stagelink/api/internal/interfaces/http/public"
	"github.com/sngm3741/stagelink/api/internal/public/domain"
)

func (h *Handler) userListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		query := r.URL.Query()
		params, err := common.ParsePage(query, common.DefaultPageLimit, common.MaxPageLimit)
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}

		filter := adminapp.UserFilter{Keyword: strings.TrimSpace(query.Get("keyword"))}
		if raw := strings.TrimSpace(query.Get("role")); raw != "" {
			role, ok := domain.ParseRole(raw)
			if !ok {
				common.WriteError(h.logger, w, r, domain.Invalid("role", "is not a known role"))
				return
			}
			filter.Role = role
		}
		if raw := strings.TrimSpace(query.Get("status")); raw != "" {
			status, err := domain.ParseUserStatus(raw)
			if err != nil {
				common.WriteError(h.logger, w, r, err)
				return
			}
			filter.Status = status
		}

		users, total, err := h.members.List(ctx, filter, adminapp.Paging{Page: params.Page, Limit: params.Limit, Sort: params.Sort})
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, common.NewPage(users, params, total, public.BuildAccountResponse))
	}
}

func (h *Handler) userDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		user, err := h.members.Detail(ctx, chi.URLParam(r, "id"))
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, public.BuildAccountResponse(*user))
	}
}

func (h *Handler) userStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		var req statusRequest
		if err := common.DecodeJSON(w, r, &req); err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		status, err := domain.ParseUserStatus(req.Status)
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}

		user, err := h.members.SetStatus(ctx, chi.URLParam(r, "id"), status)
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, public.BuildAccountResponse(*user))
	}
}

func (h *Handler) userVerifiedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		var req verifiedRequest
		if err := common.DecodeJSON(w, r, &req); err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}

		user, err := h.members.SetVerified(ctx, chi.URLParam(r, "id"), *req.Verified)
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, public.BuildAccountResponse(*user))
	}
}
