package public

import (
	"net/http"
	"strings"

	"github.com/sngm3741/stagelink/api/internal/interfaces/http/common"
	publicapp "github.com/sngm3741/stagelink/api/internal/public/application"
	"github.com/sngm3741/stagelink/api/internal/public/domain"
)

func (h *Handler) meHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := requestContext(r)
		defer cancel()

		principal, ok := h.principal(w, r)
		if !ok {
			return
		}
		user, err := h.auth.Me(ctx, principal.UserID)
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, BuildAccountResponse(*user))
	}
}

func (h *Handler) meUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := requestContext(r)
		defer cancel()

		principal, ok := h.principal(w, r)
		if !ok {
			return
		}
		var req profilePatchRequest
		if err := common.DecodeJSON(w, r, &req); err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		patch, err := req.toDomain()
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}

		user, err := h.profiles.Update(ctx, principal.UserID, patch)
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, BuildAccountResponse(*user))
	}
}

func (h *Handler) profileSearchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := requestContext(r)
		defer cancel()

		query := r.URL.Query()
		params, err := common.ParsePage(query, common.DefaultPageLimit, common.MaxPageLimit)
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}

		filter := publicapp.ProfileFilter{
			Genre:    strings.ToLower(strings.TrimSpace(query.Get("genre"))),
			Location: strings.TrimSpace(query.Get("location")),
			Keyword:  strings.TrimSpace(query.Get("keyword")),
		}
		if raw := strings.TrimSpace(query.Get("role")); raw != "" {
			role, ok := domain.ParseRole(raw)
			if !ok || role == domain.RoleAdmin {
				common.WriteError(h.logger, w, r, domain.Invalid("role", "must be artist or professional"))
				return
			}
			filter.Role = role
		}
		if raw := strings.TrimSpace(query.Get("tier")); raw != "" {
			tier, ok := domain.ParseTier(raw)
			if !ok {
				common.WriteError(h.logger, w, r, domain.Invalid("tier", "is not a known tier"))
				return
			}
			filter.Tier = tier
		}
		if raw := strings.TrimSpace(query.Get("professionalType")); raw != "" {
			pt, err := domain.NewProfessionalType(raw)
			if err != nil {
				common.WriteError(h.logger, w, r, err)
				return
			}
			filter.ProfessionalType = pt
		}
		switch params.Sort {
		case "", "newest", "name", "score":
		default:
			common.WriteError(h.logger, w, r, domain.Invalid("sort", "must be newest, name or score"))
			return
		}

		users, total, err := h.profiles.Search(ctx, filter, paging(params))
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, common.NewPage(users, params, total, BuildProfileResponse))
	}
}

func (h *Handler) profileDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := requestContext(r)
		defer cancel()

		id, err := pathID(r, "id")
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		user, err := h.profiles.Get(ctx, id)
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, BuildProfileResponse(*user))
	}
}

func (h *Handler) uploadPresignHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := requestContext(r)
		defer cancel()

		principal, ok := h.principal(w, r)
		if !ok {
			return
		}
		var req presignRequest
		if err := common.DecodeJSON(w, r, &req); err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}

		upload, err := h.uploads.Presign(ctx, publicapp.PresignCommand{
			UserID:      principal.UserID,
			Kind:        req.Kind,
			ContentType: req.ContentType,
			FileName:    req.FileName,
		})
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusCreated, uploadResponse{
			UploadURL:   upload.UploadURL,
			Method:      upload.Method,
			ObjectKey:   upload.ObjectKey,
			PublicURL:   upload.PublicURL,
			ContentType: upload.ContentType,
			ExpiresAt:   upload.ExpiresAt,
		})
	}
}
