package public

import (
	"net/http"

	"github.com/sngm3741/stagelink/api/internal/interfaces/http/common"
	publicapp "github.com/sngm3741/stagelink/api/internal/public/application"
)

func (h *Handler) signUpHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := requestContext(r)
		defer cancel()

		var req signUpRequest
		if err := common.DecodeJSON(w, r, &req); err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}

		res, err := h.auth.SignUp(ctx, publicapp.SignUpCommand{
			Email:       req.Email,
			Password:    req.Password,
			DisplayName: req.DisplayName,
			Role:        req.Role,
		})
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusCreated, buildAuthResponse(res))
	}
}

func (h *Handler) signInHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := requestContext(r)
		defer cancel()

		var req signInRequest
		if err := common.DecodeJSON(w, r, &req); err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}

		res, err := h.auth.SignIn(ctx, publicapp.SignInCommand{Email: req.Email, Password: req.Password})
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, buildAuthResponse(res))
	}
}

func (h *Handler) signOutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := requestContext(r)
		defer cancel()

		principal, ok := h.principal(w, r)
		if !ok {
			return
		}
		if err := h.auth.SignOut(ctx, principal); err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *Handler) verifyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := h.principal(w, r)
		if !ok {
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, verifyResponse{
			UserID:    principal.UserID,
			Role:      principal.Role,
			Name:      principal.Name,
			ExpiresAt: principal.ExpiresAt,
		})
	}
}
