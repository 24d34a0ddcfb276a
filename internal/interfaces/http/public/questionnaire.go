package public

import (
	"net/http"

	"github.com/sngm3741/stagelink/api/internal/interfaces/http/common"
)

func (h *Handler) questionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rules := h.questionnaire.Rules()
		common.WriteJSON(h.logger, w, http.StatusOK, questionsResponse{MaxScore: rules.MaxScore(), Rules: rules})
	}
}

func (h *Handler) questionnaireSubmitHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := requestContext(r)
		defer cancel()

		principal, ok := h.principal(w, r)
		if !ok {
			return
		}
		var req questionnaireRequest
		if err := common.DecodeJSON(w, r, &req); err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}

		resp, err := h.questionnaire.Submit(ctx, principal.UserID, req.toDomain())
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusCreated, buildQuestionnaireResponse(*resp))
	}
}

func (h *Handler) questionnaireLatestHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := requestContext(r)
		defer cancel()

		principal, ok := h.principal(w, r)
		if !ok {
			return
		}
		resp, err := h.questionnaire.Latest(ctx, principal.UserID)
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, buildQuestionnaireResponse(*resp))
	}
}
