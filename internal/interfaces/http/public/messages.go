package public

import (
	"net/http"
	"strings"
	"time"

	"github.com/sngm3741/stagelink/api/internal/interfaces/http/common"
	publicapp "github.com/sngm3741/stagelink/api/internal/public/application"
	"github.com/sngm3741/stagelink/api/internal/public/domain"
)

func (h *Handler) messageSendHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := requestContext(r)
		defer cancel()

		principal, ok := h.principal(w, r)
		if !ok {
			return
		}
		var req sendMessageRequest
		if err := common.DecodeJSON(w, r, &req); err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}

		msg, err := h.messages.Send(ctx, publicapp.SendMessageCommand{
			SenderID:    principal.UserID,
			RecipientID: req.RecipientID,
			Body:        req.Body,
		})
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusCreated, buildMessageResponse(*msg))
	}
}

func (h *Handler) conversationListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := requestContext(r)
		defer cancel()

		principal, ok := h.principal(w, r)
		if !ok {
			return
		}
		conversations, err := h.messages.Conversations(ctx, principal.UserID)
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		items := make([]conversationResponse, 0, len(conversations))
		for _, c := range conversations {
			items = append(items, buildConversationResponse(c))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{"items": items})
	}
}

func (h *Handler) conversationMessagesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := requestContext(r)
		defer cancel()

		principal, ok := h.principal(w, r)
		if !ok {
			return
		}
		counterpart, err := pathID(r, "userId")
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}

		query := r.URL.Query()
		limit, err := common.ParseOptionalInt(query, "limit")
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		var before *time.Time
		if raw := strings.TrimSpace(query.Get("before")); raw != "" {
			t, err := time.Parse(time.RFC3339Nano, raw)
			if err != nil {
				common.WriteError(h.logger, w, r, domain.Invalid("before", "must be an RFC 3339 timestamp"))
				return
			}
			before = &t
		}

		messages, err := h.messages.Messages(ctx, principal.UserID, counterpart, before, limit)
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		items := make([]messageResponse, 0, len(messages))
		for _, m := range messages {
			items = append(items, buildMessageResponse(m))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{"items": items})
	}
}

func (h *Handler) conversationReadHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := requestContext(r)
		defer cancel()

		principal, ok := h.principal(w, r)
		if !ok {
			return
		}
		counterpart, err := pathID(r, "userId")
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		updated, err := h.messages.MarkRead(ctx, principal.UserID, counterpart)
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]int64{"updated": updated})
	}
}

func (h *Handler) unreadCountHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := requestContext(r)
		defer cancel()

		principal, ok := h.principal(w, r)
		if !ok {
			return
		}
		count, err := h.messages.UnreadCount(ctx, principal.UserID)
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]int64{"unread": count})
	}
}
