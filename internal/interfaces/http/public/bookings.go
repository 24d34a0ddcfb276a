package public

import (
	"net/http"
	"strings"
	"time"

	"github.com/sngm3741/stagelink/api/internal/interfaces/http/common"
	publicapp "github.com/sngm3741/stagelink/api/internal/public/application"
	"github.com/sngm3741/stagelink/api/internal/public/domain"
)

func (h *Handler) slotCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := requestContext(r)
		defer cancel()

		principal, ok := h.principal(w, r)
		if !ok {
			return
		}
		var req createSlotRequest
		if err := common.DecodeJSON(w, r, &req); err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}

		slot, err := h.bookings.CreateSlot(ctx, publicapp.CreateSlotCommand{
			ProfessionalID: principal.UserID,
			StartsAt:       req.StartsAt,
			EndsAt:         req.EndsAt,
			Capacity:       req.Capacity,
			Kind:           req.Kind,
			Notes:          req.Notes,
		})
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusCreated, buildSlotResponse(*slot))
	}
}

// slotListHandler lists upcoming slots, or the slots of one calendar day
// (?date=YYYY-MM-DD) in the configured timezone.
func (h *Handler) slotListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := requestContext(r)
		defer cancel()

		professionalID, err := pathID(r, "id")
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		var day *time.Time
		if raw := strings.TrimSpace(r.URL.Query().Get("date")); raw != "" {
			d, err := time.ParseInLocation(time.DateOnly, raw, h.location)
			if err != nil {
				common.WriteError(h.logger, w, r, domain.Invalid("date", "must be YYYY-MM-DD"))
				return
			}
			day = &d
		}

		slots, err := h.bookings.ListSlots(ctx, professionalID, day)
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		items := make([]slotResponse, 0, len(slots))
		for _, s := range slots {
			items = append(items, buildSlotResponse(s))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{"items": items})
	}
}

func (h *Handler) slotDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := requestContext(r)
		defer cancel()

		principal, ok := h.principal(w, r)
		if !ok {
			return
		}
		slotID, err := pathID(r, "id")
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		if err := h.bookings.DeleteSlot(ctx, principal.UserID, slotID); err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *Handler) bookingRequestHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := requestContext(r)
		defer cancel()

		principal, ok := h.principal(w, r)
		if !ok {
			return
		}
		slotID, err := pathID(r, "id")
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		var req bookingRequest
		if r.ContentLength != 0 {
			if err := common.DecodeJSON(w, r, &req); err != nil {
				common.WriteError(h.logger, w, r, err)
				return
			}
		}

		booking, err := h.bookings.RequestBooking(ctx, publicapp.RequestBookingCommand{
			ArtistID: principal.UserID,
			SlotID:   slotID,
			Note:     req.Note,
		})
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusCreated, buildBookingResponse(*booking))
	}
}

// bookingListHandler lists the caller's bookings. ?as= picks the side and
// defaults to the caller's role.
func (h *Handler) bookingListHandler() http.HandlerFunc {
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

		as := domain.Actor(strings.TrimSpace(query.Get("as")))
		if as == "" {
			as = domain.ActorArtist
			if principal.Role == domain.RoleProfessional {
				as = domain.ActorProfessional
			}
		}
		var status domain.BookingStatus
		if raw := strings.TrimSpace(query.Get("status")); raw != "" {
			parsed, ok := domain.ParseBookingStatus(raw)
			if !ok {
				common.WriteError(h.logger, w, r, domain.Invalid("status", "is not a booking status"))
				return
			}
			status = parsed
		}

		bookings, total, err := h.bookings.ListBookings(ctx, publicapp.BookingQuery{
			UserID: principal.UserID,
			As:     as,
			Status: status,
		}, paging(params))
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, common.NewPage(bookings, params, total, buildBookingResponse))
	}
}

func (h *Handler) bookingStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := requestContext(r)
		defer cancel()

		principal, ok := h.principal(w, r)
		if !ok {
			return
		}
		bookingID, err := pathID(r, "id")
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		var req bookingStatusRequest
		if err := common.DecodeJSON(w, r, &req); err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}

		booking, err := h.bookings.ChangeStatus(ctx, publicapp.ChangeBookingStatusCommand{
			UserID:    principal.UserID,
			BookingID: bookingID,
			Status:    domain.BookingStatus(req.Status),
		})
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, buildBookingResponse(*booking))
	}
}
