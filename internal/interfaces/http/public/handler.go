package public

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	publicapp "github.com/sngm3741/stagelink/api/internal/public/application"
)

// Handler wires public HTTP endpoints to application services.
type Handler struct {
	logger        *zap.Logger
	auth          publicapp.AuthService
	profiles      publicapp.ProfileService
	uploads       publicapp.UploadService
	questionnaire publicapp.QuestionnaireService
	messages      publicapp.MessageService
	bookings      publicapp.BookingService
	catalog       publicapp.CatalogService
	payments      publicapp.PaymentService
	location      *time.Location
}

// Config defines dependencies required by Handler.
type Config struct {
	Logger        *zap.Logger
	Auth          publicapp.AuthService
	Profiles      publicapp.ProfileService
	Uploads       publicapp.UploadService
	Questionnaire publicapp.QuestionnaireService
	Messages      publicapp.MessageService
	Bookings      publicapp.BookingService
	Catalog       publicapp.CatalogService
	Payments      publicapp.PaymentService
	Location      *time.Location
}

// NewHandler constructs a public HTTP handler set.
func NewHandler(cfg Config) *Handler {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Handler{
		logger:        cfg.Logger,
		auth:          cfg.Auth,
		profiles:      cfg.Profiles,
		uploads:       cfg.Uploads,
		questionnaire: cfg.Questionnaire,
		messages:      cfg.Messages,
		bookings:      cfg.Bookings,
		catalog:       cfg.Catalog,
		payments:      cfg.Payments,
		location:      cfg.Location,
	}
}

// Register mounts all public routes onto the router. rateLimit guards the
// credential endpoints.
func (h *Handler) Register(r chi.Router, authMiddleware, rateLimit func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(rateLimit)
		r.Post("/auth/signup", h.signUpHandler())
		r.Post("/auth/signin", h.signInHandler())
	})

	r.Get("/profiles", h.profileSearchHandler())
	r.Get("/profiles/{id}", h.profileDetailHandler())
	r.Get("/questionnaire", h.questionsHandler())
	r.Get("/professionals/{id}/slots", h.slotListHandler())
	r.Get("/services", h.serviceListHandler())
	r.Get("/services/{id}", h.serviceDetailHandler())
	r.Post("/payments/webhook", h.paymentWebhookHandler())

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)

		r.Post("/auth/signout", h.signOutHandler())
		r.Get("/auth/verify", h.verifyHandler())
		r.Get("/me", h.meHandler())
		r.Patch("/me", h.meUpdateHandler())

		r.Post("/uploads", h.uploadPresignHandler())

		r.Post("/questionnaire", h.questionnaireSubmitHandler())
		r.Get("/questionnaire/latest", h.questionnaireLatestHandler())

		r.Get("/conversations", h.conversationListHandler())
		r.Get("/conversations/{userId}", h.conversationMessagesHandler())
		r.Post("/conversations/{userId}/read", h.conversationReadHandler())
		r.Post("/messages", h.messageSendHandler())
		r.Get("/messages/unread", h.unreadCountHandler())

		r.Post("/slots", h.slotCreateHandler())
		r.Delete("/slots/{id}", h.slotDeleteHandler())
		r.Post("/slots/{id}/bookings", h.bookingRequestHandler())
		r.Get("/bookings", h.bookingListHandler())
		r.Patch("/bookings/{id}", h.bookingStatusHandler())

		r.Post("/services", h.serviceCreateHandler())
		r.Patch("/services/{id}", h.serviceUpdateHandler())
		r.Delete("/services/{id}", h.serviceDeactivateHandler())
		r.Post("/services/{id}/purchase", h.servicePurchaseHandler())

		r.Get("/payments", h.paymentListHandler())
		r.Get("/payments/{id}", h.paymentDetailHandler())
	})
}
