package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collections names every collection the API touches.
type Collections struct {
	Users               string
	Messages            string
	Slots               string
	Bookings            string
	Services            string
	Payments            string
	Questionnaires      string
	FailedNotifications string
}

// All lists the collection names in a stable order.
func (c Collections) All() []string {
	return []string{
		c.Users, c.Messages, c.Slots, c.Bookings,
		c.Services, c.Payments, c.Questionnaires, c.FailedNotifications,
	}
}

// EnsureIndexes creates the indexes both the server and the seed command rely on.
// CreateMany is idempotent for identical definitions.
func EnsureIndexes(ctx context.Context, db *mongo.Database, c Collections) error {
	plan := map[string][]mongo.IndexModel{
		c.Users: {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetName("uniq_user_email").SetUnique(true),
			},
			{
				Keys:    bson.D{{Key: "role", Value: 1}, {Key: "status", Value: 1}, {Key: "createdAt", Value: -1}},
				Options: options.Index().SetName("idx_user_role_status_created"),
			},
			{
				Keys:    bson.D{{Key: "classification.score", Value: -1}},
				Options: options.Index().SetName("idx_user_score"),
			},
		},
		c.Messages: {
			{
				Keys:    bson.D{{Key: "conversationId", Value: 1}, {Key: "createdAt", Value: -1}},
				Options: options.Index().SetName("idx_message_conversation_created"),
			},
			{
				Keys:    bson.D{{Key: "recipientId", Value: 1}, {Key: "readAt", Value: 1}},
				Options: options.Index().SetName("idx_message_recipient_read"),
			},
			{
				Keys:    bson.D{{Key: "senderId", Value: 1}, {Key: "createdAt", Value: -1}},
				Options: options.Index().SetName("idx_message_sender_created"),
			},
		},
		c.Slots: {
			{
				Keys:    bson.D{{Key: "professionalId", Value: 1}, {Key: "startsAt", Value: 1}},
				Options: options.Index().SetName("idx_slot_professional_starts"),
			},
		},
		c.Bookings: {
			{
				Keys: bson.D{{Key: "slotId", Value: 1}, {Key: "artistId", Value: 1}},
				Options: options.Index().
					SetName("uniq_booking_active_slot_artist").
					SetUnique(true).
					SetPartialFilterExpression(bson.M{"status": bson.M{"$in": activeBookingStatuses}}),
			},
			{
				Keys:    bson.D{{Key: "artistId", Value: 1}, {Key: "createdAt", Value: -1}},
				Options: options.Index().SetName("idx_booking_artist_created"),
			},
			{
				Keys:    bson.D{{Key: "professionalId", Value: 1}, {Key: "createdAt", Value: -1}},
				Options: options.Index().SetName("idx_booking_professional_created"),
			},
		},
		c.Services: {
			{
				Keys:    bson.D{{Key: "active", Value: 1}, {Key: "category", Value: 1}, {Key: "price", Value: 1}},
				Options: options.Index().SetName("idx_service_active_category_price"),
			},
			{
				Keys:    bson.D{{Key: "professionalId", Value: 1}, {Key: "createdAt", Value: -1}},
				Options: options.Index().SetName("idx_service_professional_created"),
			},
		},
		c.Payments: {
			{
				Keys: bson.D{{Key: "provider", Value: 1}, {Key: "providerRef", Value: 1}},
				Options: options.Index().
					SetName("uniq_payment_provider_ref").
					SetUnique(true).
					SetPartialFilterExpression(bson.M{"providerRef": bson.M{"$exists": true}}),
			},
			{
				Keys:    bson.D{{Key: "buyerId", Value: 1}, {Key: "createdAt", Value: -1}},
				Options: options.Index().SetName("idx_payment_buyer_created"),
			},
			{
				Keys:    bson.D{{Key: "sellerId", Value: 1}, {Key: "createdAt", Value: -1}},
				Options: options.Index().SetName("idx_payment_seller_created"),
			},
			{
				Keys:    bson.D{{Key: "status", Value: 1}},
				Options: options.Index().SetName("idx_payment_status"),
			},
		},
		c.Questionnaires: {
			{
				Keys:    bson.D{{Key: "artistId", Value: 1}, {Key: "submittedAt", Value: -1}},
				Options: options.Index().SetName("idx_questionnaire_artist_submitted"),
			},
		},
		c.FailedNotifications: {
			{
				Keys:    bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}},
				Options: options.Index().SetName("idx_failed_status_created"),
			},
		},
	}

	for _, name := range c.All() {
		models := plan[name]
		if name == "" || len(models) == 0 {
			continue
		}
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}
