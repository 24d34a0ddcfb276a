package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	adminapp "github.com/sngm3741/stagelink/api/internal/admin/application"
	admindomain "github.com/sngm3741/stagelink/api/internal/admin/domain"
)

// FailedNotificationRepository records notifications the gateway never accepted
// so they can be inspected and replayed.
type FailedNotificationRepository struct {
	collection *mongo.Collection
}

func NewFailedNotificationRepository(db *mongo.Database, collection string) *FailedNotificationRepository {
	return &FailedNotificationRepository{collection: db.Collection(collection)}
}

// Save stores n with status "pending".
func (r *FailedNotificationRepository) Save(ctx context.Context, n admindomain.FailedNotification) error {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	if n.Status == "" {
		n.Status = "pending"
	}
	_, err := r.collection.InsertOne(ctx, FailedNotificationDocument{
		ID:          primitive.NewObjectID(),
		UserID:      n.UserID,
		Destination: n.Destination,
		Kind:        n.Kind,
		Text:        n.Text,
		Ref:         n.Ref,
		Error:       n.Error,
		Attempts:    n.Attempts,
		Status:      n.Status,
		CreatedAt:   n.CreatedAt,
	})
	return err
}

func (r *FailedNotificationRepository) List(ctx context.Context, paging adminapp.Paging) ([]admindomain.FailedNotification, int64, error) {
	total, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(paging.Skip()).
		SetLimit(limitOr(paging.Limit, 20, 100))
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	items := make([]admindomain.FailedNotification, 0)
	for cursor.Next(ctx) {
		var doc FailedNotificationDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, 0, err
		}
		items = append(items, admindomain.FailedNotification{
			ID:          doc.ID.Hex(),
			UserID:      doc.UserID,
			Destination: doc.Destination,
			Kind:        doc.Kind,
			Text:        doc.Text,
			Ref:         doc.Ref,
			Error:       doc.Error,
			Attempts:    doc.Attempts,
			Status:      doc.Status,
			CreatedAt:   doc.CreatedAt,
		})
	}
	return items, total, cursor.Err()
}
