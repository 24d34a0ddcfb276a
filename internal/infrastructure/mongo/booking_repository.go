package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sngm3741/stagelink/api/internal/public/application"
	"github.com/sngm3741/stagelink/api/internal/public/domain"
)

var activeBookingStatuses = bson.A{string(domain.BookingPending), string(domain.BookingConfirmed)}

// BookingRepository stores booking requests.
type BookingRepository struct {
	collection *mongo.Collection
}

func NewBookingRepository(db *mongo.Database, collection string) *BookingRepository {
	return &BookingRepository{collection: db.Collection(collection)}
}

// Create inserts a booking. The partial unique index on (slotId, artistId)
// for active bookings turns a racing duplicate into ErrConflict.
func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	doc := BookingDocument{
		ID:             primitive.NewObjectID(),
		SlotID:         booking.SlotID,
		ProfessionalID: booking.ProfessionalID,
		ArtistID:       booking.ArtistID,
		Status:         string(booking.Status),
		Note:           booking.Note,
		SlotStartsAt:   booking.SlotStartsAt,
		SlotEndsAt:     booking.SlotEndsAt,
		CreatedAt:      booking.CreatedAt,
		UpdatedAt:      booking.UpdatedAt,
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return translate(err)
	}
	booking.ID = doc.ID.Hex()
	return nil
}

func (r *BookingRepository) FindByID(ctx context.Context, id string) (*domain.Booking, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var doc BookingDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	booking := mapBookingDocument(doc)
	return &booking, nil
}

func (r *BookingRepository) HasActive(ctx context.Context, slotID, artistID string) (bool, error) {
	err := r.collection.FindOne(ctx, bson.M{
		"slotId":   slotID,
		"artistId": artistID,
		"status":   bson.M{"$in": activeBookingStatuses},
	}).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *BookingRepository) Find(ctx context.Context, filter application.BookingFilter, paging application.Paging) ([]domain.Booking, int64, error) {
	mongoFilter := bson.M{}
	if filter.ArtistID != "" {
		mongoFilter["artistId"] = filter.ArtistID
	}
	if filter.ProfessionalID != "" {
		mongoFilter["professionalId"] = filter.ProfessionalID
	}
	if filter.SlotID != "" {
		mongoFilter["slotId"] = filter.SlotID
	}
	if filter.Status != "" {
		mongoFilter["status"] = string(filter.Status)
	}

	total, err := r.collection.CountDocuments(ctx, mongoFilter)
	if err != nil {
		return nil, 0, err
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(paging.Skip()).
		SetLimit(limitOr(paging.Limit, 20, 100))
	cursor, err := r.collection.Find(ctx, mongoFilter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	bookings := make([]domain.Booking, 0)
	for cursor.Next(ctx) {
		var doc BookingDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, 0, err
		}
		bookings = append(bookings, mapBookingDocument(doc))
	}
	return bookings, total, cursor.Err()
}

// UpdateStatus is a compare-and-set on status; a lost race yields ErrInvalidTransition.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id string, from, to domain.BookingStatus, at time.Time) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": oid, "status": string(from)},
		bson.M{"$set": bson.M{"status": string(to), "updatedAt": at}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrInvalidTransition
	}
	return nil
}

// CountByStatus feeds the admin dashboard.
func (r *BookingRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	counts := map[string]int64{}
	for cursor.Next(ctx) {
		var row struct {
			Status string `bson:"_id"`
			Count  int64  `bson:"count"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, err
		}
		counts[row.Status] = row.Count
	}
	return counts, cursor.Err()
}

func mapBookingDocument(doc BookingDocument) domain.Booking {
	return domain.Booking{
		ID:             doc.ID.Hex(),
		SlotID:         doc.SlotID,
		ProfessionalID: doc.ProfessionalID,
		ArtistID:       doc.ArtistID,
		Status:         domain.BookingStatus(doc.Status),
		Note:           doc.Note,
		SlotStartsAt:   doc.SlotStartsAt.UTC(),
		SlotEndsAt:     doc.SlotEndsAt.UTC(),
		CreatedAt:      doc.CreatedAt,
		UpdatedAt:      doc.UpdatedAt,
	}
}
