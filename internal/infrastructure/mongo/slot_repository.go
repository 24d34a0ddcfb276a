package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sngm3741/stagelink/api/internal/public/domain"
)

// SlotRepository stores availability slots. Capacity is tracked in bookedCount
// and only ever changed with conditional $inc updates.
type SlotRepository struct {
	collection *mongo.Collection
}

func NewSlotRepository(db *mongo.Database, collection string) *SlotRepository {
	return &SlotRepository{collection: db.Collection(collection)}
}

func (r *SlotRepository) Create(ctx context.Context, slot *domain.Slot) error {
	doc := SlotDocument{
		ID:             primitive.NewObjectID(),
		ProfessionalID: slot.ProfessionalID,
		StartsAt:       slot.StartsAt,
		EndsAt:         slot.EndsAt,
		Capacity:       slot.Capacity,
		BookedCount:    0,
		Kind:           string(slot.Kind),
		Notes:          slot.Notes,
		CreatedAt:      slot.CreatedAt,
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return translate(err)
	}
	slot.ID = doc.ID.Hex()
	slot.BookedCount = 0
	return nil
}

func (r *SlotRepository) FindByID(ctx context.Context, id string) (*domain.Slot, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var doc SlotDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	slot := mapSlotDocument(doc)
	return &slot, nil
}

// ListByProfessional returns slots starting in [from, to); a zero to means open-ended.
func (r *SlotRepository) ListByProfessional(ctx context.Context, professionalID string, from, to time.Time) ([]domain.Slot, error) {
	window := bson.M{"$gte": from}
	if !to.IsZero() {
		window["$lt"] = to
	}
	opts := options.Find().SetSort(bson.D{{Key: "startsAt", Value: 1}}).SetLimit(500)
	cursor, err := r.collection.Find(ctx, bson.M{"professionalId": professionalID, "startsAt": window}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	slots := make([]domain.Slot, 0)
	for cursor.Next(ctx) {
		var doc SlotDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		slots = append(slots, mapSlotDocument(doc))
	}
	return slots, cursor.Err()
}

func (r *SlotRepository) HasOverlap(ctx context.Context, professionalID string, start, end time.Time) (bool, error) {
	err := r.collection.FindOne(ctx, bson.M{
		"professionalId": professionalID,
		"startsAt":       bson.M{"$lt": end},
		"endsAt":         bson.M{"$gt": start},
	}, options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// OverlapsEarlier looks for an overlapping slot of the same professional with a
// smaller ObjectID. Of two racing inserts exactly one sees the other.
func (r *SlotRepository) OverlapsEarlier(ctx context.Context, slot domain.Slot) (bool, error) {
	oid, err := objectID(slot.ID)
	if err != nil {
		return false, err
	}
	err = r.collection.FindOne(ctx, bson.M{
		"_id":            bson.M{"$lt": oid},
		"professionalId": slot.ProfessionalID,
		"startsAt":       bson.M{"$lt": slot.EndsAt},
		"endsAt":         bson.M{"$gt": slot.StartsAt},
	}, options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// DeleteUnbooked removes the slot only while nothing is booked against it.
func (r *SlotRepository) DeleteUnbooked(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid, "bookedCount": 0})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Err(); err != nil {
			return translate(err)
		}
		return domain.ErrConflict
	}
	return nil
}

// Reserve takes one unit of capacity. The filter compares bookedCount to
// capacity on the server, so concurrent reservations never overbook.
func (r *SlotRepository) Reserve(ctx context.Context, id string) (*domain.Slot, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	filter := bson.M{
		"_id":   oid,
		"$expr": bson.M{"$lt": bson.A{"$bookedCount", "$capacity"}},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc SlotDocument
	err = r.collection.FindOneAndUpdate(ctx, filter, bson.M{"$inc": bson.M{"bookedCount": 1}}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Err(); err != nil {
			return nil, translate(err)
		}
		return nil, domain.ErrCapacityExceeded
	}
	if err != nil {
		return nil, err
	}
	slot := mapSlotDocument(doc)
	return &slot, nil
}

// Release returns one unit of capacity, never going below zero.
func (r *SlotRepository) Release(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	_, err = r.collection.UpdateOne(ctx,
		bson.M{"_id": oid, "bookedCount": bson.M{"$gt": 0}},
		bson.M{"$inc": bson.M{"bookedCount": -1}},
	)
	return err
}

func mapSlotDocument(doc SlotDocument) domain.Slot {
	return domain.Slot{
		ID:             doc.ID.Hex(),
		ProfessionalID: doc.ProfessionalID,
		StartsAt:       doc.StartsAt.UTC(),
		EndsAt:         doc.EndsAt.UTC(),
		Capacity:       doc.Capacity,
		BookedCount:    doc.BookedCount,
		Kind:           domain.SlotKind(doc.Kind),
		Notes:          doc.Notes,
		CreatedAt:      doc.CreatedAt,
	}
}
