package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sngm3741/stagelink/api/internal/public/domain"
)

// MessageRepository stores direct messages keyed by conversation ID.
type MessageRepository struct {
	collection *mongo.Collection
}

func NewMessageRepository(db *mongo.Database, collection string) *MessageRepository {
	return &MessageRepository{collection: db.Collection(collection)}
}

func (r *MessageRepository) Create(ctx context.Context, msg *domain.Message) error {
	doc := MessageDocument{
		ID:             primitive.NewObjectID(),
		ConversationID: msg.ConversationID,
		SenderID:       msg.SenderID,
		RecipientID:    msg.RecipientID,
		Body:           msg.Body,
		ReadAt:         msg.ReadAt,
		CreatedAt:      msg.CreatedAt,
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return translate(err)
	}
	msg.ID = doc.ID.Hex()
	return nil
}

// List returns up to limit messages older than before, newest first.
func (r *MessageRepository) List(ctx context.Context, conversationID string, before *time.Time, limit int) ([]domain.Message, error) {
	filter := bson.M{"conversationId": conversationID}
	if before != nil {
		filter["createdAt"] = bson.M{"$lt": *before}
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(limitOr(limit, 50, 100))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	messages := make([]domain.Message, 0)
	for cursor.Next(ctx) {
		var doc MessageDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		messages = append(messages, mapMessageDocument(doc))
	}
	return messages, cursor.Err()
}

// Conversations groups the user's messages by conversation with unread counts.
func (r *MessageRepository) Conversations(ctx context.Context, userID string) ([]domain.Conversation, error) {
	unread := bson.M{"$cond": bson.A{
		bson.M{"$and": bson.A{
			bson.M{"$eq": bson.A{"$recipientId", userID}},
			bson.M{"$eq": bson.A{bson.M{"$ifNull": bson.A{"$readAt", nil}}, nil}},
		}},
		1, 0,
	}}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"$or": bson.A{
			bson.M{"senderId": userID},
			bson.M{"recipientId": userID},
		}}}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}}},
		{{Key: "$group", Value: bson.M{
			"_id":    "$conversationId",
			"last":   bson.M{"$first": "$$ROOT"},
			"unread": bson.M{"$sum": unread},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "last.createdAt", Value: -1}}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	conversations := make([]domain.Conversation, 0)
	for cursor.Next(ctx) {
		var row struct {
			ID     string          `bson:"_id"`
			Last   MessageDocument `bson:"last"`
			Unread int             `bson:"unread"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, err
		}
		conversations = append(conversations, domain.Conversation{
			ID:             row.ID,
			CounterpartID:  domain.CounterpartOf(row.ID, userID),
			LastMessage:    mapMessageDocument(row.Last),
			UnreadCount:    row.Unread,
			LastActivityAt: row.Last.CreatedAt,
		})
	}
	return conversations, cursor.Err()
}

func (r *MessageRepository) MarkRead(ctx context.Context, conversationID, recipientID string, at time.Time) (int64, error) {
	res, err := r.collection.UpdateMany(ctx, bson.M{
		"conversationId": conversationID,
		"recipientId":    recipientID,
		"readAt":         bson.M{"$exists": false},
	}, bson.M{"$set": bson.M{"readAt": at}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (r *MessageRepository) CountUnread(ctx context.Context, recipientID string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{
		"recipientId": recipientID,
		"readAt":      bson.M{"$exists": false},
	})
}

func mapMessageDocument(doc MessageDocument) domain.Message {
	return domain.Message{
		ID:             doc.ID.Hex(),
		ConversationID: doc.ConversationID,
		SenderID:       doc.SenderID,
		RecipientID:    doc.RecipientID,
		Body:           doc.Body,
		ReadAt:         doc.ReadAt,
		CreatedAt:      doc.CreatedAt,
	}
}
