package mongo

import (
	"context"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	adminapp "github.com/sngm3741/stagelink/api/internal/admin/application"
	admindomain "github.com/sngm3741/stagelink/api/internal/admin/domain"
	"github.com/sngm3741/stagelink/api/internal/public/domain"
)

// AdminUserRepository exposes moderation queries over the users collection.
type AdminUserRepository struct {
	users *UserRepository
}

func NewAdminUserRepository(db *mongo.Database, collection string) *AdminUserRepository {
	return &AdminUserRepository{users: NewUserRepository(db, collection)}
}

// Find lists every account, suspended and admin included, newest first.
func (r *AdminUserRepository) Find(ctx context.Context, filter adminapp.UserFilter, paging adminapp.Paging) ([]domain.User, int64, error) {
	mongoFilter := bson.M{}
	if filter.Role != "" {
		mongoFilter["role"] = string(filter.Role)
	}
	if filter.Status != "" {
		mongoFilter["status"] = string(filter.Status)
	}
	if filter.Keyword != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(strings.TrimSpace(filter.Keyword)), Options: "i"}
		mongoFilter["$or"] = bson.A{
			bson.M{"email": pattern},
			bson.M{"displayName": pattern},
		}
	}

	total, err := r.users.collection.CountDocuments(ctx, mongoFilter)
	if err != nil {
		return nil, 0, err
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(paging.Skip()).
		SetLimit(limitOr(paging.Limit, 20, 100))
	users, err := r.users.decodeUsers(ctx, mongoFilter, opts)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *AdminUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.users.FindByID(ctx, id)
}

func (r *AdminUserRepository) SetStatus(ctx context.Context, id string, status domain.UserStatus, at time.Time) error {
	return r.set(ctx, id, bson.M{"status": string(status), "updatedAt": at})
}

func (r *AdminUserRepository) SetVerified(ctx context.Context, id string, verified bool, at time.Time) error {
	return r.set(ctx, id, bson.M{"verified": verified, "updatedAt": at})
}

func (r *AdminUserRepository) set(ctx context.Context, id string, fields bson.M) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := r.users.collection.UpdateByID(ctx, oid, bson.M{"$set": fields})
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Counts groups users by role in a single aggregation.
func (r *AdminUserRepository) Counts(ctx context.Context) (admindomain.UserCounts, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   "$role",
			"count": bson.M{"$sum": 1},
			"suspended": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$status", string(domain.UserSuspended)}}, 1, 0,
			}}},
			"verified": bson.M{"$sum": bson.M{"$cond": bson.A{"$verified", 1, 0}}},
		}}},
	}
	cursor, err := r.users.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return admindomain.UserCounts{}, err
	}
	defer cursor.Close(ctx)

	counts := admindomain.UserCounts{ByRole: map[string]int64{}}
	for cursor.Next(ctx) {
		var row struct {
			Role      string `bson:"_id"`
			Count     int64  `bson:"count"`
			Suspended int64  `bson:"suspended"`
			Verified  int64  `bson:"verified"`
		}
		if err := cursor.Decode(&row); err != nil {
			return admindomain.UserCounts{}, err
		}
		counts.ByRole[row.Role] = row.Count
		counts.Total += row.Count
		counts.Suspended += row.Suspended
		counts.Verified += row.Verified
	}
	return counts, cursor.Err()
}
