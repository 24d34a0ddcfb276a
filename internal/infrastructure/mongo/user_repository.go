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

	"github.com/sngm3741/stagelink/api/internal/public/application"
	"github.com/sngm3741/stagelink/api/internal/public/domain"
)

// UserRepository is the Mongo implementation of application.UserRepository.
type UserRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(db *mongo.Database, collection string) *UserRepository {
	return &UserRepository{collection: db.Collection(collection)}
}

// Create inserts a user; the unique email index turns duplicates into ErrConflict.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	doc := buildUserDocument(user)
	doc.ID = primitive.NewObjectID()
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return translate(err)
	}
	user.ID = doc.ID.Hex()
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var doc UserDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	user := mapUserDocument(doc)
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email domain.Email) (*domain.User, error) {
	var doc UserDocument
	if err := r.collection.FindOne(ctx, bson.M{"email": email.String()}).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	user := mapUserDocument(doc)
	return &user, nil
}

// Update replaces the profile fields. Credentials, role, status and plan are left alone.
func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	oid, err := objectID(user.ID)
	if err != nil {
		return err
	}
	doc := buildUserDocument(user)
	set := bson.M{
		"displayName":      doc.DisplayName,
		"displayNameLower": doc.DisplayNameLower,
		"bio":              doc.Bio,
		"genres":           doc.Genres,
		"location":         doc.Location,
		"avatarUrl":        doc.AvatarURL,
		"links":            doc.Links,
		"professionalType": doc.ProfessionalType,
		"company":          doc.Company,
		"updatedAt":        doc.UpdatedAt,
	}
	if doc.Classification != nil {
		set["classification"] = doc.Classification
	}
	res, err := r.collection.UpdateByID(ctx, oid, bson.M{"$set": set})
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetClassification is a targeted $set so a concurrent profile edit is kept.
func (r *UserRepository) SetClassification(ctx context.Context, id string, classification domain.Classification, genres []string, at time.Time) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	set := bson.M{
		"classification": ClassificationDocument{
			Tier:      string(classification.Tier),
			Score:     classification.Score,
			UpdatedAt: classification.UpdatedAt,
		},
		"updatedAt": at,
	}
	if len(genres) > 0 {
		set["genres"] = genres
	}
	res, err := r.collection.UpdateByID(ctx, oid, bson.M{"$set": set})
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *UserRepository) TouchSignIn(ctx context.Context, id string, at time.Time) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	_, err = r.collection.UpdateByID(ctx, oid, bson.M{"$set": bson.M{"lastSignInAt": at}})
	return translate(err)
}

// Search lists active artists and professionals. Admin accounts never appear.
func (r *UserRepository) Search(ctx context.Context, filter application.ProfileFilter, paging application.Paging) ([]domain.User, int64, error) {
	clauses := bson.A{
		bson.M{"status": bson.M{"$ne": string(domain.UserSuspended)}},
	}
	if filter.Role != "" {
		clauses = append(clauses, bson.M{"role": string(filter.Role)})
	} else {
		clauses = append(clauses, bson.M{"role": bson.M{"$in": bson.A{string(domain.RoleArtist), string(domain.RoleProfessional)}}})
	}
	if filter.Genre != "" {
		clauses = append(clauses, bson.M{"genres": strings.ToLower(strings.TrimSpace(filter.Genre))})
	}
	if filter.Location != "" {
		clauses = append(clauses, bson.M{"location": primitive.Regex{Pattern: regexp.QuoteMeta(strings.TrimSpace(filter.Location)), Options: "i"}})
	}
	if filter.Tier != "" {
		clauses = append(clauses, bson.M{"classification.tier": string(filter.Tier)})
	}
	if filter.ProfessionalType != "" {
		clauses = append(clauses, bson.M{"professionalType": string(filter.ProfessionalType)})
	}
	if filter.Keyword != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(strings.TrimSpace(filter.Keyword)), Options: "i"}
		clauses = append(clauses, bson.M{"$or": bson.A{
			bson.M{"displayName": pattern},
			bson.M{"bio": pattern},
			bson.M{"company": pattern},
		}})
	}
	mongoFilter := bson.M{"$and": clauses}

	total, err := r.collection.CountDocuments(ctx, mongoFilter)
	if err != nil {
		return nil, 0, err
	}

	var sort bson.D
	switch paging.Sort {
	case "name":
		sort = bson.D{{Key: "displayNameLower", Value: 1}, {Key: "_id", Value: 1}}
	case "score":
		sort = bson.D{{Key: "classification.score", Value: -1}, {Key: "createdAt", Value: -1}}
	default:
		sort = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}
	}
	opts := options.Find().
		SetSort(sort).
		SetSkip(paging.Skip()).
		SetLimit(limitOr(paging.Limit, 20, 50))

	users, err := r.decodeUsers(ctx, mongoFilter, opts)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *UserRepository) decodeUsers(ctx context.Context, filter any, opts *options.FindOptions) ([]domain.User, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users := make([]domain.User, 0)
	for cursor.Next(ctx) {
		var doc UserDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		users = append(users, mapUserDocument(doc))
	}
	return users, cursor.Err()
}

func buildUserDocument(user *domain.User) UserDocument {
	doc := UserDocument{
		Email:            user.Email.String(),
		PasswordHash:     user.PasswordHash,
		Role:             string(user.Role),
		DisplayName:      user.DisplayName,
		DisplayNameLower: strings.ToLower(user.DisplayName),
		Bio:              user.Bio,
		Genres:           user.Genres,
		Location:         user.Location,
		AvatarURL:        user.AvatarURL.String(),
		Links: LinksDocument{
			Website:    user.Links.Website.String(),
			Spotify:    user.Links.Spotify.String(),
			Instagram:  user.Links.Instagram.String(),
			YouTube:    user.Links.YouTube.String(),
			SoundCloud: user.Links.SoundCloud.String(),
		},
		ProfessionalType: string(user.ProfessionalType),
		Company:          user.Company,
		Plan:             string(user.Plan),
		Status:           string(user.Status),
		Verified:         user.Verified,
		CreatedAt:        user.CreatedAt,
		UpdatedAt:        user.UpdatedAt,
		LastSignInAt:     user.LastSignInAt,
	}
	if doc.Plan == "" {
		doc.Plan = string(domain.PlanFree)
	}
	if doc.Status == "" {
		doc.Status = string(domain.UserActive)
	}
	if user.Classification != nil {
		doc.Classification = &ClassificationDocument{
			Tier:      string(user.Classification.Tier),
			Score:     user.Classification.Score,
			UpdatedAt: user.Classification.UpdatedAt,
		}
	}
	return doc
}

func mapUserDocument(doc UserDocument) domain.User {
	user := domain.User{
		ID:           doc.ID.Hex(),
		Email:        domain.Email(doc.Email),
		PasswordHash: doc.PasswordHash,
		Role:         domain.Role(doc.Role),
		DisplayName:  doc.DisplayName,
		Bio:          doc.Bio,
		Genres:       doc.Genres,
		Location:     doc.Location,
		AvatarURL:    domain.URL(doc.AvatarURL),
		Links: domain.Links{
			Website:    domain.URL(doc.Links.Website),
			Spotify:    domain.URL(doc.Links.Spotify),
			Instagram:  domain.URL(doc.Links.Instagram),
			YouTube:    domain.URL(doc.Links.YouTube),
			SoundCloud: domain.URL(doc.Links.SoundCloud),
		},
		ProfessionalType: domain.ProfessionalType(doc.ProfessionalType),
		Company:          doc.Company,
		Plan:             domain.Plan(doc.Plan),
		Status:           domain.UserStatus(doc.Status),
		Verified:         doc.Verified,
		CreatedAt:        doc.CreatedAt,
		UpdatedAt:        doc.UpdatedAt,
		LastSignInAt:     doc.LastSignInAt,
	}
	if user.Genres == nil {
		user.Genres = []string{}
	}
	if doc.Classification != nil {
		user.Classification = &domain.Classification{
			Tier:      domain.Tier(doc.Classification.Tier),
			Score:     doc.Classification.Score,
			UpdatedAt: doc.Classification.UpdatedAt,
		}
	}
	return user
}
