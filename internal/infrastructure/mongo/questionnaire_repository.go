package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sngm3741/stagelink/api/internal/public/domain"
)

// QuestionnaireRepository keeps every submission; the newest one wins.
type QuestionnaireRepository struct {
	collection *mongo.Collection
}

func NewQuestionnaireRepository(db *mongo.Database, collection string) *QuestionnaireRepository {
	return &QuestionnaireRepository{collection: db.Collection(collection)}
}

func (r *QuestionnaireRepository) Create(ctx context.Context, resp *domain.QuestionnaireResponse) error {
	a := resp.Answers
	doc := QuestionnaireDocument{
		ID:               primitive.NewObjectID(),
		ArtistID:         resp.ArtistID,
		YearsActive:      a.YearsActive,
		ReleasesCount:    a.ReleasesCount,
		MonthlyListeners: a.MonthlyListeners,
		LiveShowsPerYear: a.LiveShowsPerYear,
		SocialFollowers:  a.SocialFollowers,
		HasManagement:    a.HasManagement,
		HasLabel:         a.HasLabel,
		Goals:            a.Goals,
		Genres:           a.Genres,
		Classification: ClassificationDocument{
			Tier:      string(resp.Classification.Tier),
			Score:     resp.Classification.Score,
			UpdatedAt: resp.Classification.UpdatedAt,
		},
		SubmittedAt: resp.SubmittedAt,
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return translate(err)
	}
	resp.ID = doc.ID.Hex()
	return nil
}

func (r *QuestionnaireRepository) Latest(ctx context.Context, artistID string) (*domain.QuestionnaireResponse, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "submittedAt", Value: -1}, {Key: "_id", Value: -1}})
	var doc QuestionnaireDocument
	if err := r.collection.FindOne(ctx, bson.M{"artistId": artistID}, opts).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	return &domain.QuestionnaireResponse{
		ID:       doc.ID.Hex(),
		ArtistID: doc.ArtistID,
		Answers: domain.QuestionnaireAnswers{
			YearsActive:      doc.YearsActive,
			ReleasesCount:    doc.ReleasesCount,
			MonthlyListeners: doc.MonthlyListeners,
			LiveShowsPerYear: doc.LiveShowsPerYear,
			SocialFollowers:  doc.SocialFollowers,
			HasManagement:    doc.HasManagement,
			HasLabel:         doc.HasLabel,
			Goals:            doc.Goals,
			Genres:           doc.Genres,
		},
		Classification: domain.Classification{
			Tier:      domain.Tier(doc.Classification.Tier),
			Score:     doc.Classification.Score,
			UpdatedAt: doc.Classification.UpdatedAt,
		},
		SubmittedAt: doc.SubmittedAt,
	}, nil
}
