package mongo

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sngm3741/stagelink/api/internal/public/application"
	"github.com/sngm3741/stagelink/api/internal/public/domain"
)

// ServiceRepository stores the premium service catalogue.
type ServiceRepository struct {
	collection *mongo.Collection
}

func NewServiceRepository(db *mongo.Database, collection string) *ServiceRepository {
	return &ServiceRepository{collection: db.Collection(collection)}
}

func (r *ServiceRepository) Create(ctx context.Context, svc *domain.PremiumService) error {
	doc, err := buildServiceDocument(svc)
	if err != nil {
		return err
	}
	doc.ID = primitive.NewObjectID()
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return translate(err)
	}
	svc.ID = doc.ID.Hex()
	return nil
}

func (r *ServiceRepository) FindByID(ctx context.Context, id string) (*domain.PremiumService, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var doc ServiceDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	svc := mapServiceDocument(doc)
	return &svc, nil
}

func (r *ServiceRepository) Update(ctx context.Context, svc *domain.PremiumService) error {
	oid, err := objectID(svc.ID)
	if err != nil {
		return err
	}
	doc, err := buildServiceDocument(svc)
	if err != nil {
		return err
	}
	res, err := r.collection.UpdateByID(ctx, oid, bson.M{"$set": bson.M{
		"title":        doc.Title,
		"description":  doc.Description,
		"category":     doc.Category,
		"price":        doc.Price,
		"currency":     doc.Currency,
		"deliveryDays": doc.DeliveryDays,
		"active":       doc.Active,
		"updatedAt":    doc.UpdatedAt,
	}})
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ServiceRepository) Find(ctx context.Context, filter application.ServiceFilter, paging application.Paging) ([]domain.PremiumService, int64, error) {
	mongoFilter := bson.M{}
	if !filter.IncludeInactive {
		mongoFilter["active"] = true
	}
	if filter.ProfessionalID != "" {
		mongoFilter["professionalId"] = filter.ProfessionalID
	}
	if filter.Category != "" {
		mongoFilter["category"] = string(filter.Category)
	}
	if filter.MaxPrice != nil {
		max, err := toDecimal128(*filter.MaxPrice)
		if err != nil {
			return nil, 0, fmt.Errorf("max price: %w", err)
		}
		mongoFilter["price"] = bson.M{"$lte": max}
	}
	if filter.Keyword != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(strings.TrimSpace(filter.Keyword)), Options: "i"}
		mongoFilter["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"description": pattern},
		}
	}

	total, err := r.collection.CountDocuments(ctx, mongoFilter)
	if err != nil {
		return nil, 0, err
	}

	sort := bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}
	switch paging.Sort {
	case "price_asc":
		sort = bson.D{{Key: "price", Value: 1}, {Key: "_id", Value: 1}}
	case "price_desc":
		sort = bson.D{{Key: "price", Value: -1}, {Key: "_id", Value: -1}}
	}
	opts := options.Find().
		SetSort(sort).
		SetSkip(paging.Skip()).
		SetLimit(limitOr(paging.Limit, 20, 50))
	cursor, err := r.collection.Find(ctx, mongoFilter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	services := make([]domain.PremiumService, 0)
	for cursor.Next(ctx) {
		var doc ServiceDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, 0, err
		}
		services = append(services, mapServiceDocument(doc))
	}
	return services, total, cursor.Err()
}

func buildServiceDocument(svc *domain.PremiumService) (ServiceDocument, error) {
	price, err := toDecimal128(svc.Price.Amount)
	if err != nil {
		return ServiceDocument{}, fmt.Errorf("encode price: %w", err)
	}
	return ServiceDocument{
		ProfessionalID: svc.ProfessionalID,
		Title:          svc.Title,
		Description:    svc.Description,
		Category:       string(svc.Category),
		Price:          price,
		Currency:       svc.Price.Currency,
		DeliveryDays:   svc.DeliveryDays,
		Active:         svc.Active,
		CreatedAt:      svc.CreatedAt,
		UpdatedAt:      svc.UpdatedAt,
	}, nil
}

func mapServiceDocument(doc ServiceDocument) domain.PremiumService {
	return domain.PremiumService{
		ID:             doc.ID.Hex(),
		ProfessionalID: doc.ProfessionalID,
		Title:          doc.Title,
		Description:    doc.Description,
		Category:       domain.ServiceCategory(doc.Category),
		Price:          domain.Money{Amount: fromDecimal128(doc.Price), Currency: doc.Currency},
		DeliveryDays:   doc.DeliveryDays,
		Active:         doc.Active,
		CreatedAt:      doc.CreatedAt,
		UpdatedAt:      doc.UpdatedAt,
	}
}
