package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	adminapp "github.com/sngm3741/stagelink/api/internal/admin/application"
	admindomain "github.com/sngm3741/stagelink/api/internal/admin/domain"
	"github.com/sngm3741/stagelink/api/internal/public/application"
	"github.com/sngm3741/stagelink/api/internal/public/domain"
)

// PaymentRepository stores purchases. Amounts are Decimal128 so the dashboard
// can sum them server-side without float drift.
type PaymentRepository struct {
	collection *mongo.Collection
}

func NewPaymentRepository(db *mongo.Database, collection string) *PaymentRepository {
	return &PaymentRepository{collection: db.Collection(collection)}
}

func (r *PaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	doc, err := buildPaymentDocument(payment)
	if err != nil {
		return err
	}
	doc.ID = primitive.NewObjectID()
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return translate(err)
	}
	payment.ID = doc.ID.Hex()
	return nil
}

func (r *PaymentRepository) FindByID(ctx context.Context, id string) (*domain.Payment, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *PaymentRepository) FindByProviderRef(ctx context.Context, provider, ref string) (*domain.Payment, error) {
	return r.findOne(ctx, bson.M{"provider": provider, "providerRef": ref})
}

func (r *PaymentRepository) findOne(ctx context.Context, filter bson.M) (*domain.Payment, error) {
	var doc PaymentDocument
	if err := r.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	payment := mapPaymentDocument(doc)
	return &payment, nil
}

func (r *PaymentRepository) AttachIntent(ctx context.Context, id, provider, ref string, at time.Time) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := r.collection.UpdateByID(ctx, oid, bson.M{"$set": bson.M{
		"provider":    provider,
		"providerRef": ref,
		"updatedAt":   at,
	}})
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStatus is a compare-and-set; a concurrent change yields ErrConflict.
func (r *PaymentRepository) UpdateStatus(ctx context.Context, id string, from, to domain.PaymentStatus, at time.Time) error {
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
		return domain.ErrConflict
	}
	return nil
}

func (r *PaymentRepository) Find(ctx context.Context, filter application.PaymentFilter, paging application.Paging) ([]domain.Payment, int64, error) {
	mongoFilter := bson.M{}
	if filter.PartyID != "" {
		mongoFilter["$or"] = bson.A{
			bson.M{"buyerId": filter.PartyID},
			bson.M{"sellerId": filter.PartyID},
		}
	}
	if filter.Status != "" {
		mongoFilter["status"] = string(filter.Status)
	}
	return r.find(ctx, mongoFilter, paging.Skip(), limitOr(paging.Limit, 20, 100))
}

// FindAll lists every payment for operators.
func (r *PaymentRepository) FindAll(ctx context.Context, status domain.PaymentStatus, paging adminapp.Paging) ([]domain.Payment, int64, error) {
	mongoFilter := bson.M{}
	if status != "" {
		mongoFilter["status"] = string(status)
	}
	return r.find(ctx, mongoFilter, paging.Skip(), limitOr(paging.Limit, 20, 100))
}

func (r *PaymentRepository) find(ctx context.Context, filter bson.M, skip, limit int64) ([]domain.Payment, int64, error) {
	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	payments := make([]domain.Payment, 0)
	for cursor.Next(ctx) {
		var doc PaymentDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, 0, err
		}
		payments = append(payments, mapPaymentDocument(doc))
	}
	return payments, total, cursor.Err()
}

// Totals sums amount, commission and payout over payments in status.
func (r *PaymentRepository) Totals(ctx context.Context, status domain.PaymentStatus) (admindomain.PaymentTotals, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"status": string(status)}}},
		{{Key: "$group", Value: bson.M{
			"_id":        nil,
			"count":      bson.M{"$sum": 1},
			"gross":      bson.M{"$sum": "$amount"},
			"commission": bson.M{"$sum": "$commission"},
			"payout":     bson.M{"$sum": "$payout"},
		}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return admindomain.PaymentTotals{}, err
	}
	defer cursor.Close(ctx)

	totals := admindomain.PaymentTotals{Gross: decimal.Zero, Commission: decimal.Zero, Payout: decimal.Zero}
	if cursor.Next(ctx) {
		var row struct {
			Count      int64                `bson:"count"`
			Gross      primitive.Decimal128 `bson:"gross"`
			Commission primitive.Decimal128 `bson:"commission"`
			Payout     primitive.Decimal128 `bson:"payout"`
		}
		if err := cursor.Decode(&row); err != nil {
			return admindomain.PaymentTotals{}, err
		}
		totals.Count = row.Count
		totals.Gross = fromDecimal128(row.Gross)
		totals.Commission = fromDecimal128(row.Commission)
		totals.Payout = fromDecimal128(row.Payout)
	}
	return totals, cursor.Err()
}

func buildPaymentDocument(p *domain.Payment) (PaymentDocument, error) {
	amount, err := toDecimal128(p.Amount.Amount)
	if err != nil {
		return PaymentDocument{}, fmt.Errorf("encode amount: %w", err)
	}
	rate, err := toDecimal128(p.CommissionRate)
	if err != nil {
		return PaymentDocument{}, fmt.Errorf("encode commission rate: %w", err)
	}
	commission, err := toDecimal128(p.Commission)
	if err != nil {
		return PaymentDocument{}, fmt.Errorf("encode commission: %w", err)
	}
	payout, err := toDecimal128(p.Payout)
	if err != nil {
		return PaymentDocument{}, fmt.Errorf("encode payout: %w", err)
	}
	return PaymentDocument{
		ServiceID:      p.ServiceID,
		ServiceTitle:   p.ServiceTitle,
		BuyerID:        p.BuyerID,
		SellerID:       p.SellerID,
		Amount:         amount,
		Currency:       p.Amount.Currency,
		CommissionRate: rate,
		Commission:     commission,
		Payout:         payout,
		Status:         string(p.Status),
		Provider:       p.Provider,
		ProviderRef:    p.ProviderRef,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}, nil
}

func mapPaymentDocument(doc PaymentDocument) domain.Payment {
	return domain.Payment{
		ID:             doc.ID.Hex(),
		ServiceID:      doc.ServiceID,
		ServiceTitle:   doc.ServiceTitle,
		BuyerID:        doc.BuyerID,
		SellerID:       doc.SellerID,
		Amount:         domain.Money{Amount: fromDecimal128(doc.Amount), Currency: doc.Currency},
		CommissionRate: fromDecimal128(doc.CommissionRate),
		Commission:     fromDecimal128(doc.Commission),
		Payout:         fromDecimal128(doc.Payout),
		Status:         domain.PaymentStatus(doc.Status),
		Provider:       doc.Provider,
		ProviderRef:    doc.ProviderRef,
		CreatedAt:      doc.CreatedAt,
		UpdatedAt:      doc.UpdatedAt,
	}
}
