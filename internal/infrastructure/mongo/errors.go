package mongo

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sngm3741/stagelink/api/internal/public/domain"
)

// translate maps driver errors onto domain sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return domain.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", domain.ErrConflict, err)
	}
	return err
}

// objectID parses a hex ID. Malformed IDs cannot exist, so they read as not found.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return primitive.NilObjectID, domain.ErrNotFound
	}
	return oid, nil
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	return primitive.ParseDecimal128(d.String())
}

func fromDecimal128(d primitive.Decimal128) decimal.Decimal {
	parsed, err := decimal.NewFromString(d.String())
	if err != nil {
		return decimal.Zero
	}
	return parsed
}

func limitOr(limit, fallback, max int) int64 {
	if limit <= 0 {
		limit = fallback
	}
	if limit > max {
		limit = max
	}
	return int64(limit)
}
