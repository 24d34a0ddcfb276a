package application

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/sngm3741/stagelink/api/internal/public/domain"
)

var uploadContentTypes = map[string]map[string]string{
	"avatar": {
		"image/jpeg": ".jpg",
		"image/png":  ".png",
		"image/webp": ".webp",
	},
	"portfolio": {
		"image/jpeg": ".jpg",
		"image/png":  ".png",
		"image/webp": ".webp",
		"audio/mpeg": ".mp3",
		"audio/wav":  ".wav",
	},
}

type uploadService struct {
	storage MediaStorage
	newID   func() string
}

// NewUploadService wires presigned uploads against storage.
func NewUploadService(storage MediaStorage) UploadService {
	return &uploadService{storage: storage, newID: uuid.NewString}
}

// Presign returns a PUT target under <kind>/<userID>/<uuid><ext>.
func (s *uploadService) Presign(ctx context.Context, cmd PresignCommand) (*PresignedUpload, error) {
	kind := strings.ToLower(strings.TrimSpace(cmd.Kind))
	allowed, ok := uploadContentTypes[kind]
	if !ok {
		return nil, domain.Invalid("kind", "must be avatar or portfolio")
	}
	contentType := strings.ToLower(strings.TrimSpace(cmd.ContentType))
	ext, ok := allowed[contentType]
	if !ok {
		return nil, domain.Invalid("contentType", "%s is not accepted for %s uploads", cmd.ContentType, kind)
	}
	if _, err := domain.LimitRunes("fileName", cmd.FileName, 255); err != nil {
		return nil, err
	}

	key := kind + "/" + cmd.UserID + "/" + s.newID() + ext
	return s.storage.PresignPut(ctx, key, contentType)
}
