package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/herbolario-backend/internal/logger"
)

// PlantImageService uploads a plant photo to the media bucket and persists
// the resulting public URL on the plant row. The URL is only written after
// the upload succeeded, so a bucket outage can never leave the catalog
// pointing at a missing object.
type PlantImageService interface {
	UploadPlantImage(ctx context.Context, plantID uuid.UUID, contentType string, body io.Reader) (string, error)
}

type plantImageService struct {
	log           *logger.Logger
	plantService  PlantService
	bucketService BucketService
}

func NewPlantImageService(baseLog *logger.Logger, plantService PlantService, bucketService BucketService) PlantImageService {
	serviceLog := baseLog.With("service", "PlantImageService")
	return &plantImageService{
		log:           serviceLog,
		plantService:  plantService,
		bucketService: bucketService,
	}
}

var imageExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

func (is *plantImageService) UploadPlantImage(ctx context.Context, plantID uuid.UUID, contentType string, body io.Reader) (string, error) {
	ext, ok := imageExtensions[strings.ToLower(strings.TrimSpace(contentType))]
	if !ok {
		return "", &ValidationError{Field: "image", Reason: "content type must be image/jpeg, image/png or image/webp"}
	}

	plant, err := is.plantService.GetByID(ctx, plantID)
	if err != nil {
		return "", err
	}

	// Versioned key: a CDN in front of the bucket ignores query params, so
	// replacing an image needs a fresh object name.
	key := fmt.Sprintf("plant_image/%s/%d.%s", plantID.String(), time.Now().UnixNano(), ext)

	is.log.Info("UploadPlantImage", "plant_id", plantID, "key", key)
	if err := is.bucketService.UploadFile(ctx, key, body); err != nil {
		is.log.Error("UploadPlantImage failed", "plant_id", plantID, "error", err)
		return "", fmt.Errorf("upload plant image: %w", err)
	}

	url := is.bucketService.GetPublicURL(key)
	if err := is.plantService.SetImageURL(ctx, plantID, url); err != nil {
		return "", err
	}

	// Best effort: remove the superseded object. The catalog already points
	// at the new URL, so a failure here only strands a bucket object.
	if oldKey := bucketKeyFromURL(plant.ImageURL); oldKey != "" && oldKey != key {
		if err := is.bucketService.DeleteFile(ctx, oldKey); err != nil {
			is.log.Warn("Could not delete previous plant image", "plant_id", plantID, "key", oldKey, "error", err)
		}
	}

	return url, nil
}

// bucketKeyFromURL recovers the object key from a stored public URL. Only
// URLs under our own key prefix are touched; anything else (including
// legacy URLs imported from the old media host) is left alone.
func bucketKeyFromURL(url string) string {
	idx := strings.Index(url, "plant_image/")
	if idx < 0 {
		return ""
	}
	return url[idx:]
}
