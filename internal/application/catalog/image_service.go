package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/foodorder/backend/internal/domain/access"
	"github.com/foodorder/backend/internal/domain/catalog"
	"github.com/foodorder/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// imageExtensions whitelists the content types accepted for catalog images.
// SVG is excluded because it can carry script.
var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// ImageStorage is the object store catalog images are uploaded to.
// Implemented by the infrastructure layer (S3, MinIO, in-memory).
type ImageStorage interface {
	// GenerateUploadURL returns a presigned PUT URL bound to the content
	// type and length, and its expiry
	GenerateUploadURL(ctx context.Context, key, contentType string, size int64, expiresIn time.Duration) (string, time.Time, error)
	ObjectExists(ctx context.Context, key string) (bool, error)
	DeleteObject(ctx context.Context, key string) error
	// PublicURL returns the URL clients load the object from
	PublicURL(key string) string
}

// ImageServiceConfig holds limits for image uploads
type ImageServiceConfig struct {
	UploadURLExpiry time.Duration
	MaxImageSize    int64
}

// DefaultImageServiceConfig returns the default configuration
func DefaultImageServiceConfig() ImageServiceConfig {
	return ImageServiceConfig{
		UploadURLExpiry: 15 * time.Minute,
		MaxImageSize:    5 << 20,
	}
}

// ImageService issues presigned upload URLs for restaurant and menu item
// images and attaches uploaded objects once the client confirms them.
type ImageService struct {
	restaurantRepo catalog.RestaurantRepository
	menuItemRepo   catalog.MenuItemRepository
	storage        ImageStorage
	config         ImageServiceConfig
	logger         *zap.Logger
}

// NewImageService creates a new image service. A nil storage disables
// uploads; every call then fails with SERVICE_UNAVAILABLE.
func NewImageService(
	restaurantRepo catalog.RestaurantRepository,
	menuItemRepo catalog.MenuItemRepository,
	storage ImageStorage,
	config ImageServiceConfig,
	logger *zap.Logger,
) *ImageService {
	defaults := DefaultImageServiceConfig()
	if config.UploadURLExpiry <= 0 {
		config.UploadURLExpiry = defaults.UploadURLExpiry
	}
	if config.MaxImageSize <= 0 {
		config.MaxImageSize = defaults.MaxImageSize
	}
	return &ImageService{
		restaurantRepo: restaurantRepo,
		menuItemRepo:   menuItemRepo,
		storage:        storage,
		config:         config,
		logger:         logger,
	}
}

// InitiateRestaurantImage returns a presigned URL for a new restaurant image
func (s *ImageService) InitiateRestaurantImage(ctx context.Context, p access.Principal, id uuid.UUID, req ImageUploadRequest) (*ImageUploadResponse, error) {
	if err := s.ready(p, access.OpRestaurantUpdate); err != nil {
		return nil, err
	}
	if _, err := s.restaurantRepo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	return s.initiate(ctx, restaurantImagePrefix(id), req)
}

// ConfirmRestaurantImage points the restaurant at an uploaded object and
// removes the image it replaces
func (s *ImageService) ConfirmRestaurantImage(ctx context.Context, p access.Principal, id uuid.UUID, req ImageConfirmRequest) (*RestaurantResponse, error) {
	if err := s.ready(p, access.OpRestaurantUpdate); err != nil {
		return nil, err
	}
	restaurant, err := s.restaurantRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkUploaded(ctx, restaurantImagePrefix(id), req.StorageKey); err != nil {
		return nil, err
	}

	previous := restaurant.ImageURL
	imageURL := s.storage.PublicURL(req.StorageKey)
	if err := restaurant.Update(catalog.RestaurantUpdate{ImageURL: &imageURL}); err != nil {
		return nil, err
	}
	if err := s.restaurantRepo.Save(ctx, restaurant); err != nil {
		return nil, err
	}
	s.removeReplaced(ctx, previous, imageURL)

	s.logger.Info("Restaurant image updated",
		zap.String("restaurant_id", id.String()),
		zap.String("storage_key", req.StorageKey))

	resp := ToRestaurantResponse(restaurant)
	return &resp, nil
}

// InitiateMenuItemImage returns a presigned URL for a new menu item image
func (s *ImageService) InitiateMenuItemImage(ctx context.Context, p access.Principal, id uuid.UUID, req ImageUploadRequest) (*ImageUploadResponse, error) {
	if err := s.ready(p, access.OpMenuItemUpdate); err != nil {
		return nil, err
	}
	if _, err := s.menuItemRepo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	return s.initiate(ctx, menuItemImagePrefix(id), req)
}

// ConfirmMenuItemImage points the menu item at an uploaded object and
// removes the image it replaces
func (s *ImageService) ConfirmMenuItemImage(ctx context.Context, p access.Principal, id uuid.UUID, req ImageConfirmRequest) (*MenuItemResponse, error) {
	if err := s.ready(p, access.OpMenuItemUpdate); err != nil {
		return nil, err
	}
	item, err := s.menuItemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkUploaded(ctx, menuItemImagePrefix(id), req.StorageKey); err != nil {
		return nil, err
	}

	previous := item.ImageURL
	imageURL := s.storage.PublicURL(req.StorageKey)
	if err := item.Update(catalog.MenuItemUpdate{ImageURL: &imageURL}); err != nil {
		return nil, err
	}
	if err := s.menuItemRepo.Save(ctx, item); err != nil {
		return nil, err
	}
	s.removeReplaced(ctx, previous, imageURL)

	s.logger.Info("Menu item image updated",
		zap.String("menu_item_id", id.String()),
		zap.String("storage_key", req.StorageKey))

	resp := ToMenuItemResponse(item, nil)
	return &resp, nil
}

func (s *ImageService) ready(p access.Principal, op access.Operation) error {
	if err := access.Authorize(p, op); err != nil {
		return err
	}
	if s.storage == nil {
		return shared.NewDomainError(shared.CodeUnavailable, "Image storage is not configured")
	}
	return nil
}

func (s *ImageService) initiate(ctx context.Context, prefix string, req ImageUploadRequest) (*ImageUploadResponse, error) {
	ext, ok := imageExtensions[req.ContentType]
	if !ok {
		return nil, shared.NewDomainError("INVALID_CONTENT_TYPE",
			fmt.Sprintf("Content type '%s' is not allowed. Allowed types: image/jpeg, image/png, image/webp", req.ContentType))
	}
	if req.FileSize <= 0 || req.FileSize > s.config.MaxImageSize {
		return nil, shared.NewDomainError("INVALID_FILE_SIZE",
			fmt.Sprintf("Image size must be between 1 and %d bytes", s.config.MaxImageSize))
	}

	key := prefix + uuid.New().String() + ext
	uploadURL, expiresAt, err := s.storage.GenerateUploadURL(ctx, key, req.ContentType, req.FileSize, s.config.UploadURLExpiry)
	if err != nil {
		s.logger.Error("Failed to generate upload URL", zap.String("storage_key", key), zap.Error(err))
		return nil, shared.NewDomainError(shared.CodeUnavailable, "Failed to generate upload URL")
	}

	return &ImageUploadResponse{
		StorageKey:  key,
		UploadURL:   uploadURL,
		Method:      "PUT",
		ContentType: req.ContentType,
		ExpiresAt:   expiresAt,
		ImageURL:    s.storage.PublicURL(key),
	}, nil
}

// checkUploaded accepts only keys issued for this entity whose object has
// actually arrived in the bucket
func (s *ImageService) checkUploaded(ctx context.Context, prefix, key string) error {
	if !strings.HasPrefix(key, prefix) || strings.Contains(key, "..") {
		return shared.NewDomainError("INVALID_STORAGE_KEY", "Storage key does not belong to this resource")
	}
	exists, err := s.storage.ObjectExists(ctx, key)
	if err != nil {
		return err
	}
	if !exists {
		return shared.NewInvalidStateError("Image has not been uploaded yet")
	}
	return nil
}

// removeReplaced deletes the previous image when it lives in our bucket.
// External URLs such as seeded stock photos are left alone.
func (s *ImageService) removeReplaced(ctx context.Context, previous, current string) {
	if previous == "" || previous == current {
		return
	}
	key, ok := strings.CutPrefix(previous, s.storage.PublicURL(""))
	if !ok || key == "" {
		return
	}
	if err := s.storage.DeleteObject(ctx, key); err != nil {
		s.logger.Warn("Failed to delete replaced image",
			zap.String("storage_key", key),
			zap.Error(err))
	}
}

func restaurantImagePrefix(id uuid.UUID) string {
	return "restaurants/" + id.String() + "/"
}

func menuItemImagePrefix(id uuid.UUID) string {
	return "menu-items/" + id.String() + "/"
}
