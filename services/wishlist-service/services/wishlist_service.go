package services

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	aws_pkg "github.com/yashrajoria/marketplace/pkg/aws"
	"github.com/yashrajoria/marketplace/pkg/catalog"
	"github.com/yashrajoria/marketplace/pkg/products"
	apperrors "github.com/yashrajoria/marketplace/services/common/errors"
	"github.com/yashrajoria/marketplace/services/wishlist-service/models"
	"github.com/yashrajoria/marketplace/services/wishlist-service/repository"
)

// ServiceError represents a typed error with an HTTP status code.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	return e.Message
}

// MetricsRecorder is the part of the CloudWatch client the service uses.
type MetricsRecorder interface {
	RecordCount(ctx context.Context, metricName string, dimensions map[string]string) error
}

// WishlistService owns the role-scoped wishlists. Every mutation returns the
// owner's full list so clients can replace their copy wholesale.
type WishlistService interface {
	List(ctx context.Context, owner models.Owner) ([]catalog.Product, *ServiceError)
	Add(ctx context.Context, owner models.Owner, productID string) ([]catalog.Product, *ServiceError)
	Remove(ctx context.Context, owner models.Owner, productID string) ([]catalog.Product, *ServiceError)
}

type wishlistServiceImpl struct {
	repo        repository.WishlistRepository
	products    products.Source
	snsClient   aws_pkg.SNSPublisher
	snsTopicArn string
	metrics     MetricsRecorder
	logger      *zap.Logger
}

// NewWishlistService creates a new WishlistService. snsClient and metrics may
// be nil.
func NewWishlistService(
	repo repository.WishlistRepository,
	source products.Source,
	snsClient aws_pkg.SNSPublisher,
	snsTopicArn string,
	metrics MetricsRecorder,
	logger *zap.Logger,
) WishlistService {
	return &wishlistServiceImpl{
		repo:        repo,
		products:    source,
		snsClient:   snsClient,
		snsTopicArn: snsTopicArn,
		metrics:     metrics,
		logger:      logger,
	}
}

// List resolves the stored ids against the catalog. Products that have since
// been deleted are left out.
func (s *wishlistServiceImpl) List(ctx context.Context, owner models.Owner) ([]catalog.Product, *ServiceError) {
	ids, err := s.repo.List(ctx, owner)
	if err != nil {
		s.logger.Error("Failed to list wishlist", zap.String("owner", owner.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to load wishlist"}
	}
	if len(ids) == 0 {
		return []catalog.Product{}, nil
	}

	items, err := s.products.ProductsByIDs(ctx, ids)
	if err != nil {
		s.logger.Error("Failed to resolve wishlist products", zap.String("owner", owner.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to load wishlist"}
	}
	return items, nil
}

// Add is idempotent: adding a product already on the list leaves it in place.
func (s *wishlistServiceImpl) Add(ctx context.Context, owner models.Owner, productID string) ([]catalog.Product, *ServiceError) {
	exists, err := s.products.ProductExists(ctx, productID)
	if err != nil {
		s.logger.Error("Failed to look up product", zap.String("product_id", productID), zap.Error(err))
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to update wishlist"}
	}
	if !exists {
		return nil, &ServiceError{StatusCode: apperrors.ErrProductNotFound.Code, Message: apperrors.ErrProductNotFound.Message}
	}

	if err := s.repo.Add(ctx, owner, productID); err != nil {
		s.logger.Error("Failed to add wishlist item", zap.String("owner", owner.String()), zap.String("product_id", productID), zap.Error(err))
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to update wishlist"}
	}

	s.logger.Info("Wishlist item added", zap.String("owner", owner.String()), zap.String("product_id", productID))
	s.publish(ctx, models.EventItemAdded, owner, productID)
	s.record(ctx, aws_pkg.MetricWishlistItemAdded, owner)
	return s.List(ctx, owner)
}

// Remove is idempotent: removing an absent product is not an error.
func (s *wishlistServiceImpl) Remove(ctx context.Context, owner models.Owner, productID string) ([]catalog.Product, *ServiceError) {
	if err := s.repo.Remove(ctx, owner, productID); err != nil {
		s.logger.Error("Failed to remove wishlist item", zap.String("owner", owner.String()), zap.String("product_id", productID), zap.Error(err))
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to update wishlist"}
	}

	s.logger.Info("Wishlist item removed", zap.String("owner", owner.String()), zap.String("product_id", productID))
	s.publish(ctx, models.EventItemRemoved, owner, productID)
	s.record(ctx, aws_pkg.MetricWishlistItemRemoved, owner)
	return s.List(ctx, owner)
}

// publish is best effort; a failed event never fails the request.
func (s *wishlistServiceImpl) publish(ctx context.Context, eventType string, owner models.Owner, productID string) {
	if s.snsClient == nil || s.snsTopicArn == "" {
		return
	}
	evt := models.ItemEvent{
		Type:      eventType,
		OwnerRole: owner.Role,
		OwnerID:   owner.ID,
		ProductID: productID,
		At:        time.Now().UTC(),
	}
	if err := s.snsClient.PublishEvent(ctx, s.snsTopicArn, eventType, evt); err != nil {
		s.logger.Warn("Failed to publish wishlist event", zap.String("event_type", eventType), zap.Error(err))
	}
}

func (s *wishlistServiceImpl) record(ctx context.Context, metric string, owner models.Owner) {
	if s.metrics == nil {
		return
	}
	if err := s.metrics.RecordCount(ctx, metric, map[string]string{"Service": "wishlist-service", "Role": owner.Role}); err != nil {
		s.logger.Debug("metric not recorded", zap.String("metric", metric), zap.Error(err))
	}
}
