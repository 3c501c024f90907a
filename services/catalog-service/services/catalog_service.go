package services

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	aws_pkg "github.com/yashrajoria/marketplace/pkg/aws"
	"github.com/yashrajoria/marketplace/pkg/catalog"
	"github.com/yashrajoria/marketplace/pkg/products"
	apperrors "github.com/yashrajoria/marketplace/services/common/errors"
	"github.com/yashrajoria/marketplace/services/catalog-service/models"
)

// ServiceError represents a typed error with an HTTP status code.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	return e.Message
}

// TreeCache is the read-through cache in front of the product source.
type TreeCache interface {
	Get(ctx context.Context, slug string) (*products.Tree, bool)
	SetAsync(slug string, tree *products.Tree)
	Invalidate(ctx context.Context) error
}

// MetricsRecorder is the part of the CloudWatch client the service uses.
type MetricsRecorder interface {
	RecordCount(ctx context.Context, metricName string, dimensions map[string]string) error
	RecordValue(ctx context.Context, metricName string, value float64, dimensions map[string]string) error
}

type CatalogService interface {
	Tree(ctx context.Context, slug string) (*products.Tree, *ServiceError)
	Browse(ctx context.Context, slug string, q models.FilterQuery) (*models.BrowseResponse, *ServiceError)
	Facets(ctx context.Context, slug, brandSearch string) (*models.FacetsResponse, *ServiceError)
	InvalidateTrees(ctx context.Context) error
}

type catalogServiceImpl struct {
	source  products.Source
	cache   TreeCache
	metrics MetricsRecorder
	logger  *zap.Logger

	loads singleflight.Group
}

// NewCatalogService creates a new CatalogService. cache and metrics may be nil.
func NewCatalogService(source products.Source, cache TreeCache, metrics MetricsRecorder, logger *zap.Logger) CatalogService {
	return &catalogServiceImpl{source: source, cache: cache, metrics: metrics, logger: logger}
}

func (s *catalogServiceImpl) Tree(ctx context.Context, slug string) (*products.Tree, *ServiceError) {
	if s.cache != nil {
		if tree, ok := s.cache.Get(ctx, slug); ok {
			s.count(ctx, aws_pkg.MetricCacheHits)
			return tree, nil
		}
		s.count(ctx, aws_pkg.MetricCacheMisses)
	}

	// Concurrent misses for one slug share a single load.
	v, err, _ := s.loads.Do(slug, func() (interface{}, error) {
		start := time.Now()
		tree, err := s.source.CategoryTree(ctx, slug)
		if err != nil {
			return nil, err
		}
		s.logger.Debug("category tree loaded", zap.String("slug", slug), zap.Int("products", len(tree.Products)), zap.Duration("took", time.Since(start)))
		if s.cache != nil {
			s.cache.SetAsync(slug, tree)
		}
		return tree, nil
	})
	if errors.Is(err, products.ErrCategoryNotFound) {
		return nil, &ServiceError{StatusCode: apperrors.ErrCategoryNotFound.Code, Message: apperrors.ErrCategoryNotFound.Message}
	}
	if err != nil {
		s.logger.Error("Failed to load category tree", zap.String("slug", slug), zap.Error(err))
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to load category"}
	}
	return v.(*products.Tree), nil
}

// Browse runs the filter engine over the subcategory products. The price
// ceiling is the observed maximum of the collection.
func (s *catalogServiceImpl) Browse(ctx context.Context, slug string, q models.FilterQuery) (*models.BrowseResponse, *ServiceError) {
	tree, svcErr := s.Tree(ctx, slug)
	if svcErr != nil {
		return nil, svcErr
	}

	view := catalog.NewView(tree.Products)
	for _, a := range q.Actions() {
		view.Dispatch(a)
	}

	criteria := view.Criteria()
	filtered := view.Products()
	s.count(ctx, aws_pkg.MetricCatalogFilterRuns)
	if s.metrics != nil {
		_ = s.metrics.RecordValue(ctx, aws_pkg.MetricCatalogFilterHits, float64(len(filtered)), map[string]string{"Service": "catalog-service"})
	}

	return &models.BrowseResponse{
		Products:      filtered,
		Facets:        view.Facets(),
		VisibleBrands: view.VisibleBrands(),
		Criteria:      criteria,
		InvalidRanges: append([]catalog.RangeIssue{}, criteria.InvalidRanges()...),
		Total:         len(filtered),
	}, nil
}

func (s *catalogServiceImpl) Facets(ctx context.Context, slug, brandSearch string) (*models.FacetsResponse, *ServiceError) {
	tree, svcErr := s.Tree(ctx, slug)
	if svcErr != nil {
		return nil, svcErr
	}

	facets := catalog.ExtractFacets(tree.Products)
	return &models.FacetsResponse{
		Facets:        facets,
		VisibleBrands: facets.MatchingBrands(brandSearch),
	}, nil
}

func (s *catalogServiceImpl) InvalidateTrees(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Invalidate(ctx)
}

func (s *catalogServiceImpl) count(ctx context.Context, metric string) {
	if s.metrics == nil {
		return
	}
	_ = s.metrics.RecordCount(ctx, metric, map[string]string{"Service": "catalog-service"})
}
