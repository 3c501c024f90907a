// Package consumer turns catalog change events into cache invalidations.
package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/yashrajoria/marketplace/services/catalog-service/models"
)

// Invalidator drops cached category trees.
type Invalidator interface {
	InvalidateTrees(ctx context.Context) error
}

type InvalidationHandler struct {
	target Invalidator
	logger *zap.Logger
}

func NewInvalidationHandler(target Invalidator, logger *zap.Logger) *InvalidationHandler {
	return &InvalidationHandler{target: target, logger: logger}
}

// Handle processes one message body. Unknown event types are acknowledged
// and ignored; malformed bodies are acknowledged too since redelivery cannot
// fix them.
func (h *InvalidationHandler) Handle(ctx context.Context, body string) error {
	var evt models.ChangeEvent
	if err := json.Unmarshal([]byte(body), &evt); err != nil {
		h.logger.Warn("Dropping malformed catalog event", zap.Error(err))
		return nil
	}

	switch evt.Type {
	case models.EventProductUpdated, models.EventCategoryUpdated:
	default:
		h.logger.Debug("ignoring catalog event", zap.String("type", evt.Type))
		return nil
	}

	if err := h.target.InvalidateTrees(ctx); err != nil {
		return fmt.Errorf("invalidate trees for %s: %w", evt.Type, err)
	}
	h.logger.Info("Catalog event processed",
		zap.String("type", evt.Type),
		zap.String("product_id", evt.ProductID),
		zap.String("category_id", evt.CategoryID),
	)
	return nil
}
