package consumer_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/yashrajoria/marketplace/services/catalog-service/consumer"
)

type countingInvalidator struct {
	calls int
	err   error
}

func (c *countingInvalidator) InvalidateTrees(ctx context.Context) error {
	c.calls++
	return c.err
}

func TestHandle_InvalidatesOnChangeEvents(t *testing.T) {
	inv := &countingInvalidator{}
	h := consumer.NewInvalidationHandler(inv, zap.NewNop())

	assert.NoError(t, h.Handle(context.Background(), `{"type":"product.updated","product_id":"p1"}`))
	assert.NoError(t, h.Handle(context.Background(), `{"type":"category.updated","category_id":"c1"}`))

	assert.Equal(t, 2, inv.calls)
}

func TestHandle_IgnoresOtherEvents(t *testing.T) {
	inv := &countingInvalidator{}
	h := consumer.NewInvalidationHandler(inv, zap.NewNop())

	assert.NoError(t, h.Handle(context.Background(), `{"type":"order.created"}`))
	assert.NoError(t, h.Handle(context.Background(), `not json`))

	assert.Zero(t, inv.calls)
}

func TestHandle_FailureKeepsMessage(t *testing.T) {
	inv := &countingInvalidator{err: errors.New("redis down")}
	h := consumer.NewInvalidationHandler(inv, zap.NewNop())

	err := h.Handle(context.Background(), `{"type":"product.updated"}`)

	assert.Error(t, err)
}
