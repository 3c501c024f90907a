package dynamodb

import (
	"context"
	"errors"
	"testing"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTables struct {
	in  *dynamodb.CreateTableInput
	err error
}

func (f *fakeTables) CreateTable(_ context.Context, in *dynamodb.CreateTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error) {
	f.in = in
	return &dynamodb.CreateTableOutput{}, f.err
}

func TestEnsureTable_CreatesCompositeKey(t *testing.T) {
	f := &fakeTables{}

	require.NoError(t, EnsureTable(context.Background(), f, "wishlist", "owner", "product_id"))

	assert.Equal(t, "wishlist", sdkaws.ToString(f.in.TableName))
	assert.Equal(t, types.BillingModePayPerRequest, f.in.BillingMode)
	require.Len(t, f.in.KeySchema, 2)
	assert.Equal(t, "owner", sdkaws.ToString(f.in.KeySchema[0].AttributeName))
	assert.Equal(t, types.KeyTypeHash, f.in.KeySchema[0].KeyType)
	assert.Equal(t, "product_id", sdkaws.ToString(f.in.KeySchema[1].AttributeName))
	assert.Equal(t, types.KeyTypeRange, f.in.KeySchema[1].KeyType)
}

func TestEnsureTable_ExistingTableIsFine(t *testing.T) {
	f := &fakeTables{err: &types.ResourceInUseException{Message: sdkaws.String("exists")}}

	assert.NoError(t, EnsureTable(context.Background(), f, "wishlist", "owner", "product_id"))
}

func TestEnsureTable_OtherErrorsSurface(t *testing.T) {
	f := &fakeTables{err: errors.New("access denied")}

	err := EnsureTable(context.Background(), f, "wishlist", "owner", "product_id")
	assert.ErrorContains(t, err, "create table wishlist")
}
