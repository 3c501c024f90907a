package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yashrajoria/marketplace/services/wishlist-service/models"
)

// fakeDynamo keeps items keyed by owner then product id and honours the
// attribute_not_exists condition. Query returns pages of pageSize items.
type fakeDynamo struct {
	mu       sync.Mutex
	items    map[string]map[string]map[string]types.AttributeValue
	pageSize int
	queries  int
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{items: map[string]map[string]map[string]types.AttributeValue{}}
}

func str(av types.AttributeValue) string {
	return av.(*types.AttributeValueMemberS).Value
}

func (f *fakeDynamo) PutItem(ctx context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	owner, product := str(in.Item[DynamoPartitionKey]), str(in.Item[DynamoSortKey])
	if f.items[owner] == nil {
		f.items[owner] = map[string]map[string]types.AttributeValue{}
	}
	if _, ok := f.items[owner][product]; ok && in.ConditionExpression != nil {
		return nil, &types.ConditionalCheckFailedException{}
	}
	f.items[owner][product] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items[str(in.Key[DynamoPartitionKey])], str(in.Key[DynamoSortKey]))
	return &dynamodb.DeleteItemOutput{}, nil
}

func (f *fakeDynamo) Query(ctx context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries++

	var all []map[string]types.AttributeValue
	for _, item := range f.items[str(in.ExpressionAttributeValues[":owner"])] {
		all = append(all, item)
	}
	// sort keys come back in order
	for i := 1; i < len(all); i++ {
		for j := i; j > 0 && str(all[j][DynamoSortKey]) < str(all[j-1][DynamoSortKey]); j-- {
			all[j], all[j-1] = all[j-1], all[j]
		}
	}

	start := 0
	if in.ExclusiveStartKey != nil {
		last := str(in.ExclusiveStartKey[DynamoSortKey])
		for start < len(all) && str(all[start][DynamoSortKey]) <= last {
			start++
		}
	}
	end := len(all)
	out := &dynamodb.QueryOutput{}
	if f.pageSize > 0 && start+f.pageSize < end {
		end = start + f.pageSize
		out.LastEvaluatedKey = map[string]types.AttributeValue{DynamoSortKey: all[end-1][DynamoSortKey]}
	}
	out.Items = all[start:end]
	return out, nil
}

func newTestDynamoRepo(client DynamoAPI) *DynamoWishlistRepository {
	repo := NewDynamoWishlistRepository(client, "wishlists")
	clock := time.Unix(1700000000, 0)
	repo.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return repo
}

func TestDynamo_AddKeepsFirstInsertOrder(t *testing.T) {
	fake := newFakeDynamo()
	repo := newTestDynamoRepo(fake)
	ctx := context.Background()
	owner := models.Owner{Role: "buyer", ID: "b-7"}

	require.NoError(t, repo.Add(ctx, owner, "zeta"))
	require.NoError(t, repo.Add(ctx, owner, "alpha"))
	require.NoError(t, repo.Add(ctx, owner, "zeta"), "duplicate add is not an error")

	ids, err := repo.List(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, []string{"zeta", "alpha"}, ids)
	assert.Contains(t, fake.items, "buyer:b-7")
}

func TestDynamo_ListFollowsPages(t *testing.T) {
	fake := newFakeDynamo()
	fake.pageSize = 2
	repo := newTestDynamoRepo(fake)
	ctx := context.Background()
	owner := models.Owner{Role: "user", ID: "u-1"}

	for _, id := range []string{"a", "b", "c", "d", "e"} {
		require.NoError(t, repo.Add(ctx, owner, id))
	}

	ids, err := repo.List(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, ids)
	assert.Equal(t, 3, fake.queries)
}

func TestDynamo_Remove(t *testing.T) {
	repo := newTestDynamoRepo(newFakeDynamo())
	ctx := context.Background()
	owner := models.Owner{Role: "user", ID: "u-1"}

	require.NoError(t, repo.Add(ctx, owner, "a"))
	require.NoError(t, repo.Remove(ctx, owner, "a"))
	require.NoError(t, repo.Remove(ctx, owner, "a"))

	ids, err := repo.List(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, ids)
}
