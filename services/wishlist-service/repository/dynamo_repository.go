package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/yashrajoria/marketplace/services/wishlist-service/models"
)

// Key attribute names of the wishlist table.
const (
	DynamoPartitionKey = "owner"
	DynamoSortKey      = "product_id"
)

// DynamoAPI is the subset of the DynamoDB client the repository uses.
type DynamoAPI interface {
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, in *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

type dynamoItem struct {
	Owner     string `dynamodbav:"owner"`
	ProductID string `dynamodbav:"product_id"`
	CreatedAt int64  `dynamodbav:"created_at"`
}

// DynamoWishlistRepository stores one item per (owner, product).
type DynamoWishlistRepository struct {
	client DynamoAPI
	table  string
	now    func() time.Time
}

func NewDynamoWishlistRepository(client DynamoAPI, table string) *DynamoWishlistRepository {
	return &DynamoWishlistRepository{client: client, table: table, now: time.Now}
}

// Add writes the item only when it is absent, so the first add time is kept.
func (r *DynamoWishlistRepository) Add(ctx context.Context, owner models.Owner, productID string) error {
	item, err := attributevalue.MarshalMap(dynamoItem{
		Owner:     owner.String(),
		ProductID: productID,
		CreatedAt: r.now().UnixNano(),
	})
	if err != nil {
		return fmt.Errorf("marshal wishlist item: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           sdkaws.String(r.table),
		Item:                item,
		ConditionExpression: sdkaws.String("attribute_not_exists(product_id)"),
	})
	var exists *types.ConditionalCheckFailedException
	if errors.As(err, &exists) {
		return nil
	}
	return err
}

func (r *DynamoWishlistRepository) Remove(ctx context.Context, owner models.Owner, productID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: sdkaws.String(r.table),
		Key: map[string]types.AttributeValue{
			DynamoPartitionKey: &types.AttributeValueMemberS{Value: owner.String()},
			DynamoSortKey:      &types.AttributeValueMemberS{Value: productID},
		},
	})
	return err
}

func (r *DynamoWishlistRepository) List(ctx context.Context, owner models.Owner) ([]string, error) {
	var items []dynamoItem
	var startKey map[string]types.AttributeValue
	for {
		out, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:              sdkaws.String(r.table),
			KeyConditionExpression: sdkaws.String("#o = :owner"),
			ExpressionAttributeNames: map[string]string{
				"#o": DynamoPartitionKey,
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":owner": &types.AttributeValueMemberS{Value: owner.String()},
			},
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("query wishlist: %w", err)
		}
		var page []dynamoItem
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, fmt.Errorf("unmarshal wishlist: %w", err)
		}
		items = append(items, page...)
		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		startKey = out.LastEvaluatedKey
	}

	sort.SliceStable(items, func(i, j int) bool { return items[i].CreatedAt < items[j].CreatedAt })
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	return ids, nil
}
