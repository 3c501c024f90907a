// Package products reads catalog listings and the category tree from
// MongoDB. The filter engine never writes products; this package is its
// read-only product source.
package products

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yashrajoria/marketplace/pkg/catalog"
)

// ErrCategoryNotFound is returned when no live category has the slug.
var ErrCategoryNotFound = errors.New("category not found")

// Category is one node of the category tree.
type Category struct {
	ID       string  `json:"id" bson:"_id"`
	Name     string  `json:"name" bson:"name"`
	Slug     string  `json:"slug" bson:"slug"`
	ParentID *string `json:"parent_id,omitempty" bson:"parent_id,omitempty"`
}

// Tree is a category with its direct subcategories and every live product
// filed under any of them.
type Tree struct {
	Category      Category          `json:"category"`
	Subcategories []Category        `json:"subcategories"`
	Products      []catalog.Product `json:"products"`
}

// Source is what the services need from the product store.
type Source interface {
	CategoryTree(ctx context.Context, slug string) (*Tree, error)
	ProductsByIDs(ctx context.Context, ids []string) ([]catalog.Product, error)
	ProductExists(ctx context.Context, id string) (bool, error)
}

var live = bson.M{"$exists": false}

type MongoSource struct {
	categories *mongo.Collection
	products   *mongo.Collection
}

func NewMongoSource(db *mongo.Database) *MongoSource {
	return &MongoSource{
		categories: db.Collection("categories"),
		products:   db.Collection("products"),
	}
}

func (s *MongoSource) CategoryTree(ctx context.Context, slug string) (*Tree, error) {
	var root Category
	err := s.categories.FindOne(ctx, bson.M{"slug": slug, "deleted_at": live}).Decode(&root)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find category %s: %w", slug, err)
	}

	subs := []Category{}
	cursor, err := s.categories.Find(ctx,
		bson.M{"parent_id": root.ID, "deleted_at": live},
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("find subcategories of %s: %w", slug, err)
	}
	if err := cursor.All(ctx, &subs); err != nil {
		return nil, fmt.Errorf("decode subcategories: %w", err)
	}

	ids := make([]string, 0, len(subs)+1)
	ids = append(ids, root.ID)
	for _, c := range subs {
		ids = append(ids, c.ID)
	}

	products, err := s.find(ctx, bson.M{"category_ids": bson.M{"$in": ids}, "deleted_at": live})
	if err != nil {
		return nil, err
	}
	return &Tree{Category: root, Subcategories: subs, Products: products}, nil
}

// ProductsByIDs returns the live products among ids in the order of ids.
// Unknown or deleted ids are skipped.
func (s *MongoSource) ProductsByIDs(ctx context.Context, ids []string) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return []catalog.Product{}, nil
	}
	found, err := s.find(ctx, bson.M{"_id": bson.M{"$in": ids}, "deleted_at": live})
	if err != nil {
		return nil, err
	}

	byID := make(map[string]catalog.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	out := make([]catalog.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *MongoSource) ProductExists(ctx context.Context, id string) (bool, error) {
	n, err := s.products.CountDocuments(ctx, bson.M{"_id": id, "deleted_at": live}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count product %s: %w", id, err)
	}
	return n > 0, nil
}

// EnsureIndexes creates the indexes the lookups above rely on.
func (s *MongoSource) EnsureIndexes(ctx context.Context) error {
	if _, err := s.categories.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "parent_id", Value: 1}}},
	}); err != nil {
		return fmt.Errorf("category indexes: %w", err)
	}
	if _, err := s.products.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "category_ids", Value: 1}},
	}); err != nil {
		return fmt.Errorf("product indexes: %w", err)
	}
	return nil
}

func (s *MongoSource) find(ctx context.Context, filter bson.M) ([]catalog.Product, error) {
	cursor, err := s.products.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	products := []catalog.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}

// Connect opens a client, pings it and returns the named database.
func Connect(ctx context.Context, uri, dbName string) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return client, client.Database(dbName), nil
}
