package mongodb

import (
	"context"
	"fmt"

	"github.com/developia-II/catalog-backend/internal/core/domain"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Indexes lists the index set of every catalog collection.
func Indexes() map[string][]mongo.IndexModel {
	newestFirst := mongo.IndexModel{
		Keys:    bson.D{{Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("idx_createdAt"),
	}
	return map[string][]mongo.IndexModel{
		domain.CategoryCollection: {newestFirst},
		domain.SubcategoryCollection: {
			newestFirst,
			{
				Keys:    bson.D{{Key: "categoryId", Value: 1}, {Key: "createdAt", Value: -1}},
				Options: options.Index().SetName("idx_category_date"),
			},
		},
		domain.ProductCollection: {
			newestFirst,
			{
				Keys:    bson.D{{Key: "categoryId", Value: 1}, {Key: "createdAt", Value: -1}},
				Options: options.Index().SetName("idx_category_date"),
			},
			{
				Keys:    bson.D{{Key: "subcategoryId", Value: 1}, {Key: "createdAt", Value: -1}},
				Options: options.Index().SetName("idx_subcategory_date"),
			},
		},
		domain.FooterCollection: {
			{
				Keys:    bson.D{{Key: "key", Value: 1}},
				Options: options.Index().SetName("idx_footer_key").SetUnique(true),
			},
		},
		domain.FactoryAddressCollection: {
			newestFirst,
			{
				Keys:    bson.D{{Key: "footerId", Value: 1}},
				Options: options.Index().SetName("idx_footerId"),
			},
		},
	}
}

// EnsureIndexes creates the collections and indexes. Collections have to
// exist before the first transaction writes into them.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	existing, err := s.db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("list collections: %w", err)
	}
	have := make(map[string]bool, len(existing))
	for _, name := range existing {
		have[name] = true
	}

	for coll, models := range Indexes() {
		if !have[coll] {
			if err := s.db.CreateCollection(ctx, coll); err != nil {
				return fmt.Errorf("create collection %s: %w", coll, err)
			}
		}
		names, err := s.db.Collection(coll).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll, err)
		}
		logrus.WithFields(logrus.Fields{"collection": coll, "indexes": names}).Info("indexes ensured")
	}
	return nil
}
