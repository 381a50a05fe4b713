package catalog

import (
	"context"
	"fmt"

	"github.com/developia-II/catalog-backend/internal/core/domain"
	"github.com/developia-II/catalog-backend/internal/models"
	"github.com/developia-II/catalog-backend/internal/validation"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const categoryEntity = "category"

func (s *Service) CreateCategory(ctx context.Context, p domain.Payload) (*models.Category, error) {
	fields, stored, err := s.prepare(ctx, validation.CategoryRules, validation.Create, p)
	if err != nil {
		return nil, err
	}

	c := models.NewCategory()
	if _, err := c.Apply(fields); err != nil {
		return nil, err
	}
	c.ID = primitive.NewObjectID()
	c.CreatedAt = s.timestamp()
	c.UpdatedAt = c.CreatedAt

	err = s.write(ctx, stored, func(ctx context.Context, tx domain.Tx) error {
		return tx.Insert(ctx, domain.CategoryCollection, c)
	})
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	logWrite("create", categoryEntity, c.ID).Info("category created")
	return c, nil
}

func (s *Service) UpdateCategory(ctx context.Context, id primitive.ObjectID, p domain.Payload) (*models.Category, error) {
	fields, stored, err := s.prepare(ctx, validation.CategoryRules, validation.Update, p)
	if err != nil {
		return nil, err
	}

	var c models.Category
	err = s.write(ctx, stored, func(ctx context.Context, tx domain.Tx) error {
		if err := load(ctx, tx, domain.CategoryCollection, categoryEntity, id, &c); err != nil {
			return err
		}
		set, err := c.Apply(fields)
		if err != nil {
			return err
		}
		if len(set) == 0 {
			return nil
		}
		c.UpdatedAt = s.timestamp()
		set["updatedAt"] = c.UpdatedAt
		return notFoundOn(tx.UpdateByID(ctx, domain.CategoryCollection, id, set), categoryEntity, id)
	})
	if err != nil {
		return nil, fmt.Errorf("update category %s: %w", id.Hex(), err)
	}
	return &c, nil
}

// DeleteCategory removes the category with every subcategory and product
// under it in one transaction.
func (s *Service) DeleteCategory(ctx context.Context, id primitive.ObjectID) (DeleteResult, error) {
	var res DeleteResult
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx domain.Tx) error {
		res = DeleteResult{}
		if err := mustExist(ctx, tx, domain.CategoryCollection, categoryEntity, id); err != nil {
			return err
		}

		n, err := tx.DeleteMany(ctx, domain.ProductCollection, bson.M{"categoryId": id})
		if err != nil {
			return fmt.Errorf("delete products: %w", err)
		}
		res.Products += n

		var subs []models.Subcategory
		if err := tx.FindAll(ctx, domain.SubcategoryCollection, bson.M{"categoryId": id}, &subs); err != nil {
			return fmt.Errorf("find subcategories: %w", err)
		}
		// Products filed only under a subcategory go with it.
		for _, sub := range subs {
			n, err := tx.DeleteMany(ctx, domain.ProductCollection, bson.M{"subcategoryId": sub.ID})
			if err != nil {
				return fmt.Errorf("delete products of subcategory %s: %w", sub.ID.Hex(), err)
			}
			res.Products += n
		}

		n, err = tx.DeleteMany(ctx, domain.SubcategoryCollection, bson.M{"categoryId": id})
		if err != nil {
			return fmt.Errorf("delete subcategories: %w", err)
		}
		res.Subcategories = n

		return notFoundOn(tx.DeleteByID(ctx, domain.CategoryCollection, id), categoryEntity, id)
	})
	if err != nil {
		return DeleteResult{}, fmt.Errorf("delete category %s: %w", id.Hex(), err)
	}
	logWrite("delete", categoryEntity, id).
		WithField("subcategories", res.Subcategories).
		WithField("products", res.Products).
		Info("category deleted")
	return res, nil
}

func (s *Service) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories := []models.Category{}
	if err := s.store.FindAll(ctx, domain.CategoryCollection, bson.M{}, &categories); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (s *Service) GetCategory(ctx context.Context, id primitive.ObjectID) (*models.Category, error) {
	var c models.Category
	if err := load(ctx, s.store, domain.CategoryCollection, categoryEntity, id, &c); err != nil {
		return nil, err
	}
	return &c, nil
}
