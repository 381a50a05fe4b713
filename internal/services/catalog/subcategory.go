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

const subcategoryEntity = "subcategory"

func (s *Service) CreateSubcategory(ctx context.Context, p domain.Payload) (*models.Subcategory, error) {
	fields, stored, err := s.prepare(ctx, validation.SubcategoryRules, validation.Create, p)
	if err != nil {
		return nil, err
	}

	sub := models.NewSubcategory()
	if _, err := sub.Apply(fields); err != nil {
		return nil, err
	}
	sub.ID = primitive.NewObjectID()
	sub.CreatedAt = s.timestamp()
	sub.UpdatedAt = sub.CreatedAt

	err = s.write(ctx, stored, func(ctx context.Context, tx domain.Tx) error {
		if err := mustExist(ctx, tx, domain.CategoryCollection, categoryEntity, sub.CategoryID); err != nil {
			return err
		}
		return tx.Insert(ctx, domain.SubcategoryCollection, sub)
	})
	if err != nil {
		return nil, fmt.Errorf("create subcategory: %w", err)
	}
	logWrite("create", subcategoryEntity, sub.ID).Info("subcategory created")
	return sub, nil
}

// UpdateSubcategory merges the supplied fields. Moving the subcategory to
// another category moves its products along so their categoryId keeps
// matching.
func (s *Service) UpdateSubcategory(ctx context.Context, id primitive.ObjectID, p domain.Payload) (*models.Subcategory, error) {
	fields, stored, err := s.prepare(ctx, validation.SubcategoryRules, validation.Update, p)
	if err != nil {
		return nil, err
	}

	var sub models.Subcategory
	err = s.write(ctx, stored, func(ctx context.Context, tx domain.Tx) error {
		if err := load(ctx, tx, domain.SubcategoryCollection, subcategoryEntity, id, &sub); err != nil {
			return err
		}
		previous := sub.CategoryID
		set, err := sub.Apply(fields)
		if err != nil {
			return err
		}
		if len(set) == 0 {
			return nil
		}
		sub.UpdatedAt = s.timestamp()
		set["updatedAt"] = sub.UpdatedAt

		if sub.CategoryID != previous {
			if err := mustExist(ctx, tx, domain.CategoryCollection, categoryEntity, sub.CategoryID); err != nil {
				return err
			}
			_, err := tx.UpdateMany(ctx, domain.ProductCollection,
				bson.M{"subcategoryId": id},
				bson.M{"categoryId": sub.CategoryID, "updatedAt": sub.UpdatedAt})
			if err != nil {
				return fmt.Errorf("move products: %w", err)
			}
		}
		return notFoundOn(tx.UpdateByID(ctx, domain.SubcategoryCollection, id, set), subcategoryEntity, id)
	})
	if err != nil {
		return nil, fmt.Errorf("update subcategory %s: %w", id.Hex(), err)
	}
	return &sub, nil
}

// DeleteSubcategory removes the subcategory and its products.
func (s *Service) DeleteSubcategory(ctx context.Context, id primitive.ObjectID) (DeleteResult, error) {
	var res DeleteResult
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx domain.Tx) error {
		res = DeleteResult{}
		if err := mustExist(ctx, tx, domain.SubcategoryCollection, subcategoryEntity, id); err != nil {
			return err
		}
		n, err := tx.DeleteMany(ctx, domain.ProductCollection, bson.M{"subcategoryId": id})
		if err != nil {
			return fmt.Errorf("delete products: %w", err)
		}
		res.Products = n
		return notFoundOn(tx.DeleteByID(ctx, domain.SubcategoryCollection, id), subcategoryEntity, id)
	})
	if err != nil {
		return DeleteResult{}, fmt.Errorf("delete subcategory %s: %w", id.Hex(), err)
	}
	logWrite("delete", subcategoryEntity, id).WithField("products", res.Products).Info("subcategory deleted")
	return res, nil
}

// ListSubcategories returns all subcategories, or only those of categoryID
// when it is set.
func (s *Service) ListSubcategories(ctx context.Context, categoryID *primitive.ObjectID) ([]models.Subcategory, error) {
	filter := bson.M{}
	if categoryID != nil {
		filter["categoryId"] = *categoryID
	}
	subs := []models.Subcategory{}
	if err := s.store.FindAll(ctx, domain.SubcategoryCollection, filter, &subs); err != nil {
		return nil, fmt.Errorf("list subcategories: %w", err)
	}
	return subs, nil
}

func (s *Service) GetSubcategory(ctx context.Context, id primitive.ObjectID) (*models.Subcategory, error) {
	var sub models.Subcategory
	if err := load(ctx, s.store, domain.SubcategoryCollection, subcategoryEntity, id, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}
