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

const productEntity = "product"

// ProductFilter narrows a product listing. Nil fields do not filter.
type ProductFilter struct {
	CategoryID    *primitive.ObjectID
	SubcategoryID *primitive.ObjectID
}

func (s *Service) CreateProduct(ctx context.Context, p domain.Payload) (*models.Product, error) {
	fields, stored, err := s.prepare(ctx, validation.ProductRules, validation.Create, p)
	if err != nil {
		return nil, err
	}

	prod := models.NewProduct()
	if _, err := prod.Apply(fields); err != nil {
		return nil, err
	}
	prod.ID = primitive.NewObjectID()
	prod.CreatedAt = s.timestamp()
	prod.UpdatedAt = prod.CreatedAt
	_, categorySupplied := fields["categoryId"]

	err = s.write(ctx, stored, func(ctx context.Context, tx domain.Tx) error {
		if err := resolveProductRefs(ctx, tx, prod, categorySupplied); err != nil {
			return err
		}
		return tx.Insert(ctx, domain.ProductCollection, prod)
	})
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	logWrite("create", productEntity, prod.ID).Info("product created")
	return prod, nil
}

func (s *Service) UpdateProduct(ctx context.Context, id primitive.ObjectID, p domain.Payload) (*models.Product, error) {
	fields, stored, err := s.prepare(ctx, validation.ProductRules, validation.Update, p)
	if err != nil {
		return nil, err
	}
	_, categorySupplied := fields["categoryId"]
	_, subcategorySupplied := fields["subcategoryId"]

	var prod models.Product
	err = s.write(ctx, stored, func(ctx context.Context, tx domain.Tx) error {
		if err := load(ctx, tx, domain.ProductCollection, productEntity, id, &prod); err != nil {
			return err
		}
		set, err := prod.Apply(fields)
		if err != nil {
			return err
		}
		if len(set) == 0 {
			return nil
		}
		if categorySupplied || subcategorySupplied {
			if err := resolveProductRefs(ctx, tx, &prod, categorySupplied); err != nil {
				return err
			}
			if prod.CategoryID != nil {
				set["categoryId"] = *prod.CategoryID
			}
		}
		prod.UpdatedAt = s.timestamp()
		set["updatedAt"] = prod.UpdatedAt
		return notFoundOn(tx.UpdateByID(ctx, domain.ProductCollection, id, set), productEntity, id)
	})
	if err != nil {
		return nil, fmt.Errorf("update product %s: %w", id.Hex(), err)
	}
	return &prod, nil
}

// resolveProductRefs checks the product's references inside tx. A product
// filed under a subcategory takes that subcategory's category unless the
// request named a category itself, in which case the two have to agree.
func resolveProductRefs(ctx context.Context, tx domain.Tx, prod *models.Product, categorySupplied bool) error {
	if prod.SubcategoryID != nil {
		var sub models.Subcategory
		if err := load(ctx, tx, domain.SubcategoryCollection, subcategoryEntity, *prod.SubcategoryID, &sub); err != nil {
			return err
		}
		switch {
		case !categorySupplied || prod.CategoryID == nil:
			categoryID := sub.CategoryID
			prod.CategoryID = &categoryID
		case *prod.CategoryID != sub.CategoryID:
			return domain.Invalid("subcategoryId", "subcategoryId does not belong to categoryId")
		}
	}
	if prod.CategoryID != nil {
		if err := mustExist(ctx, tx, domain.CategoryCollection, categoryEntity, *prod.CategoryID); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) DeleteProduct(ctx context.Context, id primitive.ObjectID) error {
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx domain.Tx) error {
		return notFoundOn(tx.DeleteByID(ctx, domain.ProductCollection, id), productEntity, id)
	})
	if err != nil {
		return fmt.Errorf("delete product %s: %w", id.Hex(), err)
	}
	logWrite("delete", productEntity, id).Info("product deleted")
	return nil
}

func (s *Service) ListProducts(ctx context.Context, f ProductFilter) ([]models.Product, error) {
	filter := bson.M{}
	if f.CategoryID != nil {
		filter["categoryId"] = *f.CategoryID
	}
	if f.SubcategoryID != nil {
		filter["subcategoryId"] = *f.SubcategoryID
	}
	products := []models.Product{}
	if err := s.store.FindAll(ctx, domain.ProductCollection, filter, &products); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (s *Service) GetProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var prod models.Product
	if err := load(ctx, s.store, domain.ProductCollection, productEntity, id, &prod); err != nil {
		return nil, err
	}
	return &prod, nil
}
