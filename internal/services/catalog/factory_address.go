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

const addressEntity = "factory address"

const footerAddressesField = "factoryAddresses"

// CreateFactoryAddress inserts the address and, when it names a footer,
// links it into that footer's address list. A missing footer aborts the
// whole write.
func (s *Service) CreateFactoryAddress(ctx context.Context, p domain.Payload) (*models.FactoryAddress, error) {
	fields, stored, err := s.prepare(ctx, validation.FactoryAddressRules, validation.Create, p)
	if err != nil {
		return nil, err
	}

	a := &models.FactoryAddress{}
	if _, err := a.Apply(fields); err != nil {
		return nil, err
	}
	a.ID = primitive.NewObjectID()
	a.CreatedAt = s.timestamp()
	a.UpdatedAt = a.CreatedAt

	err = s.write(ctx, stored, func(ctx context.Context, tx domain.Tx) error {
		if a.FooterID != nil {
			if err := mustExist(ctx, tx, domain.FooterCollection, footerEntity, *a.FooterID); err != nil {
				return err
			}
		}
		if err := tx.Insert(ctx, domain.FactoryAddressCollection, a); err != nil {
			return err
		}
		if a.FooterID == nil {
			return nil
		}
		return notFoundOn(tx.AddToSet(ctx, domain.FooterCollection, *a.FooterID, footerAddressesField, a.ID), footerEntity, *a.FooterID)
	})
	if err != nil {
		return nil, fmt.Errorf("create factory address: %w", err)
	}
	logWrite("create", addressEntity, a.ID).Info("factory address created")
	return a, nil
}

// UpdateFactoryAddress merges the supplied fields. A new footerId moves the
// address from the old footer's list to the new one.
func (s *Service) UpdateFactoryAddress(ctx context.Context, id primitive.ObjectID, p domain.Payload) (*models.FactoryAddress, error) {
	fields, stored, err := s.prepare(ctx, validation.FactoryAddressRules, validation.Update, p)
	if err != nil {
		return nil, err
	}

	var a models.FactoryAddress
	err = s.write(ctx, stored, func(ctx context.Context, tx domain.Tx) error {
		if err := load(ctx, tx, domain.FactoryAddressCollection, addressEntity, id, &a); err != nil {
			return err
		}
		previous := a.FooterID
		set, err := a.Apply(fields)
		if err != nil {
			return err
		}
		if len(set) == 0 {
			return nil
		}
		a.UpdatedAt = s.timestamp()
		set["updatedAt"] = a.UpdatedAt

		if a.FooterID != nil && (previous == nil || *previous != *a.FooterID) {
			if err := mustExist(ctx, tx, domain.FooterCollection, footerEntity, *a.FooterID); err != nil {
				return err
			}
			if _, err := tx.PullMany(ctx, domain.FooterCollection, bson.M{footerAddressesField: id}, footerAddressesField, id); err != nil {
				return fmt.Errorf("unlink from previous footer: %w", err)
			}
			if err := tx.AddToSet(ctx, domain.FooterCollection, *a.FooterID, footerAddressesField, id); err != nil {
				return notFoundOn(err, footerEntity, *a.FooterID)
			}
		}
		return notFoundOn(tx.UpdateByID(ctx, domain.FactoryAddressCollection, id, set), addressEntity, id)
	})
	if err != nil {
		return nil, fmt.Errorf("update factory address %s: %w", id.Hex(), err)
	}
	return &a, nil
}

// DeleteFactoryAddress unlinks the address from any footer listing it, then
// deletes it.
func (s *Service) DeleteFactoryAddress(ctx context.Context, id primitive.ObjectID) error {
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx domain.Tx) error {
		if err := mustExist(ctx, tx, domain.FactoryAddressCollection, addressEntity, id); err != nil {
			return err
		}
		if _, err := tx.PullMany(ctx, domain.FooterCollection, bson.M{footerAddressesField: id}, footerAddressesField, id); err != nil {
			return fmt.Errorf("unlink from footer: %w", err)
		}
		return notFoundOn(tx.DeleteByID(ctx, domain.FactoryAddressCollection, id), addressEntity, id)
	})
	if err != nil {
		return fmt.Errorf("delete factory address %s: %w", id.Hex(), err)
	}
	logWrite("delete", addressEntity, id).Info("factory address deleted")
	return nil
}

func (s *Service) ListFactoryAddresses(ctx context.Context) ([]models.FactoryAddress, error) {
	addresses := []models.FactoryAddress{}
	if err := s.store.FindAll(ctx, domain.FactoryAddressCollection, bson.M{}, &addresses); err != nil {
		return nil, fmt.Errorf("list factory addresses: %w", err)
	}
	return addresses, nil
}

func (s *Service) GetFactoryAddress(ctx context.Context, id primitive.ObjectID) (*models.FactoryAddress, error) {
	var a models.FactoryAddress
	if err := load(ctx, s.store, domain.FactoryAddressCollection, addressEntity, id, &a); err != nil {
		return nil, err
	}
	return &a, nil
}
