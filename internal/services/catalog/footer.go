package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/developia-II/catalog-backend/internal/core/domain"
	"github.com/developia-II/catalog-backend/internal/models"
	"github.com/developia-II/catalog-backend/internal/validation"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const footerEntity = "footer"

var currentFooter = bson.M{"key": models.CurrentFooterKey}

// SaveFooter creates the current footer, or applies a full field set to it
// when it already exists. created reports which of the two happened. The
// address list is never touched here.
func (s *Service) SaveFooter(ctx context.Context, p domain.Payload) (footer *models.Footer, created bool, err error) {
	fields, stored, err := s.prepare(ctx, validation.FooterRules, validation.Create, p)
	if err != nil {
		return nil, false, err
	}

	err = s.write(ctx, stored, func(ctx context.Context, tx domain.Tx) error {
		var existing models.Footer
		err := tx.FindOne(ctx, domain.FooterCollection, currentFooter, &existing)
		switch {
		case err == nil:
			set, err := existing.Apply(fields)
			if err != nil {
				return err
			}
			existing.UpdatedAt = s.timestamp()
			set["updatedAt"] = existing.UpdatedAt
			footer, created = &existing, false
			return notFoundOn(tx.UpdateByID(ctx, domain.FooterCollection, existing.ID, set), footerEntity, existing.ID)
		case errors.Is(err, domain.ErrDocumentNotFound):
			f := models.NewFooter()
			if _, err := f.Apply(fields); err != nil {
				return err
			}
			f.ID = primitive.NewObjectID()
			f.CreatedAt = s.timestamp()
			f.UpdatedAt = f.CreatedAt
			footer, created = f, true
			return tx.Insert(ctx, domain.FooterCollection, f)
		default:
			return err
		}
	})
	if err != nil {
		return nil, false, fmt.Errorf("save footer: %w", err)
	}
	logWrite("save", footerEntity, footer.ID).WithField("created", created).Info("footer saved")
	return footer, created, nil
}

func (s *Service) UpdateFooter(ctx context.Context, id primitive.ObjectID, p domain.Payload) (*models.Footer, error) {
	fields, stored, err := s.prepare(ctx, validation.FooterRules, validation.Update, p)
	if err != nil {
		return nil, err
	}

	var f models.Footer
	err = s.write(ctx, stored, func(ctx context.Context, tx domain.Tx) error {
		if err := load(ctx, tx, domain.FooterCollection, footerEntity, id, &f); err != nil {
			return err
		}
		set, err := f.Apply(fields)
		if err != nil {
			return err
		}
		if len(set) == 0 {
			return nil
		}
		f.UpdatedAt = s.timestamp()
		set["updatedAt"] = f.UpdatedAt
		return notFoundOn(tx.UpdateByID(ctx, domain.FooterCollection, id, set), footerEntity, id)
	})
	if err != nil {
		return nil, fmt.Errorf("update footer %s: %w", id.Hex(), err)
	}
	return &f, nil
}

// DeleteFooter removes the footer and detaches its addresses; the address
// documents themselves are kept.
func (s *Service) DeleteFooter(ctx context.Context, id primitive.ObjectID) error {
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx domain.Tx) error {
		if err := mustExist(ctx, tx, domain.FooterCollection, footerEntity, id); err != nil {
			return err
		}
		if _, err := tx.UnsetMany(ctx, domain.FactoryAddressCollection, bson.M{"footerId": id}, "footerId"); err != nil {
			return fmt.Errorf("detach addresses: %w", err)
		}
		return notFoundOn(tx.DeleteByID(ctx, domain.FooterCollection, id), footerEntity, id)
	})
	if err != nil {
		return fmt.Errorf("delete footer %s: %w", id.Hex(), err)
	}
	logWrite("delete", footerEntity, id).Info("footer deleted")
	return nil
}

func (s *Service) ListFooters(ctx context.Context) ([]models.Footer, error) {
	footers := []models.Footer{}
	if err := s.store.FindAll(ctx, domain.FooterCollection, bson.M{}, &footers); err != nil {
		return nil, fmt.Errorf("list footers: %w", err)
	}
	return footers, nil
}

func (s *Service) GetFooter(ctx context.Context, id primitive.ObjectID) (*models.Footer, error) {
	var f models.Footer
	if err := load(ctx, s.store, domain.FooterCollection, footerEntity, id, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// CurrentFooter returns the current footer with its addresses in list order.
func (s *Service) CurrentFooter(ctx context.Context) (*models.FooterDetail, error) {
	var f models.Footer
	err := s.store.FindOne(ctx, domain.FooterCollection, currentFooter, &f)
	if errors.Is(err, domain.ErrDocumentNotFound) {
		return nil, &domain.NotFoundError{Entity: footerEntity}
	}
	if err != nil {
		return nil, fmt.Errorf("find current footer: %w", err)
	}

	detail := &models.FooterDetail{Footer: f, Addresses: []models.FactoryAddress{}}
	for _, addrID := range f.FactoryAddresses {
		var a models.FactoryAddress
		err := s.store.FindByID(ctx, domain.FactoryAddressCollection, addrID, &a)
		if errors.Is(err, domain.ErrDocumentNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("find factory address %s: %w", addrID.Hex(), err)
		}
		detail.Addresses = append(detail.Addresses, a)
	}
	return detail, nil
}
