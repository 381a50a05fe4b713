// Package catalog is the consistency engine of the catalog: every write runs
// in one store transaction that either commits all of its documents or none,
// and keeps the category, subcategory, product, footer and factory address
// references consistent. Reads go straight to the store.
package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/developia-II/catalog-backend/internal/core/domain"
	"github.com/developia-II/catalog-backend/internal/media"
	"github.com/developia-II/catalog-backend/internal/validation"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Service struct {
	store    domain.CatalogStore
	validate *validation.Validator
	media    *media.Resolver
	now      func() time.Time
}

func NewService(store domain.CatalogStore, v *validation.Validator, resolver *media.Resolver) *Service {
	return &Service{
		store:    store,
		validate: v,
		media:    resolver,
		now:      time.Now,
	}
}

// DeleteResult counts the dependent documents a cascade removed.
type DeleteResult struct {
	Subcategories int64 `json:"subcategories"`
	Products      int64 `json:"products"`
}

// timestamp is truncated to the millisecond precision of BSON dates so the
// returned document equals what a later read decodes.
func (s *Service) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

// prepare validates the payload and stores its uploads. It runs before any
// transaction is opened: rejected payloads never reach the store. stored
// lists the assets written for this payload.
func (s *Service) prepare(ctx context.Context, rules validation.RuleSet, op validation.Op, p domain.Payload) (fields domain.Fields, stored []string, err error) {
	fields, err = s.validate.Validate(rules, op, p)
	if err != nil {
		return nil, nil, err
	}
	if len(rules.Media) == 0 || len(p.Files) == 0 {
		return fields, nil, nil
	}
	if s.media == nil {
		return nil, nil, domain.Invalid(rules.Media[0], "file uploads are not configured")
	}
	stored, err = s.media.Resolve(ctx, rules.Entity, rules.Media, p, fields)
	if err != nil {
		return nil, nil, err
	}
	return fields, stored, nil
}

// write runs fn in one transaction. If it does not commit, the assets stored
// for the request are deleted again.
func (s *Service) write(ctx context.Context, stored []string, fn func(ctx context.Context, tx domain.Tx) error) error {
	err := s.store.WithTransaction(ctx, fn)
	if err != nil && len(stored) > 0 {
		s.media.Discard(context.WithoutCancel(ctx), stored)
	}
	return err
}

// load reads one document and reports absence as a NotFoundError on entity.
func load(ctx context.Context, r domain.Reader, coll, entity string, id primitive.ObjectID, out any) error {
	err := r.FindByID(ctx, coll, id, out)
	if errors.Is(err, domain.ErrDocumentNotFound) {
		return &domain.NotFoundError{Entity: entity, ID: id.Hex()}
	}
	return err
}

func mustExist(ctx context.Context, r domain.Reader, coll, entity string, id primitive.ObjectID) error {
	n, err := r.Count(ctx, coll, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if n == 0 {
		return &domain.NotFoundError{Entity: entity, ID: id.Hex()}
	}
	return nil
}

func notFoundOn(err error, entity string, id primitive.ObjectID) error {
	if errors.Is(err, domain.ErrDocumentNotFound) {
		return &domain.NotFoundError{Entity: entity, ID: id.Hex()}
	}
	return err
}

func logWrite(op, entity string, id primitive.ObjectID) *logrus.Entry {
	return logrus.WithFields(logrus.Fields{"op": op, "entity": entity, "id": id.Hex()})
}
