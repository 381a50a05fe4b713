package domain

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Collection names of the record store.
const (
	CategoryCollection       = "categories"
	SubcategoryCollection    = "subcategories"
	ProductCollection        = "products"
	FooterCollection         = "footers"
	FactoryAddressCollection = "factoryAddresses"
)

// Reader is the read side of the record store. Filters are top-level
// equality matches only.
type Reader interface {
	// FindByID decodes the document into out or returns ErrDocumentNotFound.
	FindByID(ctx context.Context, coll string, id primitive.ObjectID, out any) error
	// FindOne decodes the first document matching filter into out.
	FindOne(ctx context.Context, coll string, filter bson.M, out any) error
	// FindAll decodes every matching document into out (a pointer to a
	// slice), newest first by createdAt.
	FindAll(ctx context.Context, coll string, filter bson.M, out any) error
	Count(ctx context.Context, coll string, filter bson.M) (int64, error)
}

// Writer is the write side. It is only reachable through a Tx.
type Writer interface {
	Insert(ctx context.Context, coll string, doc any) error
	// UpdateByID applies $set to one document or returns ErrDocumentNotFound.
	UpdateByID(ctx context.Context, coll string, id primitive.ObjectID, set bson.M) error
	UpdateMany(ctx context.Context, coll string, filter bson.M, set bson.M) (int64, error)
	// UnsetMany removes field from every matching document.
	UnsetMany(ctx context.Context, coll string, filter bson.M, field string) (int64, error)
	// DeleteByID removes one document or returns ErrDocumentNotFound.
	DeleteByID(ctx context.Context, coll string, id primitive.ObjectID) error
	DeleteMany(ctx context.Context, coll string, filter bson.M) (int64, error)
	// AddToSet appends value to the array field of one document if absent.
	AddToSet(ctx context.Context, coll string, id primitive.ObjectID, field string, value primitive.ObjectID) error
	// PullMany removes value from the array field of every matching document.
	PullMany(ctx context.Context, coll string, filter bson.M, field string, value primitive.ObjectID) (int64, error)
}

// Tx is the view of the store inside one transaction.
type Tx interface {
	Reader
	Writer
}

// CatalogStore is the record store behind the catalog service.
type CatalogStore interface {
	Reader
	// WithTransaction runs fn inside one transaction. Any error returned by
	// fn aborts it and none of its writes become visible. The callback is
	// never retried.
	WithTransaction(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	EnsureIndexes(ctx context.Context) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
