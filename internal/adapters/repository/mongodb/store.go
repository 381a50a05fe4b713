package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/developia-II/catalog-backend/internal/core/domain"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

// Store implements domain.CatalogStore on MongoDB. Every method takes the
// context it runs in; inside WithTransaction that context is the session
// context, so the same methods serve as the transaction view.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

var _ domain.CatalogStore = (*Store)(nil)
var _ domain.Tx = (*Store)(nil)

// Connect dials the cluster and verifies the connection. Transactions need a
// replica set or sharded cluster.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(uri).SetServerSelectionTimeout(30 * time.Second)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	return New(client.Database(database)), nil
}

func New(db *mongo.Database) *Store {
	return &Store{client: db.Client(), db: db}
}

func (s *Store) FindByID(ctx context.Context, coll string, id primitive.ObjectID, out any) error {
	return s.FindOne(ctx, coll, bson.M{"_id": id}, out)
}

func (s *Store) FindOne(ctx context.Context, coll string, filter bson.M, out any) error {
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	err := s.db.Collection(coll).FindOne(ctx, filter, opts).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.ErrDocumentNotFound
	}
	return err
}

func (s *Store) FindAll(ctx context.Context, coll string, filter bson.M, out any) error {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := s.db.Collection(coll).Find(ctx, filter, opts)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)
	return cursor.All(ctx, out)
}

func (s *Store) Count(ctx context.Context, coll string, filter bson.M) (int64, error) {
	return s.db.Collection(coll).CountDocuments(ctx, filter)
}

func (s *Store) Insert(ctx context.Context, coll string, doc any) error {
	_, err := s.db.Collection(coll).InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return &domain.ConflictError{Message: fmt.Sprintf("a document in %s with the same key already exists", coll)}
	}
	return err
}

func (s *Store) UpdateByID(ctx context.Context, coll string, id primitive.ObjectID, set bson.M) error {
	res, err := s.db.Collection(coll).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return &domain.ConflictError{Message: fmt.Sprintf("a document in %s with the same key already exists", coll)}
		}
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}

func (s *Store) UpdateMany(ctx context.Context, coll string, filter bson.M, set bson.M) (int64, error) {
	res, err := s.db.Collection(coll).UpdateMany(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (s *Store) UnsetMany(ctx context.Context, coll string, filter bson.M, field string) (int64, error) {
	res, err := s.db.Collection(coll).UpdateMany(ctx, filter, bson.M{"$unset": bson.M{field: ""}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (s *Store) DeleteByID(ctx context.Context, coll string, id primitive.ObjectID) error {
	res, err := s.db.Collection(coll).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}

func (s *Store) DeleteMany(ctx context.Context, coll string, filter bson.M) (int64, error) {
	res, err := s.db.Collection(coll).DeleteMany(ctx, filter)
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (s *Store) AddToSet(ctx context.Context, coll string, id primitive.ObjectID, field string, value primitive.ObjectID) error {
	res, err := s.db.Collection(coll).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$addToSet": bson.M{field: value}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}

func (s *Store) PullMany(ctx context.Context, coll string, filter bson.M, field string, value primitive.ObjectID) (int64, error) {
	res, err := s.db.Collection(coll).UpdateMany(ctx, filter, bson.M{"$pull": bson.M{field: value}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// WithTransaction runs fn in one snapshot transaction. Unlike
// mongo.Session.WithTransaction it never retries: writes are not idempotent,
// so a failed attempt is aborted and reported.
func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx domain.Tx) error) error {
	session, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(context.Background())

	txnOpts := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())

	return mongo.WithSession(ctx, session, func(sessCtx mongo.SessionContext) error {
		if err := session.StartTransaction(txnOpts); err != nil {
			return fmt.Errorf("failed to start transaction: %w", err)
		}
		if err := fn(sessCtx, s); err != nil {
			if abortErr := session.AbortTransaction(context.Background()); abortErr != nil {
				logrus.WithError(abortErr).Warn("abort transaction failed")
			}
			return err
		}
		if err := session.CommitTransaction(sessCtx); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return &domain.ConflictError{Message: "a document with the same key already exists"}
			}
			return fmt.Errorf("failed to commit transaction: %w", err)
		}
		return nil
	})
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
