package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/developia-II/catalog-backend/internal/adapters/repository/memory"
	"github.com/developia-II/catalog-backend/internal/core/domain"
	"github.com/developia-II/catalog-backend/internal/media"
	"github.com/developia-II/catalog-backend/internal/models"
	"github.com/developia-II/catalog-backend/internal/validation"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

var errInjected = errors.New("injected store failure")

// faultyStore fails the nth DeleteMany on one collection inside a transaction.
type faultyStore struct {
	*memory.Store
	coll  string
	nth   int
	calls int
}

func (f *faultyStore) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx domain.Tx) error) error {
	return f.Store.WithTransaction(ctx, func(ctx context.Context, tx domain.Tx) error {
		return fn(ctx, &faultyTx{Tx: tx, store: f})
	})
}

type faultyTx struct {
	domain.Tx
	store *faultyStore
}

func (t *faultyTx) DeleteMany(ctx context.Context, coll string, filter bson.M) (int64, error) {
	if coll == t.store.coll {
		t.store.calls++
		if t.store.calls == t.store.nth {
			return 0, errInjected
		}
	}
	return t.Tx.DeleteMany(ctx, coll, filter)
}

func newTestService(store domain.CatalogStore) *Service {
	return NewService(store, validation.New(), media.NewResolver(nopMedia{}, "test", 0))
}

type nopMedia struct{}

func (nopMedia) Put(_ context.Context, key, _ string, r io.Reader) (string, error) {
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	return "https://cdn.test/" + key, nil
}

func (nopMedia) Delete(context.Context, string) error { return nil }

// assetStore keeps stored assets in memory so tests can see what is left.
type assetStore struct {
	mu     sync.Mutex
	assets map[string]bool
}

func newAssetStore() *assetStore {
	return &assetStore{assets: map[string]bool{}}
}

func (s *assetStore) Put(_ context.Context, key, _ string, r io.Reader) (string, error) {
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assets[key] = true
	return "https://cdn.test/" + key, nil
}

func (s *assetStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.assets, key)
	return nil
}

func (s *assetStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.assets)
}

var pngImage = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func imageUpload(name string) domain.Upload {
	return domain.Upload{
		Filename: name,
		Size:     int64(len(pngImage)),
		Open:     func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(pngImage)), nil },
	}
}

func payload(fields domain.Fields) domain.Payload {
	return domain.Payload{Fields: fields}
}

func categoryFields(name string) domain.Fields {
	return domain.Fields{
		"name":        name,
		"description": name + " for heavy industry",
		"KeyP1":       "one",
		"KeyP2":       "two",
		"KeyP3":       "three",
		"Img":         "https://cdn.test/" + name + ".png",
	}
}

func subcategoryFields(name, categoryID string) domain.Fields {
	return domain.Fields{
		"name":       name,
		"Dtext":      name + " details",
		"KeyP1":      "one",
		"KeyP2":      "two",
		"Img":        "https://cdn.test/" + name + ".png",
		"categoryId": categoryID,
	}
}

func productFields(name string) domain.Fields {
	f := domain.Fields{"name": name, "description": name + " description"}
	for i := 1; i <= models.ProductImages; i++ {
		f[fmt.Sprintf("Img%d", i)] = fmt.Sprintf("https://cdn.test/%s-%d.png", name, i)
	}
	for i := 1; i <= models.ProductFeatures; i++ {
		f[fmt.Sprintf("F%d", i)] = fmt.Sprintf("feature %d", i)
	}
	for i := 1; i <= models.ProductSpecs; i++ {
		f[fmt.Sprintf("S%d", i)] = fmt.Sprintf("spec %d", i)
	}
	for i := 1; i <= models.ProductApplications; i++ {
		f[fmt.Sprintf("A%d", i)] = fmt.Sprintf("application %d", i)
	}
	return f
}

func with(f domain.Fields, kv ...string) domain.Fields {
	out := domain.Fields{}
	for k, v := range f {
		out[k] = v
	}
	for i := 0; i+1 < len(kv); i += 2 {
		out[kv[i]] = kv[i+1]
	}
	return out
}

type tree struct {
	category    *models.Category
	subcategory *models.Subcategory
	products    []*models.Product
}

// seedTree creates a category with one subcategory, one product under the
// subcategory and one filed directly under the category.
func seedTree(t *testing.T, svc *Service, name string) tree {
	t.Helper()
	ctx := context.Background()
	c, err := svc.CreateCategory(ctx, payload(categoryFields(name)))
	require.NoError(t, err)
	sub, err := svc.CreateSubcategory(ctx, payload(subcategoryFields(name+"-sub", c.ID.Hex())))
	require.NoError(t, err)
	p1, err := svc.CreateProduct(ctx, payload(with(productFields(name+"-p1"), "subcategoryId", sub.ID.Hex())))
	require.NoError(t, err)
	p2, err := svc.CreateProduct(ctx, payload(with(productFields(name+"-p2"), "categoryId", c.ID.Hex())))
	require.NoError(t, err)
	return tree{category: c, subcategory: sub, products: []*models.Product{p1, p2}}
}

// assertIntegrity checks every catalog and footer reference in the store.
func assertIntegrity(t *testing.T, store domain.CatalogStore) {
	t.Helper()
	ctx := context.Background()
	exists := func(coll string, id any) bool {
		n, err := store.Count(ctx, coll, bson.M{"_id": id})
		require.NoError(t, err)
		return n == 1
	}

	var subs []models.Subcategory
	require.NoError(t, store.FindAll(ctx, domain.SubcategoryCollection, bson.M{}, &subs))
	for _, s := range subs {
		require.True(t, exists(domain.CategoryCollection, s.CategoryID), "subcategory %s has a dangling category", s.ID.Hex())
	}

	var products []models.Product
	require.NoError(t, store.FindAll(ctx, domain.ProductCollection, bson.M{}, &products))
	for _, p := range products {
		if p.CategoryID != nil {
			require.True(t, exists(domain.CategoryCollection, *p.CategoryID), "product %s has a dangling category", p.ID.Hex())
		}
		if p.SubcategoryID != nil {
			var sub models.Subcategory
			require.NoError(t, store.FindByID(ctx, domain.SubcategoryCollection, *p.SubcategoryID, &sub))
			require.NotNil(t, p.CategoryID)
			require.Equal(t, sub.CategoryID, *p.CategoryID)
		}
	}

	var footers []models.Footer
	require.NoError(t, store.FindAll(ctx, domain.FooterCollection, bson.M{}, &footers))
	for _, f := range footers {
		for _, a := range f.FactoryAddresses {
			require.True(t, exists(domain.FactoryAddressCollection, a), "footer lists missing address %s", a.Hex())
		}
	}
}
