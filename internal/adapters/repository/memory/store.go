// Package memory is an in-process record store with the same transactional
// contract as the MongoDB store. Writers are serialized and work on a
// copy-on-write snapshot that is published only on commit.
package memory

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/developia-II/catalog-backend/internal/core/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type document struct {
	seq uint64
	raw []byte
}

type collections map[string]map[primitive.ObjectID]document

func (c collections) clone() collections {
	out := make(collections, len(c))
	for name, docs := range c {
		cp := make(map[primitive.ObjectID]document, len(docs))
		for id, d := range docs {
			cp[id] = d
		}
		out[name] = cp
	}
	return out
}

type Store struct {
	mu      sync.RWMutex
	writeMu sync.Mutex
	data    collections
	seq     uint64
	unique  map[string][]string
}

func New() *Store {
	return &Store{
		data: collections{},
		unique: map[string][]string{
			domain.FooterCollection: {"key"},
		},
	}
}

func (s *Store) committed() *view {
	return &view{data: s.data, seq: &s.seq, unique: s.unique}
}

func (s *Store) FindByID(ctx context.Context, coll string, id primitive.ObjectID, out any) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.committed().FindByID(ctx, coll, id, out)
}

func (s *Store) FindOne(ctx context.Context, coll string, filter bson.M, out any) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.committed().FindOne(ctx, coll, filter, out)
}

func (s *Store) FindAll(ctx context.Context, coll string, filter bson.M, out any) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.committed().FindAll(ctx, coll, filter, out)
}

func (s *Store) Count(ctx context.Context, coll string, filter bson.M) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.committed().Count(ctx, coll, filter)
}

func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx domain.Tx) error) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	seq := s.seq
	tx := &view{data: s.data.clone(), seq: &seq, unique: s.unique}
	s.mu.RUnlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	s.data = tx.data
	s.seq = seq
	s.mu.Unlock()
	return nil
}

func (s *Store) EnsureIndexes(context.Context) error { return nil }
func (s *Store) Ping(context.Context) error          { return nil }
func (s *Store) Close(context.Context) error         { return nil }

// view runs the operations against one set of collections. Outside a
// transaction it is the committed data (read-only use); inside, the
// transaction's private copy.
type view struct {
	data   collections
	seq    *uint64
	unique map[string][]string
}

var _ domain.Tx = (*view)(nil)
var _ domain.CatalogStore = (*Store)(nil)

func (v *view) docs(coll string) map[primitive.ObjectID]document {
	d, ok := v.data[coll]
	if !ok {
		d = map[primitive.ObjectID]document{}
		v.data[coll] = d
	}
	return d
}

type entry struct {
	id  primitive.ObjectID
	seq uint64
	m   bson.M
}

// matching returns decoded documents matching filter, newest first.
func (v *view) matching(coll string, filter bson.M) ([]entry, error) {
	f, err := normalize(filter)
	if err != nil {
		return nil, err
	}
	var out []entry
	for id, d := range v.data[coll] {
		m, err := decode(d.raw)
		if err != nil {
			return nil, err
		}
		if matches(m, f) {
			out = append(out, entry{id: id, seq: d.seq, m: m})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		ci, cj := createdAt(out[i].m), createdAt(out[j].m)
		if ci != cj {
			return ci > cj
		}
		return out[i].seq > out[j].seq
	})
	return out, nil
}

func (v *view) FindByID(_ context.Context, coll string, id primitive.ObjectID, out any) error {
	d, ok := v.data[coll][id]
	if !ok {
		return domain.ErrDocumentNotFound
	}
	return bson.Unmarshal(d.raw, out)
}

func (v *view) FindOne(_ context.Context, coll string, filter bson.M, out any) error {
	found, err := v.matching(coll, filter)
	if err != nil {
		return err
	}
	if len(found) == 0 {
		return domain.ErrDocumentNotFound
	}
	return bson.Unmarshal(v.data[coll][found[0].id].raw, out)
}

func (v *view) FindAll(_ context.Context, coll string, filter bson.M, out any) error {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("memory: FindAll needs a pointer to a slice, got %T", out)
	}
	found, err := v.matching(coll, filter)
	if err != nil {
		return err
	}
	slice := rv.Elem()
	result := reflect.MakeSlice(slice.Type(), 0, len(found))
	for _, e := range found {
		elem := reflect.New(slice.Type().Elem())
		if err := bson.Unmarshal(v.data[coll][e.id].raw, elem.Interface()); err != nil {
			return err
		}
		result = reflect.Append(result, elem.Elem())
	}
	slice.Set(result)
	return nil
}

func (v *view) Count(_ context.Context, coll string, filter bson.M) (int64, error) {
	found, err := v.matching(coll, filter)
	return int64(len(found)), err
}

func (v *view) Insert(_ context.Context, coll string, doc any) error {
	m, err := normalize(doc)
	if err != nil {
		return err
	}
	id, ok := m["_id"].(primitive.ObjectID)
	if !ok || id.IsZero() {
		id = primitive.NewObjectID()
		m["_id"] = id
	}
	docs := v.docs(coll)
	if _, exists := docs[id]; exists {
		return &domain.ConflictError{Message: fmt.Sprintf("%s %s already exists", coll, id.Hex())}
	}
	if err := v.checkUnique(coll, id, m); err != nil {
		return err
	}
	return v.put(coll, id, m, 0)
}

func (v *view) UpdateByID(_ context.Context, coll string, id primitive.ObjectID, set bson.M) error {
	d, ok := v.data[coll][id]
	if !ok {
		return domain.ErrDocumentNotFound
	}
	return v.apply(coll, id, d, func(m bson.M) error {
		return merge(m, set)
	})
}

func (v *view) UpdateMany(_ context.Context, coll string, filter bson.M, set bson.M) (int64, error) {
	return v.each(coll, filter, func(m bson.M) error { return merge(m, set) })
}

func (v *view) UnsetMany(_ context.Context, coll string, filter bson.M, field string) (int64, error) {
	return v.each(coll, filter, func(m bson.M) error {
		delete(m, field)
		return nil
	})
}

func (v *view) DeleteByID(_ context.Context, coll string, id primitive.ObjectID) error {
	docs := v.data[coll]
	if _, ok := docs[id]; !ok {
		return domain.ErrDocumentNotFound
	}
	delete(docs, id)
	return nil
}

func (v *view) DeleteMany(_ context.Context, coll string, filter bson.M) (int64, error) {
	found, err := v.matching(coll, filter)
	if err != nil {
		return 0, err
	}
	for _, e := range found {
		delete(v.data[coll], e.id)
	}
	return int64(len(found)), nil
}

func (v *view) AddToSet(_ context.Context, coll string, id primitive.ObjectID, field string, value primitive.ObjectID) error {
	d, ok := v.data[coll][id]
	if !ok {
		return domain.ErrDocumentNotFound
	}
	return v.apply(coll, id, d, func(m bson.M) error {
		arr, _ := m[field].(primitive.A)
		for _, el := range arr {
			if el == value {
				return nil
			}
		}
		m[field] = append(arr, value)
		return nil
	})
}

func (v *view) PullMany(_ context.Context, coll string, filter bson.M, field string, value primitive.ObjectID) (int64, error) {
	return v.each(coll, filter, func(m bson.M) error {
		arr, _ := m[field].(primitive.A)
		kept := primitive.A{}
		for _, el := range arr {
			if el != value {
				kept = append(kept, el)
			}
		}
		m[field] = kept
		return nil
	})
}

func (v *view) each(coll string, filter bson.M, fn func(bson.M) error) (int64, error) {
	found, err := v.matching(coll, filter)
	if err != nil {
		return 0, err
	}
	for _, e := range found {
		if err := fn(e.m); err != nil {
			return 0, err
		}
		if err := v.checkUnique(coll, e.id, e.m); err != nil {
			return 0, err
		}
		if err := v.put(coll, e.id, e.m, e.seq); err != nil {
			return 0, err
		}
	}
	return int64(len(found)), nil
}

func (v *view) apply(coll string, id primitive.ObjectID, d document, fn func(bson.M) error) error {
	m, err := decode(d.raw)
	if err != nil {
		return err
	}
	if err := fn(m); err != nil {
		return err
	}
	if err := v.checkUnique(coll, id, m); err != nil {
		return err
	}
	return v.put(coll, id, m, d.seq)
}

func (v *view) put(coll string, id primitive.ObjectID, m bson.M, seq uint64) error {
	raw, err := bson.Marshal(m)
	if err != nil {
		return err
	}
	if seq == 0 {
		*v.seq++
		seq = *v.seq
	}
	v.docs(coll)[id] = document{seq: seq, raw: raw}
	return nil
}

func (v *view) checkUnique(coll string, id primitive.ObjectID, m bson.M) error {
	for _, field := range v.unique[coll] {
		val, ok := m[field]
		if !ok {
			continue
		}
		for otherID, d := range v.data[coll] {
			if otherID == id {
				continue
			}
			other, err := decode(d.raw)
			if err != nil {
				return err
			}
			if reflect.DeepEqual(other[field], val) {
				return &domain.ConflictError{Message: fmt.Sprintf("%s with %s %v already exists", coll, field, val)}
			}
		}
	}
	return nil
}

func normalize(v any) (bson.M, error) {
	if v == nil {
		return bson.M{}, nil
	}
	if m, ok := v.(bson.M); ok && len(m) == 0 {
		return bson.M{}, nil
	}
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	return decode(raw)
}

func decode(raw []byte) (bson.M, error) {
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func merge(m bson.M, set bson.M) error {
	n, err := normalize(set)
	if err != nil {
		return err
	}
	for k, val := range n {
		m[k] = val
	}
	return nil
}

// matches implements top-level equality, with array fields matching when
// any element is equal, as MongoDB does.
func matches(m, filter bson.M) bool {
	for k, want := range filter {
		got, ok := m[k]
		if !ok {
			if want != nil {
				return false
			}
			continue
		}
		if reflect.DeepEqual(got, want) {
			continue
		}
		arr, isArr := got.(primitive.A)
		if !isArr {
			return false
		}
		found := false
		for _, el := range arr {
			if reflect.DeepEqual(el, want) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func createdAt(m bson.M) int64 {
	if dt, ok := m["createdAt"].(primitive.DateTime); ok {
		return int64(dt)
	}
	return 0
}
