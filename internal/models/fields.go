package models

import (
	"fmt"
	"strconv"

	"github.com/developia-II/catalog-backend/internal/core/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Helpers that merge a normalized field set into a model and collect the
// top-level keys that changed into a $set document.

func applyString(f domain.Fields, key string, dst *string, bsonKey string, set bson.M) {
	if v, ok := f.Get(key); ok {
		*dst = v
		set[bsonKey] = v
	}
}

// applyIndexed maps prefix1..prefixN onto dst. The whole array is written
// when any slot changes.
func applyIndexed(f domain.Fields, prefix string, dst []string, bsonKey string, set bson.M) {
	changed := false
	for i := range dst {
		if v, ok := f.Get(prefix + strconv.Itoa(i+1)); ok {
			dst[i] = v
			changed = true
		}
	}
	if changed {
		out := make([]string, len(dst))
		copy(out, dst)
		set[bsonKey] = out
	}
}

func applyRef(f domain.Fields, key string, dst **primitive.ObjectID, bsonKey string, set bson.M) error {
	v, ok := f.Get(key)
	if !ok {
		return nil
	}
	id, err := primitive.ObjectIDFromHex(v)
	if err != nil {
		return domain.Invalid(key, fmt.Sprintf("%s is not a valid id", key))
	}
	*dst = &id
	set[bsonKey] = id
	return nil
}

func fixed(n int) []string { return make([]string, n) }

// resize pads or truncates a decoded array to the declared slot count.
func resize(s []string, n int) []string {
	if len(s) == n {
		return s
	}
	out := make([]string, n)
	copy(out, s)
	return out
}
