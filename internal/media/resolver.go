// Package media turns uploaded file parts into stable asset references.
package media

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/developia-II/catalog-backend/internal/core/domain"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// DefaultMaxBytes is the per-file upload limit (10MB).
const DefaultMaxBytes = 10 << 20

// Store persists one asset under key and returns its public reference.
// Implementations must not overwrite an existing key.
type Store interface {
	Put(ctx context.Context, key, contentType string, r io.Reader) (string, error)
	Delete(ctx context.Context, key string) error
}

var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

type Resolver struct {
	store    Store
	folder   string
	maxBytes int64
}

func NewResolver(store Store, folder string, maxBytes int64) *Resolver {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Resolver{store: store, folder: strings.Trim(folder, "/"), maxBytes: maxBytes}
}

type checkedUpload struct {
	field       string
	upload      domain.Upload
	contentType string
	ext         string
}

// Resolve stores the file parts of p that belong to the media fields and
// writes their references into fields. Every part is checked before any is
// stored, so a rejected file never leaves assets behind. The returned keys
// are the assets stored for this call; the caller hands them to Discard when
// the write they belong to fails. Media fields without a file part are left
// as the validator produced them.
func (r *Resolver) Resolve(ctx context.Context, entity string, mediaFields []string, p domain.Payload, fields domain.Fields) ([]string, error) {
	var checked []checkedUpload
	verr := domain.NewValidationError()
	for _, field := range mediaFields {
		up, ok := p.Files[field]
		if !ok {
			continue
		}
		c, err := r.check(field, up)
		if err != nil {
			verr.Add(field, err.Error())
			continue
		}
		checked = append(checked, c)
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	var stored []string
	for _, c := range checked {
		key, ref, err := r.put(ctx, entity, c)
		if err != nil {
			r.Discard(ctx, stored)
			return nil, fmt.Errorf("store %s for %s: %w", c.field, entity, err)
		}
		stored = append(stored, key)
		fields[c.field] = ref
	}
	return stored, nil
}

// Discard deletes assets stored for a write that did not commit. Failures
// are logged only.
func (r *Resolver) Discard(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := r.store.Delete(ctx, key); err != nil {
			logrus.WithError(err).WithField("key", key).Warn("failed to delete orphaned asset")
		}
	}
}

// Store checks and stores a single upload outside of any record.
func (r *Resolver) Store(ctx context.Context, entity, field string, up domain.Upload) (string, error) {
	c, err := r.check(field, up)
	if err != nil {
		return "", domain.Invalid(field, err.Error())
	}
	_, ref, err := r.put(ctx, entity, c)
	return ref, err
}

func (r *Resolver) check(field string, up domain.Upload) (checkedUpload, error) {
	if up.Size > r.maxBytes {
		return checkedUpload{}, fmt.Errorf("%s exceeds the %d MB limit", field, r.maxBytes>>20)
	}
	f, err := up.Open()
	if err != nil {
		return checkedUpload{}, fmt.Errorf("%s could not be read", field)
	}
	defer f.Close()

	// The first 512 bytes are enough to sniff the real type.
	buffer := make([]byte, 512)
	n, err := io.ReadFull(f, buffer)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return checkedUpload{}, fmt.Errorf("%s could not be read", field)
	}
	if n == 0 {
		return checkedUpload{}, fmt.Errorf("%s is an empty file", field)
	}
	contentType := http.DetectContentType(buffer[:n])
	fallback, ok := allowedTypes[contentType]
	if !ok {
		return checkedUpload{}, fmt.Errorf("%s has an unsupported file type, upload JPG, PNG, WEBP or GIF", field)
	}

	ext := strings.ToLower(filepath.Ext(up.Filename))
	if ext == "" || len(ext) > 5 {
		ext = fallback
	}
	return checkedUpload{field: field, upload: up, contentType: contentType, ext: ext}, nil
}

func (r *Resolver) put(ctx context.Context, entity string, c checkedUpload) (key, ref string, err error) {
	f, err := c.upload.Open()
	if err != nil {
		return "", "", err
	}
	defer f.Close()

	// A fresh name per upload: previous assets are never overwritten.
	key = path.Join(r.folder, slug(entity), uuid.New().String()+c.ext)
	ref, err = r.store.Put(ctx, key, c.contentType, f)
	return key, ref, err
}

func slug(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "-")
}
