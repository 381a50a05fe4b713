package domain

import (
	"io"
	"strings"
)

// Fields is a flat set of request values keyed by their form/JSON name.
type Fields map[string]string

// Get returns the trimmed value and whether the key was supplied at all.
func (f Fields) Get(key string) (string, bool) {
	v, ok := f[key]
	return strings.TrimSpace(v), ok
}

// Upload is one binary part of a request. Open may be called more than once.
type Upload struct {
	Filename string
	Size     int64
	Open     func() (io.ReadCloser, error)
}

// Payload is what an API handler extracts from a create or update request.
type Payload struct {
	Fields Fields
	Files  map[string]Upload
}

func (p Payload) HasFile(key string) bool {
	_, ok := p.Files[key]
	return ok
}
