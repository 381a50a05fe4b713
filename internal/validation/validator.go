// Package validation normalizes request field sets against per-entity rule
// tables. It has no side effects.
package validation

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/developia-II/catalog-backend/internal/core/domain"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Op int

const (
	Create Op = iota
	Update
)

func (o Op) String() string {
	if o == Create {
		return "create"
	}
	return "update"
}

type Validator struct {
	v *validator.Validate
}

// mediaRefTag is checked on every media field given as a string.
const mediaRefTag = "mediaref"

func New() *Validator {
	v := validator.New()
	if err := v.RegisterValidation(mediaRefTag, isMediaRef); err != nil {
		panic(err)
	}
	return &Validator{v: v}
}

// isMediaRef accepts an absolute http(s) URL or a root-relative path such as
// the ones the local media store hands out.
func isMediaRef(fl validator.FieldLevel) bool {
	raw := fl.Field().String()
	if strings.ContainsAny(raw, " \t\r\n") {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme == "" {
		return u.Host == "" && strings.HasPrefix(u.Path, "/") && !strings.HasPrefix(raw, "//")
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func formatTag(rules RuleSet, field string) (string, bool) {
	if tag, ok := rules.Formats[field]; ok {
		return tag, true
	}
	if rules.IsMedia(field) {
		return mediaRefTag, true
	}
	return "", false
}

// Validate returns the trimmed values of the declared fields that carry a
// value. Media fields satisfied by a file part are left for the media
// resolver to fill. Every failing field is reported in one ValidationError.
func (v *Validator) Validate(rules RuleSet, op Op, p domain.Payload) (domain.Fields, error) {
	out := domain.Fields{}
	verr := domain.NewValidationError()

	for _, field := range rules.Declared() {
		raw, present := p.Fields[field]
		val := strings.TrimSpace(raw)
		hasFile := rules.IsMedia(field) && p.HasFile(field)

		switch {
		case val != "":
			if tag, ok := formatTag(rules, field); ok {
				if err := v.v.Var(val, tag); err != nil {
					verr.Add(field, fmt.Sprintf("%s must be a valid %s", field, describeTag(tag)))
					continue
				}
			}
			out[field] = val
		case hasFile:
		case op == Create && rules.requiredOnCreate(field):
			verr.Add(field, field+" is required")
		case op == Update && present:
			verr.Add(field, field+" cannot be empty")
		}
	}

	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return out, nil
}

func describeTag(tag string) string {
	switch tag {
	case "mongodb":
		return "id"
	case "url":
		return "URL"
	case mediaRefTag:
		return "image URL"
	default:
		return tag
	}
}

// ParseID parses a path or query id, failing as a validation error on field.
func ParseID(field, raw string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(raw))
	if err != nil {
		return primitive.NilObjectID, domain.Invalid(field, fmt.Sprintf("%s is not a valid id", field))
	}
	return id, nil
}
