package models

import (
	"time"

	"github.com/developia-II/catalog-backend/internal/core/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ProductImages       = 3
	ProductFeatures     = 6
	ProductSpecs        = 10
	ProductApplications = 6
)

type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description" bson:"description"`

	// Categorization
	CategoryID    *primitive.ObjectID `json:"categoryId,omitempty" bson:"categoryId,omitempty"`
	SubcategoryID *primitive.ObjectID `json:"subcategoryId,omitempty" bson:"subcategoryId,omitempty"`

	// Media
	Images []string `json:"images" bson:"images"`

	// Datasheet
	Features     []string `json:"features" bson:"features"`
	Specs        []string `json:"specs" bson:"specs"`
	Applications []string `json:"applications" bson:"applications"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

func NewProduct() *Product {
	return &Product{
		Images:       fixed(ProductImages),
		Features:     fixed(ProductFeatures),
		Specs:        fixed(ProductSpecs),
		Applications: fixed(ProductApplications),
	}
}

func (p *Product) Apply(f domain.Fields) (bson.M, error) {
	p.Images = resize(p.Images, ProductImages)
	p.Features = resize(p.Features, ProductFeatures)
	p.Specs = resize(p.Specs, ProductSpecs)
	p.Applications = resize(p.Applications, ProductApplications)

	set := bson.M{}
	applyString(f, "name", &p.Name, "name", set)
	applyString(f, "description", &p.Description, "description", set)
	applyIndexed(f, "Img", p.Images, "images", set)
	applyIndexed(f, "F", p.Features, "features", set)
	applyIndexed(f, "S", p.Specs, "specs", set)
	applyIndexed(f, "A", p.Applications, "applications", set)
	if err := applyRef(f, "categoryId", &p.CategoryID, "categoryId", set); err != nil {
		return nil, err
	}
	if err := applyRef(f, "subcategoryId", &p.SubcategoryID, "subcategoryId", set); err != nil {
		return nil, err
	}
	return set, nil
}
