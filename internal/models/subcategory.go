package models

import (
	"time"

	"github.com/developia-II/catalog-backend/internal/core/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const SubcategoryKeyPoints = 2

type Subcategory struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description" bson:"description"`
	KeyPoints   []string           `json:"keyPoints" bson:"keyPoints"`
	Image       string             `json:"image" bson:"image"`
	CategoryID  primitive.ObjectID `json:"categoryId" bson:"categoryId"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

func NewSubcategory() *Subcategory {
	return &Subcategory{KeyPoints: fixed(SubcategoryKeyPoints)}
}

func (s *Subcategory) Apply(f domain.Fields) (bson.M, error) {
	s.KeyPoints = resize(s.KeyPoints, SubcategoryKeyPoints)
	set := bson.M{}
	applyString(f, "name", &s.Name, "name", set)
	applyString(f, "Dtext", &s.Description, "description", set)
	applyIndexed(f, "KeyP", s.KeyPoints, "keyPoints", set)
	applyString(f, "Img", &s.Image, "image", set)

	var ref *primitive.ObjectID
	if err := applyRef(f, "categoryId", &ref, "categoryId", set); err != nil {
		return nil, err
	}
	if ref != nil {
		s.CategoryID = *ref
	}
	return set, nil
}
