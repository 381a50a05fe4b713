package models

import (
	"time"

	"github.com/developia-II/catalog-backend/internal/core/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const CategoryKeyPoints = 3

type Category struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description" bson:"description"`
	KeyPoints   []string           `json:"keyPoints" bson:"keyPoints"`
	Image       string             `json:"image" bson:"image"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

func NewCategory() *Category {
	return &Category{KeyPoints: fixed(CategoryKeyPoints)}
}

// Apply merges supplied fields into c and returns the $set for them.
func (c *Category) Apply(f domain.Fields) (bson.M, error) {
	c.KeyPoints = resize(c.KeyPoints, CategoryKeyPoints)
	set := bson.M{}
	applyString(f, "name", &c.Name, "name", set)
	applyString(f, "description", &c.Description, "description", set)
	applyIndexed(f, "KeyP", c.KeyPoints, "keyPoints", set)
	applyString(f, "Img", &c.Image, "image", set)
	return set, nil
}
