package models

import (
	"time"

	"github.com/developia-II/catalog-backend/internal/core/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type FactoryAddress struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Heading     string              `json:"heading" bson:"heading"`
	Description string              `json:"description" bson:"description"`
	MapLink     string              `json:"mapLink" bson:"mapLink"`
	FooterID    *primitive.ObjectID `json:"footerId,omitempty" bson:"footerId,omitempty"`
	CreatedAt   time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt" bson:"updatedAt"`
}

func (a *FactoryAddress) Apply(f domain.Fields) (bson.M, error) {
	set := bson.M{}
	applyString(f, "heading", &a.Heading, "heading", set)
	applyString(f, "description", &a.Description, "description", set)
	applyString(f, "mapLink", &a.MapLink, "mapLink", set)
	if err := applyRef(f, "footerId", &a.FooterID, "footerId", set); err != nil {
		return nil, err
	}
	return set, nil
}
