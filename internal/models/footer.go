package models

import (
	"time"

	"github.com/developia-II/catalog-backend/internal/core/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	FooterSocialLinks = 7
	// CurrentFooterKey marks the single footer document; a unique index on
	// key keeps a second one from being inserted.
	CurrentFooterKey = "current"
)

type Footer struct {
	ID               primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Key              string               `bson:"key" json:"-"`
	CopyrightText    string               `json:"copyrightText" bson:"copyrightText"`
	SocialLinks      []string             `json:"socialLinks" bson:"socialLinks"`
	ContactEmail     string               `json:"contactEmail" bson:"contactEmail"`
	ContactPhone     string               `json:"contactPhone" bson:"contactPhone"`
	OfficeAddress    string               `json:"officeAddress" bson:"officeAddress"`
	FactoryAddresses []primitive.ObjectID `json:"factoryAddresses" bson:"factoryAddresses"`
	CreatedAt        time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// FooterDetail is the footer with its address documents expanded.
type FooterDetail struct {
	Footer
	Addresses []FactoryAddress `json:"addresses"`
}

func NewFooter() *Footer {
	return &Footer{
		Key:              CurrentFooterKey,
		SocialLinks:      fixed(FooterSocialLinks),
		FactoryAddresses: []primitive.ObjectID{},
	}
}

func (ft *Footer) Apply(f domain.Fields) (bson.M, error) {
	ft.SocialLinks = resize(ft.SocialLinks, FooterSocialLinks)
	set := bson.M{}
	applyString(f, "copyrightText", &ft.CopyrightText, "copyrightText", set)
	applyIndexed(f, "Social", ft.SocialLinks, "socialLinks", set)
	applyString(f, "contactEmail", &ft.ContactEmail, "contactEmail", set)
	applyString(f, "contactPhone", &ft.ContactPhone, "contactPhone", set)
	applyString(f, "officeAddress", &ft.OfficeAddress, "officeAddress", set)
	return set, nil
}
