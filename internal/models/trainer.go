package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Trainer is a persisted trainer listing.
type Trainer struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"userId" json:"userId"`
	Name       string             `bson:"name" json:"name"`
	Discipline string             `bson:"discipline,omitempty" json:"discipline,omitempty"`
	Details    string             `bson:"details,omitempty" json:"details,omitempty"`
	Images     StringList         `bson:"image" json:"image"`
	Rating     *float64           `bson:"rating,omitempty" json:"rating,omitempty"`
	PriceRates []RateEntry        `bson:"priceRate" json:"priceRate"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}
