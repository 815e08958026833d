package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Subscription is a purchasable plan.
type Subscription struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Price     float64            `bson:"price" json:"price"`
	Discount  float64            `bson:"discount" json:"discount"`
	Duration  int                `bson:"duration" json:"duration"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
