package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RateEntry is one {amount, label} pricing row on a listing.
type RateEntry struct {
	Rate     float64 `bson:"Rate" json:"Rate"`
	RateType string  `bson:"RateType" json:"RateType"`
}

// SlotEntry is one availability window on a listing.
type SlotEntry struct {
	Date      string `bson:"Date" json:"Date"`
	StartTime string `bson:"StartTime" json:"StartTime"`
	EndTime   string `bson:"EndTime" json:"EndTime"`
}

// Stable is a persisted stable listing. The wire spellings Tittle/Deatils/image
// are kept as-is; existing documents and clients use them.
type Stable struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"userId" json:"userId"`
	Title      string             `bson:"Tittle" json:"Tittle"`
	Details    string             `bson:"Deatils" json:"Deatils"`
	Images     StringList         `bson:"image" json:"image"`
	Rating     *float64           `bson:"Rating,omitempty" json:"Rating,omitempty"`
	PriceRates []RateEntry        `bson:"PriceRate" json:"PriceRate"`
	DateSlots  []SlotEntry        `bson:"DateSlot" json:"DateSlot"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}
