package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	KindBuyer      = "buyer"
	KindSeller     = "seller"
	KindSuperAdmin = "superAdmin"
)

// PaymentRecord is an append-only entry inside an account. RecordedAt is set
// server-side at append time, never taken from the client.
type PaymentRecord struct {
	PaymentID          string     `bson:"paymentId" json:"paymentId"`
	RecordedAt         time.Time  `bson:"recordedAt" json:"recordedAt"`
	Amount             float64    `bson:"amount" json:"amount"`
	Currency           string     `bson:"currency" json:"currency"`
	Status             string     `bson:"status" json:"status"`
	SubscriptionID     string     `bson:"subscriptionId,omitempty" json:"subscriptionId,omitempty"`
	SubscriptionStatus string     `bson:"subscriptionStatus,omitempty" json:"subscriptionStatus,omitempty"`
	SubscriptionExpiry *time.Time `bson:"subscriptionExpiry,omitempty" json:"subscriptionExpiry,omitempty"`
}

// Account is the persisted user document. The password hash never serializes
// to JSON on any code path.
type Account struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email              string             `bson:"email" json:"email"`
	PasswordHash       string             `bson:"passwordHash" json:"-"`
	FirstName          string             `bson:"firstName" json:"firstName"`
	LastName           string             `bson:"lastName" json:"lastName"`
	Kind               string             `bson:"kind" json:"kind"`
	Phone              string             `bson:"phone,omitempty" json:"phone,omitempty"`
	CompanyName        string             `bson:"companyName,omitempty" json:"companyName,omitempty"`
	BrandImage         string             `bson:"brandImage,omitempty" json:"brandImage,omitempty"`
	CompanyInfo        string             `bson:"companyInfo,omitempty" json:"companyInfo,omitempty"`
	Payments           []PaymentRecord    `bson:"payments" json:"payments"`
	IsSubscribed       bool               `bson:"isSubscribed" json:"isSubscribed"`
	SubscriptionExpiry *time.Time         `bson:"subscriptionExpiry,omitempty" json:"subscriptionExpiry,omitempty"`
	Status             string             `bson:"status" json:"status"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func ValidKind(kind string) bool {
	switch kind {
	case KindBuyer, KindSeller, KindSuperAdmin:
		return true
	}
	return false
}
