package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"equimarket/internal/models"
)

type ProfileUpdateRequest struct {
	FirstName   *string `json:"firstName"`
	LastName    *string `json:"lastName"`
	Phone       *string `json:"phone"`
	CompanyName *string `json:"companyName"`
	BrandImage  *string `json:"brandImage"`
	CompanyInfo *string `json:"companyInfo"`
	Password    *string `json:"password"`
}

func GetMe(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		accountID, ok := c.Get("accountId")
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var account models.Account
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": accountID}).Decode(&account); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "user not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"user": account})
	}
}

// UpdateMe merges the present fields into the caller's account. A non-empty
// password is re-hashed; an absent one leaves the stored hash untouched.
func UpdateMe(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		accountIDValue, ok := c.Get("accountId")
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
			return
		}
		accountID := accountIDValue.(primitive.ObjectID)

		var req ProfileUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid body"})
			return
		}

		set := bson.M{}
		if req.FirstName != nil {
			name := strings.TrimSpace(*req.FirstName)
			if name == "" {
				c.JSON(http.StatusBadRequest, gin.H{"message": "firstName is required"})
				return
			}
			set["firstName"] = name
		}
		if req.LastName != nil {
			name := strings.TrimSpace(*req.LastName)
			if name == "" {
				c.JSON(http.StatusBadRequest, gin.H{"message": "lastName is required"})
				return
			}
			set["lastName"] = name
		}
		if req.Phone != nil {
			set["phone"] = strings.TrimSpace(*req.Phone)
		}
		if req.CompanyName != nil {
			set["companyName"] = strings.TrimSpace(*req.CompanyName)
		}
		if req.BrandImage != nil {
			set["brandImage"] = strings.TrimSpace(*req.BrandImage)
		}
		if req.CompanyInfo != nil {
			set["companyInfo"] = strings.TrimSpace(*req.CompanyInfo)
		}
		if req.Password != nil && strings.TrimSpace(*req.Password) != "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
			if err != nil {
				log.Println("[USER] [ERROR] profile password hash failed")
				c.JSON(http.StatusInternalServerError, gin.H{"message": "password hash failed"})
				return
			}
			set["passwordHash"] = string(hash)
		}

		if len(set) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "no fields to update"})
			return
		}
		set["updatedAt"] = time.Now()

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var updated models.Account
		err := db.Collection("users").FindOneAndUpdate(
			ctx,
			bson.M{"_id": accountID},
			bson.M{"$set": set},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&updated)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"message": "user not found"})
			return
		}
		if err != nil {
			log.Println("[USER] [ERROR] profile update failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "db error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Profile updated", "user": updated})
	}
}

// AppendPayment pushes a payment record onto an account. Records are
// append-only; the recorded timestamp is set here, not by the client.
func AppendPayment(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		fields, err := parseBody(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid body"})
			return
		}

		if err := requireFields(fields, "userId", "paymentId", "amount", "currency", "status"); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		userID, err := primitive.ObjectIDFromHex(strings.TrimSpace(fields["userId"]))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid userId"})
			return
		}

		amount, err := numberField(fields["amount"], "amount")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		now := time.Now()
		record := models.PaymentRecord{
			PaymentID:          strings.TrimSpace(fields["paymentId"]),
			RecordedAt:         now,
			Amount:             amount,
			Currency:           strings.TrimSpace(fields["currency"]),
			Status:             strings.TrimSpace(fields["status"]),
			SubscriptionID:     strings.TrimSpace(fields["subscriptionId"]),
			SubscriptionStatus: strings.TrimSpace(fields["subscriptionStatus"]),
		}

		if raw := strings.TrimSpace(fields["subscriptionExpiry"]); raw != "" {
			expiry, err := time.Parse(time.RFC3339, strings.Trim(raw, `"`))
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"message": "subscriptionExpiry must be an RFC3339 timestamp"})
				return
			}
			record.SubscriptionExpiry = &expiry
		}

		set := bson.M{"updatedAt": now}
		if record.SubscriptionStatus != "" {
			set["isSubscribed"] = record.SubscriptionStatus == "active"
		}
		if record.SubscriptionExpiry != nil {
			set["subscriptionExpiry"] = *record.SubscriptionExpiry
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var updated models.Account
		err = db.Collection("users").FindOneAndUpdate(
			ctx,
			bson.M{"_id": userID},
			bson.M{"$push": bson.M{"payments": record}, "$set": set},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&updated)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		if err != nil {
			log.Println("[PAYMENT] [ERROR] payment append failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "db error"})
			return
		}

		log.Println("[PAYMENT] [INFO] payment recorded:", record.PaymentID)
		c.JSON(http.StatusOK, gin.H{"message": "Payment recorded", "user": updated})
	}
}
