package handlers

import (
	"context"
	"errors"
	"log"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"equimarket/internal/models"
)

// parseSubscriptionInput checks every constraint before storage is touched and
// names the one that failed.
func parseSubscriptionInput(fields map[string]string) (models.Subscription, error) {
	sub := models.Subscription{}

	name := strings.TrimSpace(fields["name"])
	if name == "" {
		return sub, errors.New("name is required")
	}
	sub.Name = name

	priceRaw, ok := fields["price"]
	if !ok {
		return sub, errors.New("price is required")
	}
	price, err := numberField(priceRaw, "price")
	if err != nil {
		return sub, err
	}
	if price < 0 {
		return sub, errors.New("price must be greater than or equal to 0")
	}
	sub.Price = price

	durationRaw, ok := fields["duration"]
	if !ok {
		return sub, errors.New("duration is required")
	}
	duration, err := numberField(durationRaw, "duration")
	if err != nil || duration <= 0 {
		return sub, errors.New("duration must be a number greater than 0")
	}
	if duration != math.Trunc(duration) {
		return sub, errors.New("duration must be a whole number of days")
	}
	sub.Duration = int(duration)

	if discountRaw, ok := fields["discount"]; ok && strings.TrimSpace(discountRaw) != "" {
		discount, err := numberField(discountRaw, "discount")
		if err != nil || discount < 0 {
			return sub, errors.New("discount must be a number greater than or equal to 0")
		}
		sub.Discount = discount
	}

	return sub, nil
}

func GetSubscriptions(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := db.Collection("subscriptions").Find(ctx, bson.M{}, opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "db error"})
			return
		}
		defer cursor.Close(ctx)

		subscriptions := make([]models.Subscription, 0)
		if err := cursor.All(ctx, &subscriptions); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "decode error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":       "Subscriptions fetched",
			"subscriptions": subscriptions,
		})
	}
}

func CreateSubscription(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		fields, err := parseBody(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid body"})
			return
		}

		sub, err := parseSubscriptionInput(fields)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		sub.CreatedAt = time.Now()

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("subscriptions").InsertOne(ctx, sub)
		if err != nil {
			log.Println("[SUBSCRIPTION] [ERROR] insert failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "db error"})
			return
		}

		sub.ID, _ = res.InsertedID.(primitive.ObjectID)
		log.Println("[SUBSCRIPTION] [INFO] subscription created:", sub.Name)
		c.JSON(http.StatusCreated, gin.H{
			"message":      "Subscription created",
			"subscription": sub,
		})
	}
}
