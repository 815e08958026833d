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

	"equimarket/internal/models"
)

type BookingRequest struct {
	StableID  string `json:"stableId" binding:"required"`
	Date      string `json:"date" binding:"required"`
	StartTime string `json:"startTime" binding:"required"`
	EndTime   string `json:"endTime" binding:"required"`
}

func CreateBooking(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		accountIDValue, ok := c.Get("accountId")
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
			return
		}
		accountID := accountIDValue.(primitive.ObjectID)

		var req BookingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		stableID, err := primitive.ObjectIDFromHex(strings.TrimSpace(req.StableID))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid stableId"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if err := db.Collection("stables").FindOne(ctx, bson.M{"_id": stableID}).Err(); err != nil {
			if err == mongo.ErrNoDocuments {
				c.JSON(http.StatusNotFound, gin.H{"message": "stable not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": "db error"})
			return
		}

		booking := models.Booking{
			UserID:    accountID,
			StableID:  stableID,
			Date:      strings.TrimSpace(req.Date),
			StartTime: strings.TrimSpace(req.StartTime),
			EndTime:   strings.TrimSpace(req.EndTime),
			Status:    "pending",
			CreatedAt: time.Now(),
		}

		res, err := db.Collection("bookings").InsertOne(ctx, booking)
		if err != nil {
			log.Println("[BOOKING] [ERROR] booking insert failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "db error"})
			return
		}

		booking.ID, _ = res.InsertedID.(primitive.ObjectID)
		c.JSON(http.StatusCreated, gin.H{"message": "Booking created", "booking": booking})
	}
}

func GetBookings(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		accountIDValue, ok := c.Get("accountId")
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
			return
		}
		accountID := accountIDValue.(primitive.ObjectID)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := db.Collection("bookings").Find(ctx, bson.M{"userId": accountID}, opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "db error"})
			return
		}
		defer cursor.Close(ctx)

		bookings := make([]models.Booking, 0)
		if err := cursor.All(ctx, &bookings); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "decode error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Bookings fetched", "bookings": bookings})
	}
}
