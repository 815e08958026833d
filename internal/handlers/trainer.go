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

type TrainerUpdateRequest struct {
	Name       *string             `json:"name"`
	Discipline *string             `json:"discipline"`
	Details    *string             `json:"details"`
	Images     *[]string           `json:"image"`
	Rating     *float64            `json:"rating"`
	PriceRates *[]models.RateEntry `json:"priceRate"`
}

func GetTrainers(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := bson.M{}
		if discipline := strings.TrimSpace(c.Query("discipline")); discipline != "" {
			filter["discipline"] = bson.M{"$regex": discipline, "$options": "i"}
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := db.Collection("trainers").Find(ctx, filter, opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "db error"})
			return
		}
		defer cursor.Close(ctx)

		trainers := make([]models.Trainer, 0)
		if err := cursor.All(ctx, &trainers); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "decode error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Trainers fetched", "trainers": trainers})
	}
}

func GetTrainer(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var trainer models.Trainer
		err = db.Collection("trainers").FindOne(ctx, bson.M{"_id": id}).Decode(&trainer)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"message": "trainer not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "db error"})
			return
		}

		c.JSON(http.StatusOK, trainer)
	}
}

func UpdateTrainer(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid id"})
			return
		}

		var req TrainerUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid body"})
			return
		}

		set := bson.M{}
		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				c.JSON(http.StatusBadRequest, gin.H{"message": "name is required"})
				return
			}
			set["name"] = name
		}
		if req.Discipline != nil {
			set["discipline"] = strings.TrimSpace(*req.Discipline)
		}
		if req.Details != nil {
			set["details"] = strings.TrimSpace(*req.Details)
		}
		if req.Images != nil {
			set["image"] = models.StringList(*req.Images)
		}
		if req.Rating != nil {
			set["rating"] = *req.Rating
		}
		if req.PriceRates != nil {
			set["priceRate"] = *req.PriceRates
		}

		if len(set) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "no fields to update"})
			return
		}
		set["updatedAt"] = time.Now()

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var updated models.Trainer
		err = db.Collection("trainers").FindOneAndUpdate(
			ctx,
			bson.M{"_id": id},
			bson.M{"$set": set},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&updated)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"message": "trainer not found"})
			return
		}
		if err != nil {
			log.Println("[TRAINER] [ERROR] trainer update failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "db error"})
			return
		}

		c.JSON(http.StatusOK, updated)
	}
}

func DeleteTrainer(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("trainers").DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "db error"})
			return
		}
		if res.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"message": "trainer not found"})
			return
		}

		c.Status(http.StatusNoContent)
	}
}
