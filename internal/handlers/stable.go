package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"equimarket/internal/models"
)

type stableOwner struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type stableResponse struct {
	models.Stable
	Owner *stableOwner `json:"owner,omitempty"`
}

type stableUpdateInput struct {
	Title         string
	TitleSet      bool
	Details       string
	DetailsSet    bool
	Images        []string
	ImagesSet     bool
	Rating        float64
	RatingSet     bool
	PriceRates    []models.RateEntry
	PriceRatesSet bool
	DateSlots     []models.SlotEntry
	DateSlotsSet  bool
}

func (in stableUpdateInput) empty() bool {
	return !in.TitleSet && !in.DetailsSet && !in.ImagesSet &&
		!in.RatingSet && !in.PriceRatesSet && !in.DateSlotsSet
}

// parseStableUpdate validates every present field before anything is applied.
// Nested rate/slot values arrive as JSON text whether the client sent a
// structured array or a serialized string; both are re-shaped field by field.
func parseStableUpdate(fields map[string]string) (stableUpdateInput, error) {
	input := stableUpdateInput{}

	if value, ok := fields["Tittle"]; ok {
		input.Title = strings.TrimSpace(value)
		input.TitleSet = true
	}
	if value, ok := fields["Deatils"]; ok {
		input.Details = strings.TrimSpace(value)
		input.DetailsSet = true
	}
	if value, ok := fields["image"]; ok {
		images, err := parseImageList(value)
		if err != nil {
			return stableUpdateInput{}, err
		}
		input.Images = images
		input.ImagesSet = true
	}
	if value, ok := fields["Rating"]; ok {
		rating, err := strconv.ParseFloat(strings.Trim(strings.TrimSpace(value), `"`), 64)
		if err != nil {
			return stableUpdateInput{}, errors.New("Rating must be a number")
		}
		input.Rating = rating
		input.RatingSet = true
	}
	if value, ok := fields["PriceRate"]; ok {
		rates, err := parseRateEntries(value)
		if err != nil {
			return stableUpdateInput{}, err
		}
		input.PriceRates = rates
		input.PriceRatesSet = true
	}
	if value, ok := fields["DateSlot"]; ok {
		slots, err := parseSlotEntries(value)
		if err != nil {
			return stableUpdateInput{}, err
		}
		input.DateSlots = slots
		input.DateSlotsSet = true
	}

	return input, nil
}

func parseImageList(value string) ([]string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return []string{}, nil
	}
	if strings.HasPrefix(trimmed, "[") {
		var images []string
		if err := json.Unmarshal([]byte(trimmed), &images); err != nil {
			return nil, errors.New("image must be a list of URLs")
		}
		return images, nil
	}
	return []string{strings.Trim(trimmed, `"`)}, nil
}

func parseRateEntries(value string) ([]models.RateEntry, error) {
	var raw []map[string]interface{}
	if err := json.Unmarshal([]byte(strings.TrimSpace(value)), &raw); err != nil {
		return nil, errors.New("PriceRate must be a list of rate entries")
	}

	entries := make([]models.RateEntry, 0, len(raw))
	for _, item := range raw {
		rate, err := toNumber(item["Rate"])
		if err != nil {
			return nil, errors.New("PriceRate entries need a numeric Rate")
		}
		rateType, _ := item["RateType"].(string)
		entries = append(entries, models.RateEntry{
			Rate:     rate,
			RateType: strings.TrimSpace(rateType),
		})
	}
	return entries, nil
}

func parseSlotEntries(value string) ([]models.SlotEntry, error) {
	var raw []map[string]interface{}
	if err := json.Unmarshal([]byte(strings.TrimSpace(value)), &raw); err != nil {
		return nil, errors.New("DateSlot must be a list of slot entries")
	}

	entries := make([]models.SlotEntry, 0, len(raw))
	for _, item := range raw {
		date, _ := item["Date"].(string)
		start, _ := item["StartTime"].(string)
		end, _ := item["EndTime"].(string)
		if strings.TrimSpace(date) == "" {
			return nil, errors.New("DateSlot entries need a Date")
		}
		entries = append(entries, models.SlotEntry{
			Date:      strings.TrimSpace(date),
			StartTime: strings.TrimSpace(start),
			EndTime:   strings.TrimSpace(end),
		})
	}
	return entries, nil
}

func toNumber(value interface{}) (float64, error) {
	switch typed := value.(type) {
	case float64:
		return typed, nil
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(typed), 64)
		if err != nil {
			return 0, err
		}
		return parsed, nil
	default:
		return 0, fmt.Errorf("cannot coerce %T to number", value)
	}
}

func GetStables(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := bson.M{}
		if owner := strings.TrimSpace(c.Query("userId")); owner != "" {
			ownerID, err := primitive.ObjectIDFromHex(owner)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"message": "invalid userId"})
				return
			}
			filter["userId"] = ownerID
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := db.Collection("stables").Find(ctx, filter, opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "db error"})
			return
		}
		defer cursor.Close(ctx)

		stables := make([]models.Stable, 0)
		if err := cursor.All(ctx, &stables); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "decode error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Stables fetched", "stables": stables})
	}
}

// GetStable returns one listing with the owning account's name and email
// populated alongside it.
func GetStable(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var stable models.Stable
		err = db.Collection("stables").FindOne(ctx, bson.M{"_id": id}).Decode(&stable)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"message": "stable not found"})
			return
		}
		if err != nil {
			log.Println("[STABLE] [ERROR] stable lookup failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "db error"})
			return
		}

		response := stableResponse{Stable: stable}

		var owner models.Account
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": stable.UserID}).Decode(&owner); err == nil {
			response.Owner = &stableOwner{
				Name:  strings.TrimSpace(owner.FirstName + " " + owner.LastName),
				Email: owner.Email,
			}
		}

		c.JSON(http.StatusOK, response)
	}
}

// UpdateStable applies a partial merge: only fields present in the body are
// touched, and the whole body validates before any write happens.
func UpdateStable(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid id"})
			return
		}

		fields, err := parseBody(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid body"})
			return
		}

		input, err := parseStableUpdate(fields)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		if input.empty() {
			c.JSON(http.StatusBadRequest, gin.H{"message": "no fields to update"})
			return
		}

		set := bson.M{"updatedAt": time.Now()}
		if input.TitleSet {
			set["Tittle"] = input.Title
		}
		if input.DetailsSet {
			set["Deatils"] = input.Details
		}
		if input.ImagesSet {
			set["image"] = models.StringList(input.Images)
		}
		if input.RatingSet {
			set["Rating"] = input.Rating
		}
		if input.PriceRatesSet {
			set["PriceRate"] = input.PriceRates
		}
		if input.DateSlotsSet {
			set["DateSlot"] = input.DateSlots
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var updated models.Stable
		err = db.Collection("stables").FindOneAndUpdate(
			ctx,
			bson.M{"_id": id},
			bson.M{"$set": set},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&updated)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"message": "stable not found"})
			return
		}
		if err != nil {
			log.Println("[STABLE] [ERROR] stable update failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "db error"})
			return
		}

		c.JSON(http.StatusOK, updated)
	}
}

func DeleteStable(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("stables").DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			log.Println("[STABLE] [ERROR] stable delete failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "db error"})
			return
		}
		if res.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"message": "stable not found"})
			return
		}

		c.Status(http.StatusNoContent)
	}
}
