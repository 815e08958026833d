package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"equimarket/internal/models"
)

type RegisterRequest struct {
	FirstName   string `json:"firstName" binding:"required"`
	LastName    string `json:"lastName" binding:"required"`
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	Kind        string `json:"kind"`
	Phone       string `json:"phone"`
	CompanyName string `json:"companyName"`
	BrandImage  string `json:"brandImage"`
	CompanyInfo string `json:"companyInfo"`
}

var errMissingSecret = errors.New("signing secret is not configured")

// Register creates an account. Email is stored lowercased and trimmed so login
// lookups are case-insensitive.
func Register(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))
		if email == "" || strings.TrimSpace(req.Password) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "email and password are required"})
			return
		}

		kind := strings.TrimSpace(req.Kind)
		if kind == "" {
			kind = models.KindBuyer
		}
		if !models.ValidKind(kind) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid account kind"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		count, err := db.Collection("users").CountDocuments(ctx, bson.M{"email": email})
		if err != nil {
			log.Println("[AUTH] [ERROR] register db error:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "db error"})
			return
		}
		if count > 0 {
			c.JSON(http.StatusConflict, gin.H{"message": "email already registered"})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Println("[AUTH] [ERROR] register password hash failed")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "password hash failed"})
			return
		}

		now := time.Now()
		account := models.Account{
			Email:        email,
			PasswordHash: string(hash),
			FirstName:    strings.TrimSpace(req.FirstName),
			LastName:     strings.TrimSpace(req.LastName),
			Kind:         kind,
			Phone:        strings.TrimSpace(req.Phone),
			CompanyName:  strings.TrimSpace(req.CompanyName),
			BrandImage:   strings.TrimSpace(req.BrandImage),
			CompanyInfo:  strings.TrimSpace(req.CompanyInfo),
			Payments:     []models.PaymentRecord{},
			Status:       "active",
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		res, err := db.Collection("users").InsertOne(ctx, account)
		if err != nil {
			log.Println("[AUTH] [ERROR] register insert failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "db error"})
			return
		}

		account.ID, _ = res.InsertedID.(primitive.ObjectID)
		log.Println("[AUTH] [INFO] account registered:", email)
		c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully", "user": account})
	}
}

// Login verifies credentials and issues a 7-day token. Unknown email and wrong
// password are reported with distinct messages, matching the existing clients.
func Login(db *mongo.Database, jwtSecret string, tokenTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		fields, err := parseBody(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid body"})
			return
		}

		email := strings.ToLower(strings.TrimSpace(fields["email"]))
		password := fields["password"]
		if email == "" || strings.TrimSpace(password) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "email and password are required"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var account models.Account
		err = db.Collection("users").FindOne(ctx, bson.M{"email": email}).Decode(&account)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid email or password"})
			return
		}
		if err != nil {
			log.Println("[AUTH] [ERROR] login lookup failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "db error"})
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Incorrect password"})
			return
		}

		token, err := issueAccountToken(account, jwtSecret, tokenTTL)
		if err != nil {
			log.Println("[AUTH] [ERROR] login token issuance failed:", err)
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		log.Println("[AUTH] [INFO] login succeeded:", email)
		c.JSON(http.StatusOK, gin.H{"message": "Login successful", "token": token})
	}
}

// issueAccountToken signs a snapshot of the account's public fields. The
// password hash is never part of the claims.
func issueAccountToken(account models.Account, secret string, ttl time.Duration) (string, error) {
	if strings.TrimSpace(secret) == "" {
		return "", errMissingSecret
	}

	claims := jwt.MapClaims{
		"id":          account.ID.Hex(),
		"firstName":   account.FirstName,
		"lastName":    account.LastName,
		"email":       account.Email,
		"kind":        account.Kind,
		"phone":       account.Phone,
		"companyName": account.CompanyName,
		"brandImage":  account.BrandImage,
		"companyInfo": account.CompanyInfo,
		"exp":         time.Now().Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
