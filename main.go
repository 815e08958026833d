package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"equimarket/internal/config"
	"equimarket/internal/database"
	"equimarket/internal/handlers"
	"equimarket/internal/limiter"
	"equimarket/internal/middleware"
)

func main() {
	config.Load()

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(config.AppEnv.DBName)
	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureAccountIndexes(db); err != nil {
		log.Printf("account index warning: %v", err)
	}
	if err := database.EnsureStableIndexes(db); err != nil {
		log.Printf("stable index warning: %v", err)
	}
	if err := database.EnsureBookingIndexes(db); err != nil {
		log.Printf("booking index warning: %v", err)
	}

	geocodeLimiter := limiter.NewFixed(10, time.Minute)
	geocodeCache := handlers.NewGeocodeCache(config.AppEnv.GeocodeCacheTTL)
	geocodeClient := &http.Client{Timeout: 10 * time.Second}

	r := gin.Default()

	api := r.Group("/api")
	{
		api.POST("/register", handlers.Register(db))
		api.POST("/login", handlers.Login(db, config.AppEnv.JWTSecret, config.AppEnv.TokenTTL))

		api.GET("/stables", handlers.GetStables(db))
		api.GET("/stables/:id", handlers.GetStable(db))
		api.PUT("/stables/:id", handlers.UpdateStable(db))
		api.DELETE("/stables/:id", handlers.DeleteStable(db))

		api.GET("/trainers", handlers.GetTrainers(db))
		api.GET("/trainers/:id", handlers.GetTrainer(db))
		api.PUT("/trainers/:id", handlers.UpdateTrainer(db))
		api.DELETE("/trainers/:id", handlers.DeleteTrainer(db))

		api.GET("/subscriptions", handlers.GetSubscriptions(db))
		api.POST("/subscriptions", handlers.CreateSubscription(db))

		api.POST("/users/payments", handlers.AppendPayment(db))

		api.GET("/geocode", handlers.Geocode(
			geocodeLimiter,
			geocodeCache,
			config.AppEnv.GeocodeBaseURL,
			geocodeClient,
		))

		authed := api.Group("")
		authed.Use(middleware.Auth(config.AppEnv.JWTSecret))
		{
			authed.GET("/users/me", handlers.GetMe(db))
			authed.PUT("/users/me", handlers.UpdateMe(db))
			authed.POST("/bookings", handlers.CreateBooking(db))
			authed.GET("/bookings", handlers.GetBookings(db))
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r.Run(":" + port)
}
