package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var AppEnv Config

type Config struct {
	MongoURI        string
	DBName          string
	JWTSecret       string
	TokenTTL        time.Duration
	GeocodeBaseURL  string
	GeocodeCacheTTL time.Duration
}

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded:", err)
	}
	AppEnv = Config{
		MongoURI:        getEnvOrDefault("MONGO_URI", "mongodb://localhost:27017"),
		DBName:          getEnvOrDefault("DB_NAME", "equimarket"),
		JWTSecret:       getEnvOrDefault("JWT_SECRET", ""),
		TokenTTL:        getDurationEnv("TOKEN_TTL_DAYS", 7, 24*time.Hour),
		GeocodeBaseURL:  getEnvOrDefault("GEOCODE_BASE_URL", "https://nominatim.openstreetmap.org/search"),
		GeocodeCacheTTL: getDurationEnv("GEOCODE_CACHE_TTL_MINUTES", 5, time.Minute),
	}
	if AppEnv.JWTSecret == "" {
		log.Println("JWT_SECRET is not set; token issuance will fail until it is configured")
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue int, unit time.Duration) time.Duration {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return time.Duration(parsed) * unit
		}
	}
	return time.Duration(defaultValue) * unit
}
