package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

func handlePanic(c *gin.Context, route string) {
	if r := recover(); r != nil {
		log.Printf("[%s] panic recovered: %v", route, r)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
	}
}

// parseBody normalizes JSON, form-encoded and multipart bodies into a single
// key -> value map. Non-string JSON values (numbers, booleans, nested arrays)
// are carried as their JSON text so every field goes through the same per-field
// coercion regardless of how the client encoded the request.
func parseBody(c *gin.Context) (map[string]string, error) {
	contentType := c.ContentType()

	switch {
	case strings.HasPrefix(contentType, "multipart/form-data"):
		if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
			return nil, err
		}
		fields := make(map[string]string)
		for key, values := range c.Request.MultipartForm.Value {
			if len(values) > 0 {
				fields[key] = values[len(values)-1]
			}
		}
		return fields, nil

	case contentType == "application/x-www-form-urlencoded":
		if err := c.Request.ParseForm(); err != nil {
			return nil, err
		}
		fields := make(map[string]string)
		for key, values := range c.Request.PostForm {
			if len(values) > 0 {
				fields[key] = values[len(values)-1]
			}
		}
		return fields, nil

	default:
		body, err := c.GetRawData()
		if err != nil {
			return nil, err
		}
		if len(strings.TrimSpace(string(body))) == 0 {
			return map[string]string{}, nil
		}

		var raw map[string]interface{}
		if err := json.Unmarshal(body, &raw); err != nil {
			return nil, err
		}

		fields := make(map[string]string, len(raw))
		for key, value := range raw {
			if s, ok := value.(string); ok {
				fields[key] = s
				continue
			}
			encoded, err := json.Marshal(value)
			if err != nil {
				return nil, err
			}
			fields[key] = string(encoded)
		}
		return fields, nil
	}
}

// numberField coerces a field value to float64, tolerating JSON-quoted numbers
// sent by form clients.
func numberField(value, name string) (float64, error) {
	trimmed := strings.Trim(strings.TrimSpace(value), `"`)
	parsed, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number", name)
	}
	return parsed, nil
}

func requireFields(fields map[string]string, names ...string) error {
	for _, name := range names {
		if strings.TrimSpace(fields[name]) == "" {
			return errors.New(name + " is required")
		}
	}
	return nil
}

func respondValidationError(c *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		details := make([]string, 0, len(validationErrors))
		for _, fieldError := range validationErrors {
			field := lowerCamel(fieldError.Field())
			switch fieldError.Tag() {
			case "required":
				details = append(details, fmt.Sprintf("%s is required", field))
			default:
				details = append(details, fmt.Sprintf("%s is invalid", field))
			}
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "validation failed",
			"details": details,
		})
		return
	}

	c.JSON(http.StatusBadRequest, gin.H{"message": "invalid body"})
}

func lowerCamel(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}
