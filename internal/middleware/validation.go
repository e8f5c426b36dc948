package middleware

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

var camelBoundary = regexp.MustCompile("([a-z0-9])([A-Z])")

// ValidationError describes one rejected request field. RejectedValue is the
// value the caller sent, stringified, so rejections are reproducible from
// the response alone.
type ValidationError struct {
	Field         string `json:"field"`
	RejectedValue string `json:"rejected_value"`
	Message       string `json:"message"`
}

func ValidateRequest(obj any) []ValidationError {
	var validationErrors []ValidationError

	err := validate.Struct(obj)
	if err == nil {
		return nil
	}

	for _, err := range err.(validator.ValidationErrors) {
		validationErrors = append(validationErrors, ValidationError{
			Field:         toSnakeCase(err.Field()),
			RejectedValue: fmt.Sprintf("%v", err.Value()),
			Message:       getErrorMsg(err),
		})
	}

	return validationErrors
}

func getErrorMsg(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "This field is required"
	case "min":
		return "Value is below the minimum of " + err.Param()
	case "max":
		return "Value is above the maximum of " + err.Param()
	case "len":
		return "Value must be exactly " + err.Param() + " characters"
	case "gt":
		return "Value must be greater than " + err.Param()
	case "gte":
		return "Value must be greater than or equal to " + err.Param()
	case "numeric":
		return "Value must be numeric"
	default:
		return "Invalid value"
	}
}

func toSnakeCase(camelCase string) string {
	return strings.ToLower(camelBoundary.ReplaceAllString(camelCase, "${1}_${2}"))
}

// RespondWithValidationError reports field-shape rejections under the shared
// 999 code before the request ever reaches the services.
func RespondWithValidationError(c *gin.Context, validationErrors []ValidationError) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error_code":     "VALIDATION_FAILED",
		"status":         999,
		"error_messages": validationErrors,
	})
}
