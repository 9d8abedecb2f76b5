package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/paulare17/Sprint8-sub000/internal/domain/model"
)

// ValidationError リクエストのフィールド単位のエラー
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// errorStatus ドメインエラーをHTTPステータスとエラーコードに変換
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, model.ErrInvalidPostalCode):
		return http.StatusBadRequest, "invalid_postal_code"
	case errors.Is(err, model.ErrInvalidInput):
		return http.StatusBadRequest, "invalid_request"
	case errors.Is(err, model.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, model.ErrNotListMember):
		return http.StatusForbidden, "not_list_member"
	case errors.Is(err, model.ErrPostalCodeNotFound):
		return http.StatusNotFound, "postal_code_not_found"
	case errors.Is(err, model.ErrListNotFound):
		return http.StatusNotFound, "list_not_found"
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, model.ErrGeocodingUnavailable):
		return http.StatusBadGateway, "geocoding_unavailable"
	case errors.Is(err, model.ErrMissingAPIKey):
		return http.StatusInternalServerError, "configuration_error"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func respondError(c *gin.Context, err error) {
	status, code := errorStatus(err)
	c.JSON(status, gin.H{
		"success": false,
		"error":   code,
		"message": err.Error(),
	})
}

func respondBadRequest(c *gin.Context, code, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error":   code,
		"message": message,
	})
}

// respondBindError ShouldBindJSON の失敗を 400 で返す
func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		respondBadRequest(c, "invalid_request", "Invalid JSON format: "+err.Error())
		return
	}

	details := make([]ValidationError, 0, len(verrs))
	code := "validation_error"
	for _, fe := range verrs {
		if fe.Tag() == postalCodeTag {
			code = "invalid_postal_code"
		}
		details = append(details, ValidationError{
			Field:   fe.Field(),
			Message: validationMessage(fe),
		})
	}
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error":   code,
		"message": "Request validation failed",
		"details": details,
	})
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case postalCodeTag:
		return fe.Field() + " must be 5 digits"
	case "email":
		return fe.Field() + " must be a valid email"
	case "min", "max":
		return fe.Field() + " is out of range"
	case "oneof":
		return fe.Field() + " must be one of: " + fe.Param()
	default:
		return fe.Field() + " is invalid"
	}
}
