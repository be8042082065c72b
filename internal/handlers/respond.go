package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/memovault/memovault/internal/apperrors"
	"go.uber.org/zap"
)

// FieldError points at the request field that failed validation.
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// respondError writes the taxonomy error wrapped in err. Anything
// unclassified is logged and reported as an opaque internal error.
func respondError(ctx *gin.Context, logger *zap.Logger, err error) {
	appErr := apperrors.From(err)

	if appErr == apperrors.ErrInternal {
		logger.Error("request failed",
			zap.String("path", ctx.FullPath()),
			zap.Error(err))
	}

	ctx.JSON(appErr.Status, appErr)
}

// bindJSON binds the request body into obj, reporting validation failures
// with the field paths that failed. Returns false when a response has
// already been written.
func bindJSON(ctx *gin.Context, obj interface{}) bool {
	err := ctx.ShouldBindJSON(obj)

	if err == nil {
		return true
	}

	var validationErrors validator.ValidationErrors

	if errors.As(err, &validationErrors) {
		fields := make([]FieldError, 0, len(validationErrors))

		for _, fieldErr := range validationErrors {
			fields = append(fields, FieldError{
				Path:    strings.ToLower(fieldErr.Field()),
				Message: validationMessage(fieldErr),
			})
		}

		ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    apperrors.ErrValidation.Code,
			"message": "Invalid request",
			"errors":  fields,
		})
		return false
	}

	ctx.JSON(http.StatusBadRequest, apperrors.ErrValidation)
	return false
}

func validationMessage(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fieldErr.Param())
	case "url":
		return "must be a valid URL"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fieldErr.Param())
	default:
		return "is invalid"
	}
}
