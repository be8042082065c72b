package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/memovault/memovault/internal/apperrors"
	"github.com/memovault/memovault/internal/auth"
	"github.com/memovault/memovault/internal/models"
	"github.com/memovault/memovault/internal/types"
	"gorm.io/gorm"
)

type AuthenticatedUser struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
}

func AuthMiddleware(conn *gorm.DB) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")

		if authHeader == "" {
			abortUnauthorized(ctx, "Authorization token is required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)

		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthorized(ctx, "Authorization header format must be Bearer {token}")
			return
		}

		userID, err := auth.VerifySessionToken(parts[1])

		if err != nil {
			abortUnauthorized(ctx, "Invalid or expired token")
			return
		}

		var user models.User

		if err := conn.Where("id = ?", userID).First(&user).Error; err != nil {
			abortUnauthorized(ctx, "User not found")
			return
		}

		ctx.Set(types.ContextUserKey, AuthenticatedUser{
			ID:    user.ID,
			Email: user.Email,
		})
		ctx.Next()
	}
}

func abortUnauthorized(ctx *gin.Context, message string) {
	ctx.AbortWithStatusJSON(http.StatusUnauthorized, apperrors.Error{
		Code:    apperrors.ErrUnauthorized.Code,
		Message: message,
	})
}
