package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/memovault/memovault/internal/apperrors"
	"github.com/memovault/memovault/internal/auth"
	"github.com/memovault/memovault/internal/models"
	"github.com/memovault/memovault/internal/types"
	"github.com/memovault/memovault/internal/utils"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type SignupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type SigninRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type AuthHandler struct {
	DB     *gorm.DB
	Logger *zap.Logger
}

func NewAuthHandler(conn *gorm.DB, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{DB: conn, Logger: logger}
}

func (h *AuthHandler) Signup(ctx *gin.Context) {
	var body SignupRequest

	if !bindJSON(ctx, &body) {
		return
	}

	email := strings.ToLower(strings.TrimSpace(body.Email))

	var existing models.User

	err := h.DB.Where("email = ?", email).First(&existing).Error

	if err == nil {
		respondError(ctx, h.Logger, apperrors.ErrConflict.WithMessage("Email already exists"))
		return
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		respondError(ctx, h.Logger, err)
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)

	if err != nil {
		respondError(ctx, h.Logger, err)
		return
	}

	user := models.User{
		Email:        email,
		PasswordHash: string(passwordHash),
	}

	if err := h.DB.Create(&user).Error; err != nil {
		respondError(ctx, h.Logger, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"user": types.UserResponse{
			ID:    user.ID,
			Email: user.Email,
		},
	})
}

func (h *AuthHandler) Signin(ctx *gin.Context) {
	var body SigninRequest

	if !bindJSON(ctx, &body) {
		return
	}

	email := strings.ToLower(strings.TrimSpace(body.Email))

	var user models.User

	err := h.DB.Where("email = ?", email).First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(ctx, h.Logger, apperrors.ErrNotFound.WithMessage("User not found"))
			return
		}
		respondError(ctx, h.Logger, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
		respondError(ctx, h.Logger, apperrors.ErrValidation.WithMessage("Invalid email or password"))
		return
	}

	token, err := auth.GenerateSessionToken(user.ID, user.Email)

	if err != nil {
		respondError(ctx, h.Logger, err)
		return
	}

	// Each signin replaces the previous session token on the user row.
	if err := h.DB.Model(&user).Update("token", token).Error; err != nil {
		respondError(ctx, h.Logger, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"user": types.UserResponse{
			ID:    user.ID,
			Email: user.Email,
			Token: token,
		},
	})
}

func (h *AuthHandler) Me(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		respondError(ctx, h.Logger, apperrors.ErrUnauthorized.WithMessage("User not authenticated"))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"user": types.UserResponse{
			ID:    currentUser.ID,
			Email: currentUser.Email,
		},
	})
}
