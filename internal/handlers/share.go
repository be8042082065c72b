package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/memovault/memovault/internal/apperrors"
	"github.com/memovault/memovault/internal/models"
	"github.com/memovault/memovault/internal/sharing"
	"github.com/memovault/memovault/internal/types"
	"github.com/memovault/memovault/internal/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CreateShareRequest struct {
	ContentID  *uint  `json:"contentId"`
	AccessType string `json:"accessType" binding:"required"`
}

type RevokeShareRequest struct {
	SharedLinkID *uint  `json:"sharedLinkId"`
	Type         string `json:"type" binding:"required"`
}

type ShareHandler struct {
	Logger   *zap.Logger
	Registry *sharing.Registry
	Resolver *sharing.Resolver
}

func NewShareHandler(conn *gorm.DB, logger *zap.Logger) *ShareHandler {
	return &ShareHandler{
		Logger:   logger,
		Registry: sharing.NewRegistry(conn),
		Resolver: sharing.NewResolver(conn),
	}
}

func (h *ShareHandler) Create(ctx *gin.Context) {
	var body CreateShareRequest

	if !bindJSON(ctx, &body) {
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		respondError(ctx, h.Logger, apperrors.ErrUnauthorized.WithMessage("User not authenticated"))
		return
	}

	token, err := h.Registry.Issue(userID, body.AccessType, body.ContentID)

	if err != nil {
		respondError(ctx, h.Logger, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"sharedLink": token})
}

// GetShared serves unauthenticated reads through a share token. The
// authenticated CRUD surface never passes through here.
func (h *ShareHandler) GetShared(ctx *gin.Context) {
	resolution, err := h.Resolver.Resolve(ctx.Param("token"))

	if err != nil {
		respondError(ctx, h.Logger, err)
		return
	}

	if resolution.Scope == models.ScopeSingle {
		ctx.JSON(http.StatusOK, gin.H{"content": types.NewContentResponse(resolution.Contents[0])})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"content": types.NewContentResponses(resolution.Contents)})
}

func (h *ShareHandler) Revoke(ctx *gin.Context) {
	var body RevokeShareRequest

	if !bindJSON(ctx, &body) {
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		respondError(ctx, h.Logger, apperrors.ErrUnauthorized.WithMessage("User not authenticated"))
		return
	}

	if err := h.Registry.Revoke(userID, body.Type, body.SharedLinkID); err != nil {
		respondError(ctx, h.Logger, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Link revoked"})
}
