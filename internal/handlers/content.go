package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/memovault/memovault/internal/apperrors"
	"github.com/memovault/memovault/internal/models"
	"github.com/memovault/memovault/internal/tags"
	"github.com/memovault/memovault/internal/types"
	"github.com/memovault/memovault/internal/utils"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CreateContentRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Links       []string `json:"links" binding:"omitempty,dive,url"`
	Tags        []string `json:"tags"`
}

type UpdateContentRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Links       []string `json:"links" binding:"omitempty,dive,url"`
	Tags        []string `json:"tags"`
}

type DeleteContentRequest struct {
	ContentID *uint  `json:"contentId"`
	Type      string `json:"type" binding:"required,oneof=single all"`
}

type ContentHandler struct {
	DB     *gorm.DB
	Logger *zap.Logger
	Tags   *tags.Resolver
}

func NewContentHandler(conn *gorm.DB, logger *zap.Logger) *ContentHandler {
	return &ContentHandler{
		DB:     conn,
		Logger: logger,
		Tags:   tags.NewResolver(conn),
	}
}

func (h *ContentHandler) Create(ctx *gin.Context) {
	var body CreateContentRequest

	if !bindJSON(ctx, &body) {
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		respondError(ctx, h.Logger, apperrors.ErrUnauthorized.WithMessage("User not authenticated"))
		return
	}

	// Tag resolution completes before the content row is written, so a
	// created item's tag set is never partially populated.
	resolvedTags, err := h.Tags.Resolve(userID, body.Tags)

	if err != nil {
		respondError(ctx, h.Logger, err)
		return
	}

	links, err := encodeLinks(body.Links)

	if err != nil {
		respondError(ctx, h.Logger, err)
		return
	}

	content := models.Content{
		Title:       body.Title,
		Description: body.Description,
		Links:       links,
		OwnerID:     userID,
		Tags:        resolvedTags,
	}

	if err := h.DB.Create(&content).Error; err != nil {
		respondError(ctx, h.Logger, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"content": types.NewContentResponse(content)})
}

func (h *ContentHandler) List(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		respondError(ctx, h.Logger, apperrors.ErrUnauthorized.WithMessage("User not authenticated"))
		return
	}

	var contents []models.Content

	if err := h.DB.Preload("Tags").Where("owner_id = ?", userID).Find(&contents).Error; err != nil {
		respondError(ctx, h.Logger, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"content": types.NewContentResponses(contents)})
}

func (h *ContentHandler) Get(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		respondError(ctx, h.Logger, apperrors.ErrUnauthorized.WithMessage("User not authenticated"))
		return
	}

	var content models.Content

	err = h.DB.Preload("Tags").
		Where("id = ? AND owner_id = ?", ctx.Param("id"), userID).
		First(&content).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(ctx, h.Logger, apperrors.ErrContentNotFound)
			return
		}
		respondError(ctx, h.Logger, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"content": types.NewContentResponse(content)})
}

func (h *ContentHandler) Update(ctx *gin.Context) {
	var body UpdateContentRequest

	if !bindJSON(ctx, &body) {
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		respondError(ctx, h.Logger, apperrors.ErrUnauthorized.WithMessage("User not authenticated"))
		return
	}

	var content models.Content

	err = h.DB.Where("id = ? AND owner_id = ?", ctx.Param("id"), userID).First(&content).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(ctx, h.Logger, apperrors.ErrContentNotFound)
			return
		}
		respondError(ctx, h.Logger, err)
		return
	}

	if body.Title != "" {
		content.Title = body.Title
	}

	if body.Description != "" {
		content.Description = body.Description
	}

	if body.Links != nil {
		links, err := encodeLinks(body.Links)

		if err != nil {
			respondError(ctx, h.Logger, err)
			return
		}

		content.Links = links
	}

	if err := h.DB.Save(&content).Error; err != nil {
		respondError(ctx, h.Logger, err)
		return
	}

	// Tags are append-only on update: names already on the item stay, new
	// names are resolved and added, nothing is ever removed here.
	if len(body.Tags) > 0 {
		resolvedTags, err := h.Tags.Resolve(userID, body.Tags)

		if err != nil {
			respondError(ctx, h.Logger, err)
			return
		}

		if err := h.DB.Model(&content).Association("Tags").Append(resolvedTags); err != nil {
			respondError(ctx, h.Logger, err)
			return
		}
	}

	var updated models.Content

	if err := h.DB.Preload("Tags").First(&updated, content.ID).Error; err != nil {
		respondError(ctx, h.Logger, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"content": types.NewContentResponse(updated)})
}

func (h *ContentHandler) Delete(ctx *gin.Context) {
	var body DeleteContentRequest

	if !bindJSON(ctx, &body) {
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		respondError(ctx, h.Logger, apperrors.ErrUnauthorized.WithMessage("User not authenticated"))
		return
	}

	query := h.DB.Where("owner_id = ?", userID)

	if body.Type == models.ScopeSingle {
		if body.ContentID == nil {
			respondError(ctx, h.Logger, apperrors.ErrValidation.WithMessage("contentId is required"))
			return
		}

		var content models.Content

		err := h.DB.Where("id = ? AND owner_id = ?", *body.ContentID, userID).First(&content).Error

		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				respondError(ctx, h.Logger, apperrors.ErrContentNotFound)
				return
			}
			respondError(ctx, h.Logger, err)
			return
		}

		query = query.Where("id = ?", *body.ContentID)
	}

	result := query.Delete(&models.Content{})

	if result.Error != nil {
		respondError(ctx, h.Logger, result.Error)
		return
	}

	if result.RowsAffected == 0 {
		respondError(ctx, h.Logger, apperrors.ErrValidation.WithMessage("Nothing to delete"))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"deleted": result.RowsAffected})
}

func encodeLinks(links []string) (datatypes.JSON, error) {
	if links == nil {
		links = []string{}
	}

	encoded, err := json.Marshal(links)

	if err != nil {
		return nil, err
	}

	return datatypes.JSON(encoded), nil
}
