package types

import (
	"encoding/json"

	"github.com/memovault/memovault/internal/models"
)

type UserResponse struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Token string `json:"token,omitempty"`
}

type TagResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type ContentResponse struct {
	ID          uint          `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Links       []string      `json:"links"`
	Tags        []TagResponse `json:"tags"`
	OwnerID     uint          `json:"owner_id"`
}

func NewContentResponse(content models.Content) ContentResponse {
	links := []string{}

	if len(content.Links) > 0 {
		// The column is written from a []string, so a decode failure here
		// means a corrupted row; surface it as an empty list.
		_ = json.Unmarshal(content.Links, &links)
	}

	tags := make([]TagResponse, 0, len(content.Tags))

	for _, tag := range content.Tags {
		tags = append(tags, TagResponse{ID: tag.ID, Name: tag.Name})
	}

	return ContentResponse{
		ID:          content.ID,
		Title:       content.Title,
		Description: content.Description,
		Links:       links,
		Tags:        tags,
		OwnerID:     content.OwnerID,
	}
}

func NewContentResponses(contents []models.Content) []ContentResponse {
	responses := make([]ContentResponse, 0, len(contents))

	for _, content := range contents {
		responses = append(responses, NewContentResponse(content))
	}

	return responses
}
