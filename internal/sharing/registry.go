package sharing

import (
	"errors"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/memovault/memovault/internal/apperrors"
	"github.com/memovault/memovault/internal/models"
	"gorm.io/gorm"
)

const tokenLength = 21

// Registry issues and revokes share links. Tokens are cryptographically
// random nanoids backed by a unique index; a colliding insert fails instead
// of overwriting an existing link.
type Registry struct {
	DB *gorm.DB
}

func NewRegistry(conn *gorm.DB) *Registry {
	return &Registry{DB: conn}
}

// Issue creates a share link owned by ownerID and returns its token.
// Single-scope links require contentID and verify the content is owned by
// the caller at creation time. All-scope links carry no content binding and
// are resolved against the owner's live collection at lookup time.
func (r *Registry) Issue(ownerID uint, scope string, contentID *uint) (string, error) {
	link := models.ShareLink{OwnerID: ownerID, Scope: scope}

	switch scope {
	case models.ScopeSingle:
		if contentID == nil {
			return "", apperrors.ErrValidation
		}

		var content models.Content

		if err := r.DB.Where("id = ? AND owner_id = ?", *contentID, ownerID).First(&content).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", apperrors.ErrContentNotFound
			}
			return "", err
		}

		link.ContentID = contentID
	case models.ScopeAll:
	default:
		return "", apperrors.ErrInvalidScope
	}

	token, err := gonanoid.New(tokenLength)

	if err != nil {
		return "", err
	}

	link.Token = token

	if err := r.DB.Create(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", apperrors.ErrConflict
		}
		return "", err
	}

	return token, nil
}

// Revoke hard-deletes one link by id, or every link owned by the caller.
func (r *Registry) Revoke(ownerID uint, scope string, linkID *uint) error {
	switch scope {
	case models.ScopeSingle:
		if linkID == nil {
			return apperrors.ErrValidation
		}

		var link models.ShareLink

		if err := r.DB.First(&link, *linkID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrLinkNotFound
			}
			return err
		}

		if link.OwnerID != ownerID {
			return apperrors.ErrUnauthorized
		}

		// Revocation is a hard delete: no soft-disable state exists for the
		// resolution path to consult.
		result := r.DB.Unscoped().Delete(&link)

		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			return apperrors.ErrNothingToRevoke
		}

		return nil
	case models.ScopeAll:
		result := r.DB.Unscoped().Where("owner_id = ?", ownerID).Delete(&models.ShareLink{})

		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			return apperrors.ErrNothingToRevoke
		}

		return nil
	default:
		return apperrors.ErrInvalidScope
	}
}
