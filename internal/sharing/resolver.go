package sharing

import (
	"errors"

	"github.com/memovault/memovault/internal/apperrors"
	"github.com/memovault/memovault/internal/models"
	"gorm.io/gorm"
)

// Resolution is the outcome of resolving a share token: the content the
// token exposes, with tag references expanded to full tag rows.
type Resolution struct {
	Scope    string
	Contents []models.Content
}

// Resolver decides what an unauthenticated caller presenting a share token
// may read. It is fully independent of the authenticated CRUD path: owners
// reading their own content never pass through here.
type Resolver struct {
	DB *gorm.DB
}

func NewResolver(conn *gorm.DB) *Resolver {
	return &Resolver{DB: conn}
}

// Resolve looks up token and returns the content set it grants access to.
//
// A single-scope link whose content has been deleted resolves to
// ErrContentNotFound; the stale link row is left in place, not auto-revoked.
// An all-scope link over an empty collection also resolves to
// ErrContentNotFound rather than an empty success.
func (r *Resolver) Resolve(token string) (*Resolution, error) {
	var link models.ShareLink

	if err := r.DB.Where("token = ?", token).First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrLinkNotFound
		}
		return nil, err
	}

	resolution := Resolution{Scope: link.Scope}

	switch link.Scope {
	case models.ScopeSingle:
		if link.ContentID == nil {
			return nil, apperrors.ErrContentNotFound
		}

		var content models.Content

		if err := r.DB.Preload("Tags").First(&content, *link.ContentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrContentNotFound
			}
			return nil, err
		}

		resolution.Contents = []models.Content{content}
	case models.ScopeAll:
		var contents []models.Content

		if err := r.DB.Preload("Tags").Where("owner_id = ?", link.OwnerID).Find(&contents).Error; err != nil {
			return nil, err
		}

		if len(contents) == 0 {
			return nil, apperrors.ErrContentNotFound
		}

		resolution.Contents = contents
	default:
		return nil, apperrors.ErrInvalidAccessType
	}

	return &resolution, nil
}
