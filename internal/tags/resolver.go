package tags

import (
	"errors"
	"strings"

	"github.com/memovault/memovault/internal/models"
	"gorm.io/gorm"
)

// Resolver maps free-text tag names to persisted tags, creating missing tags
// on demand. Tags are scoped per owner; two owners using the same name get
// two tag rows.
type Resolver struct {
	DB *gorm.DB
}

func NewResolver(conn *gorm.DB) *Resolver {
	return &Resolver{DB: conn}
}

// Resolve returns one tag per distinct name, in first-appearance order.
// Blank names are skipped. Resolution is idempotent: an existing tag is
// reused, a missing one is created and attributed to ownerID. A create that
// loses a concurrent race on the (owner, name) unique index falls back to
// re-reading and returns the winner's row.
func (r *Resolver) Resolve(ownerID uint, names []string) ([]models.Tag, error) {
	resolved := make([]models.Tag, 0, len(names))
	seen := make(map[string]bool, len(names))

	for _, name := range names {
		name = strings.TrimSpace(name)

		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		tag, err := r.resolveOne(ownerID, name)

		if err != nil {
			return nil, err
		}

		resolved = append(resolved, tag)
	}

	return resolved, nil
}

func (r *Resolver) resolveOne(ownerID uint, name string) (models.Tag, error) {
	var tag models.Tag

	err := r.DB.Where("owner_id = ? AND name = ?", ownerID, name).First(&tag).Error

	if err == nil {
		return tag, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Tag{}, err
	}

	tag = models.Tag{Name: name, OwnerID: ownerID}

	createErr := r.DB.Create(&tag).Error

	if createErr == nil {
		return tag, nil
	}

	// The unique index is authoritative: a lost race means another request
	// created the tag between our read and write, so return the winner.
	var winner models.Tag

	if err := r.DB.Where("owner_id = ? AND name = ?", ownerID, name).First(&winner).Error; err != nil {
		return models.Tag{}, createErr
	}

	return winner, nil
}
