package models

import "gorm.io/gorm"

// Tag names are unique per owner, never globally. Tags are created lazily
// the first time an owner references a name and are never updated or deleted.
type Tag struct {
	gorm.Model

	Name    string `gorm:"not null;uniqueIndex:idx_owner_tag_name"`
	OwnerID uint   `gorm:"not null;uniqueIndex:idx_owner_tag_name"`

	// Relationships
	Owner User `gorm:"foreignKey:OwnerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
