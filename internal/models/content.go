package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Content struct {
	gorm.Model

	Title       string `gorm:"not null"`
	Description string
	Links       datatypes.JSON `gorm:"type:jsonb"` // ordered []string of URLs
	OwnerID     uint           `gorm:"not null;index"`

	// Relationships
	Owner User  `gorm:"foreignKey:OwnerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Tags  []Tag `gorm:"many2many:content_tags"`
}
