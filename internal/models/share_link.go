package models

import "gorm.io/gorm"

// Share scopes. A single-scope link exposes one content item, an all-scope
// link exposes the owner's entire collection, resolved live at lookup time.
const (
	ScopeSingle = "single"
	ScopeAll    = "all"
)

// ShareLink is a capability token granting unauthenticated read access.
// Presence of the row is the active state; revocation is a hard delete.
type ShareLink struct {
	gorm.Model

	OwnerID   uint   `gorm:"not null;index"`
	Scope     string `gorm:"not null"`
	ContentID *uint  `gorm:"index"` // set iff Scope == ScopeSingle
	Token     string `gorm:"uniqueIndex;not null"`

	// Relationships
	Owner   User     `gorm:"foreignKey:OwnerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Content *Content `gorm:"foreignKey:ContentID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
}
