package models

import "time"

// User represents a back-office user. Users belong to exactly one
// organization; every budget operation is scoped by that organization and
// attributed to the acting user.
type User struct {
	Base
	OrgID       string     `gorm:"type:uuid;not null;index" json:"org_id"`
	Email       string     `gorm:"uniqueIndex;not null" json:"email"`
	Password    string     `gorm:"not null" json:"-"`
	DisplayName string     `json:"display_name"`
	IsActive    bool       `gorm:"default:true" json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}
