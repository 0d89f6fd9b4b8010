package models

// AuditLog records mutating budget operations for traceability. This is the
// operational audit trail of the API surface; the budget's own change
// history lives in HistoryEntry and is owned by the store.
type AuditLog struct {
	Base
	OrgID        string `gorm:"type:uuid;not null;index" json:"org_id"`
	UserID       string `gorm:"type:uuid;not null;index" json:"user_id"`
	Action       string `gorm:"not null" json:"action"`
	ResourceType string `gorm:"not null" json:"resource_type"`
	ResourceID   string `gorm:"type:uuid" json:"resource_id"`
	IPAddress    string `json:"ip_address"`
	Changes      string `json:"changes,omitempty"`
}
