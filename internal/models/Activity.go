package models

import "time"

// Activity log actions.
const (
	ActionCreated   = "created"
	ActionUpdated   = "updated"
	ActionSubmitted = "submitted"
	ActionClosed    = "closed"
	ActionReturned  = "returned"
)

// Activity is one append-only audit trail entry. There is deliberately no
// gorm.Model here: entries are never updated or soft-deleted.
type Activity struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ScarID    uint      `gorm:"index;not null" json:"scar_id"`
	UserID    uint      `gorm:"index" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Action    string    `gorm:"not null" json:"action"`
	Details   string    `json:"details"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
