package models

import "gorm.io/gorm"

// Approval lifecycle for self-registered accounts.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

const (
	RoleAdmin    = "admin"
	RoleSupplier = "supplier"
)

type User struct {
	gorm.Model
	Name     string `json:"name"`
	Email    string `json:"email" gorm:"unique"`
	Password string `json:"-"`
	Role     string `json:"role"`   // "admin" or "supplier"
	Status   string `json:"status"` // "pending", "approved", "rejected"

	// Suppliers belong to exactly one vendor; admins have none.
	VendorID *uint   `json:"vendor_id,omitempty"`
	Vendor   *Vendor `gorm:"foreignKey:VendorID" json:"vendor,omitempty"`
}
