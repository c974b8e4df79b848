package models

import "gorm.io/gorm"

// Vendor is a supplier organization. It is the unit of access partition:
// a supplier user only ever sees SCARs issued against their own vendor.
type Vendor struct {
	gorm.Model
	Name    string `json:"name" gorm:"unique;not null" binding:"required"`
	Address string `json:"address"`
	Phone   string `json:"phone"`

	Contacts []Contact `gorm:"foreignKey:VendorID" json:"contacts,omitempty"`
	Scars    []Scar    `gorm:"foreignKey:VendorID" json:"scars,omitempty"`
}
