package models

import "gorm.io/gorm"

type Contact struct {
	gorm.Model
	VendorID  uint   `json:"vendor_id" gorm:"index;not null"`
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone"`
	IsPrimary bool   `json:"is_primary" gorm:"default:false"`
}
