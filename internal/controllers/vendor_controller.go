package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"scar_tracker/internal/apperrors"
	"scar_tracker/internal/config"
	"scar_tracker/internal/models"
)

// CreateVendor registers a new supplier organization.
func CreateVendor(c *gin.Context) {
	var input models.Vendor
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := config.DB.Create(&input).Error; err != nil {
		if dbErr := translateDBError(err); errors.Is(dbErr, apperrors.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "vendor name already in use"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create vendor: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"vendor": input})
}

// GetVendor retrieves a vendor with its contacts.
func GetVendor(c *gin.Context) {
	var vendor models.Vendor
	if err := config.DB.Preload("Contacts").First(&vendor, c.Param("id")).Error; err != nil {
		respondError(c, translateDBError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"vendor": vendor})
}

// ListVendors lists all vendors with their contacts.
func ListVendors(c *gin.Context) {
	var vendors []models.Vendor
	if err := config.DB.Preload("Contacts").Order("name").Find(&vendors).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch vendors"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": vendors})
}

// UpdateVendor modifies vendor details.
func UpdateVendor(c *gin.Context) {
	var vendor models.Vendor
	if err := config.DB.First(&vendor, c.Param("id")).Error; err != nil {
		respondError(c, translateDBError(err))
		return
	}

	var input struct {
		Name    *string `json:"name"`
		Address *string `json:"address"`
		Phone   *string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Name != nil {
		vendor.Name = *input.Name
	}
	if input.Address != nil {
		vendor.Address = *input.Address
	}
	if input.Phone != nil {
		vendor.Phone = *input.Phone
	}

	if err := config.DB.Save(&vendor).Error; err != nil {
		if dbErr := translateDBError(err); errors.Is(dbErr, apperrors.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "vendor name already in use"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update vendor"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"vendor": vendor})
}

// DeleteVendor removes a vendor. A vendor with SCARs still in the workflow
// cannot be deleted; close them out first.
func DeleteVendor(c *gin.Context) {
	var vendor models.Vendor
	if err := config.DB.First(&vendor, c.Param("id")).Error; err != nil {
		respondError(c, translateDBError(err))
		return
	}

	var active int64
	if err := config.DB.Model(&models.Scar{}).
		Where("vendor_id = ? AND status <> ?", vendor.ID, models.ScarClosed).
		Count(&active).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check vendor SCARs"})
		return
	}
	if active > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "vendor has active SCARs and cannot be deleted"})
		return
	}

	if err := config.DB.Delete(&vendor).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete vendor"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Vendor deleted"})
}

// ListVendorContacts lists contacts for a vendor, primary first.
func ListVendorContacts(c *gin.Context) {
	var vendor models.Vendor
	if err := config.DB.First(&vendor, c.Param("id")).Error; err != nil {
		respondError(c, translateDBError(err))
		return
	}

	var contacts []models.Contact
	if err := config.DB.Where("vendor_id = ?", vendor.ID).
		Order("is_primary DESC, name").Find(&contacts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch contacts"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": contacts})
}

// CreateVendorContact adds a contact to a vendor.
func CreateVendorContact(c *gin.Context) {
	var vendor models.Vendor
	if err := config.DB.First(&vendor, c.Param("id")).Error; err != nil {
		respondError(c, translateDBError(err))
		return
	}

	var input struct {
		Name      string `json:"name" binding:"required"`
		Email     string `json:"email" binding:"required,email"`
		Phone     string `json:"phone"`
		IsPrimary bool   `json:"is_primary"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	contact := models.Contact{
		VendorID:  vendor.ID,
		Name:      input.Name,
		Email:     input.Email,
		Phone:     input.Phone,
		IsPrimary: input.IsPrimary,
	}
	if err := config.DB.Create(&contact).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create contact: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"contact": contact})
}

// UpdateVendorContact modifies a contact.
func UpdateVendorContact(c *gin.Context) {
	var contact models.Contact
	if err := config.DB.First(&contact, c.Param("contactId")).Error; err != nil {
		respondError(c, translateDBError(err))
		return
	}

	var input struct {
		Name      *string `json:"name"`
		Email     *string `json:"email"`
		Phone     *string `json:"phone"`
		IsPrimary *bool   `json:"is_primary"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Name != nil {
		contact.Name = *input.Name
	}
	if input.Email != nil {
		contact.Email = *input.Email
	}
	if input.Phone != nil {
		contact.Phone = *input.Phone
	}
	if input.IsPrimary != nil {
		contact.IsPrimary = *input.IsPrimary
	}

	if err := config.DB.Save(&contact).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update contact"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"contact": contact})
}

// DeleteVendorContact removes a contact.
func DeleteVendorContact(c *gin.Context) {
	if err := config.DB.Delete(&models.Contact{}, c.Param("contactId")).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete contact"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Contact deleted"})
}
