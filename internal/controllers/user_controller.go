package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	logrus "github.com/sirupsen/logrus"

	"scar_tracker/internal/apperrors"
	"scar_tracker/internal/config"
	"scar_tracker/internal/middleware"
	"scar_tracker/internal/models"
)

// ListUsers returns all users, optionally filtered by status and role.
func ListUsers(c *gin.Context) {
	query := config.DB.Preload("Vendor").Order("created_at DESC")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing users: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": users})
}

// PendingUsersCount returns the size of the approval queue, used for the
// settings badge.
func PendingUsersCount(c *gin.Context) {
	var count int64
	if err := config.DB.Model(&models.User{}).Where("status = ?", models.StatusPending).Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error counting pending users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"pending": count})
}

// ApproveUser moves a registration from pending to approved, enabling login.
func ApproveUser(c *gin.Context) {
	setUserStatus(c, models.StatusApproved)
}

// RejectUser permanently denies login for a registration. The row is kept for
// the audit trail.
func RejectUser(c *gin.Context) {
	setUserStatus(c, models.StatusRejected)
}

func setUserStatus(c *gin.Context, status string) {
	var user models.User
	if err := config.DB.First(&user, c.Param("id")).Error; err != nil {
		respondError(c, translateDBError(err))
		return
	}

	if err := config.DB.Model(&user).Update("status", status).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update user status"})
		return
	}

	actor := middleware.CurrentIdentity(c)
	logrus.WithFields(logrus.Fields{"admin_id": actor.UserID, "user_id": user.ID, "status": status}).Info("user approval updated")

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// CreateAdmin creates an administrator account, approved immediately.
func CreateAdmin(c *gin.Context) {
	var input struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hashed, err := hashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not hash password"})
		return
	}

	user := models.User{
		Name:     input.Name,
		Email:    input.Email,
		Password: hashed,
		Role:     models.RoleAdmin,
		Status:   models.StatusApproved,
	}
	if err := config.DB.Create(&user).Error; err != nil {
		if dbErr := translateDBError(err); errors.Is(dbErr, apperrors.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "email already in use"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create user: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// UpdateUser modifies account fields. A user switched to the supplier role
// must end up bound to a vendor.
func UpdateUser(c *gin.Context) {
	var user models.User
	if err := config.DB.First(&user, c.Param("id")).Error; err != nil {
		respondError(c, translateDBError(err))
		return
	}

	var input struct {
		Name     *string `json:"name"`
		Email    *string `json:"email"`
		Role     *string `json:"role"`
		VendorID *uint   `json:"vendor_id"`
		Status   *string `json:"status"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.Role != nil {
		switch *input.Role {
		case models.RoleAdmin, models.RoleSupplier:
			user.Role = *input.Role
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
			return
		}
	}
	if input.VendorID != nil {
		if *input.VendorID == 0 {
			user.VendorID = nil
		} else {
			var vendor models.Vendor
			if err := config.DB.First(&vendor, *input.VendorID).Error; err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "vendor does not exist"})
				return
			}
			user.VendorID = input.VendorID
		}
	}
	if input.Status != nil {
		switch *input.Status {
		case models.StatusPending, models.StatusApproved, models.StatusRejected:
			user.Status = *input.Status
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}
	}

	if user.Role == models.RoleSupplier && user.VendorID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "supplier accounts require a vendor"})
		return
	}

	if err := config.DB.Save(&user).Error; err != nil {
		if dbErr := translateDBError(err); errors.Is(dbErr, apperrors.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "email already in use"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// ResetUserPassword sets a new password for any account.
func ResetUserPassword(c *gin.Context) {
	var body struct {
		Password string `json:"password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := config.DB.First(&user, c.Param("id")).Error; err != nil {
		respondError(c, translateDBError(err))
		return
	}

	hashed, err := hashPassword(body.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not hash password"})
		return
	}
	if err := config.DB.Model(&user).Update("password", hashed).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}

// DeleteUser soft-deletes an account so the activity trail keeps resolving
// the actor. Admins cannot delete themselves.
func DeleteUser(c *gin.Context) {
	actor := middleware.CurrentIdentity(c)

	var user models.User
	if err := config.DB.First(&user, c.Param("id")).Error; err != nil {
		respondError(c, translateDBError(err))
		return
	}

	if user.ID == actor.UserID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "you cannot delete your own account"})
		return
	}

	if err := config.DB.Delete(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}
