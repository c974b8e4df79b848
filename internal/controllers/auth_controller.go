package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	logrus "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"scar_tracker/internal/apperrors"
	"scar_tracker/internal/config"
	"scar_tracker/internal/metrics"
	"scar_tracker/internal/middleware"
	"scar_tracker/internal/models"
)

type signupInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	VendorID uint   `json:"vendor_id" binding:"required"`
}

// SignupUser self-registers a supplier account. The role is always supplier
// and the status always pending: an admin has to approve before login works.
func SignupUser(c *gin.Context) {
	var input signupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var vendor models.Vendor
	if err := config.DB.First(&vendor, input.VendorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "vendor does not exist"})
			return
		}
		respondError(c, err)
		return
	}

	hashedPassword, err := hashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not hash password"})
		return
	}

	user := models.User{
		Name:     input.Name,
		Email:    input.Email,
		Password: hashedPassword,
		Role:     models.RoleSupplier,
		Status:   models.StatusPending,
		VendorID: &vendor.ID,
	}
	if err := config.DB.Create(&user).Error; err != nil {
		if dbErr := translateDBError(err); errors.Is(dbErr, apperrors.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "email already in use"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create user: " + err.Error()})
		return
	}

	logrus.WithFields(logrus.Fields{"user_id": user.ID, "vendor_id": vendor.ID}).Info("supplier registration pending approval")

	c.JSON(http.StatusCreated, gin.H{
		"message": "registration successful, your account is pending approval",
		"user":    user,
	})
}

// LoginUser authenticates and issues a token. Unknown email, wrong password
// and unapproved accounts all produce the same response so that account
// existence never leaks.
func LoginUser(c *gin.Context) {
	var body struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	metrics.LoginAttempts.Inc()

	var user models.User
	query := config.DB.Where("email = ?", body.Email).Preload("Vendor")
	if err := query.First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			loginFailed(c, body.Email, "unknown email")
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error: " + err.Error()})
		}
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(body.Password)); err != nil {
		loginFailed(c, body.Email, "bad password")
		return
	}

	if user.Status != models.StatusApproved {
		loginFailed(c, body.Email, "not approved")
		return
	}

	var vendorID uint
	if user.VendorID != nil {
		vendorID = *user.VendorID
	}
	token, err := middleware.GenerateToken(user.ID, user.Role, vendorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

// Me returns the authenticated user's profile.
func Me(c *gin.Context) {
	identity := middleware.CurrentIdentity(c)

	var user models.User
	if err := config.DB.Preload("Vendor").First(&user, identity.UserID).Error; err != nil {
		respondError(c, translateDBError(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// ChangePassword updates the caller's own password after verifying the
// current one.
func ChangePassword(c *gin.Context) {
	var body struct {
		CurrentPassword string `json:"current_password" binding:"required"`
		NewPassword     string `json:"new_password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	identity := middleware.CurrentIdentity(c)

	var user models.User
	if err := config.DB.First(&user, identity.UserID).Error; err != nil {
		respondError(c, translateDBError(err))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(body.CurrentPassword)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "current password is incorrect"})
		return
	}

	hashed, err := hashPassword(body.NewPassword)
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

func loginFailed(c *gin.Context, email, cause string) {
	metrics.LoginFailures.Inc()
	// The cause stays in the server log only; the response is always generic.
	logrus.WithFields(logrus.Fields{"email": email, "cause": cause}).Warn("login failed")
	c.JSON(http.StatusUnauthorized, gin.H{"error": apperrors.ErrAuthenticationFailed.Error()})
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
