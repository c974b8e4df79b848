package middleware

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"scar_tracker/internal/apperrors"
	"scar_tracker/internal/authz"
	"scar_tracker/internal/config"
	"scar_tracker/internal/models"
)

var secret = []byte(getJWTSecret())

func getJWTSecret() string {
	if val := os.Getenv("JWT_SECRET"); val != "" {
		return val
	}
	return "supersecret" // fallback
}

// GenerateToken issues an HS256 token carrying the user's id, role and vendor
// scope. vendorID is 0 for admins.
func GenerateToken(userID uint, role string, vendorID uint) (string, error) {
	claims := jwt.MapClaims{
		"user_id":   userID,
		"role":      role,
		"vendor_id": vendorID,
		"exp":       time.Now().Add(72 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// authenticate validates the bearer token and re-checks the account against
// the database: a user rejected or deleted after the token was issued is
// denied. On success the actor's identity is stored in the context. It does
// not advance the handler chain; callers decide that.
func authenticate(c *gin.Context) bool {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
		return false
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil || !token.Valid {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
		return false
	}
	userID, ok := claims["user_id"].(float64)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
		return false
	}

	var user models.User
	if err := config.DB.First(&user, uint(userID)).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return false
	}
	if user.Status != models.StatusApproved {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": apperrors.ErrUnauthorized.Error()})
		return false
	}

	identity := authz.Identity{UserID: user.ID, Role: user.Role}
	if user.VendorID != nil {
		identity.VendorID = *user.VendorID
	}
	c.Set("identity", identity)

	return true
}

// RequireAuth ensures a valid token from an approved account.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c) {
			return
		}
		c.Next()
	}
}

// RequireAuthWithRole ensures the token is valid, the account approved, and
// the user holds the given role.
func RequireAuthWithRole(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c) {
			return
		}

		identity := CurrentIdentity(c)
		if identity.Role != requiredRole {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			return
		}

		c.Next()
	}
}

// CurrentIdentity returns the identity stored by RequireAuth.
func CurrentIdentity(c *gin.Context) authz.Identity {
	return c.MustGet("identity").(authz.Identity)
}
