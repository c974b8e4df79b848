package config

import (
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"scar_tracker/internal/models"
)

// Seed creates the bootstrap admin account and a starter vendor list on an
// empty database. It is a no-op once any vendor exists.
func Seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Vendor{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	vendors := []models.Vendor{
		{Name: "Pacific Glass Co.", Address: "123 Harbor Blvd, Long Beach, CA 90802", Phone: "(562) 555-0100"},
		{Name: "Western Packaging Inc.", Address: "456 Industrial Way, Phoenix, AZ 85001", Phone: "(602) 555-0200"},
		{Name: "Mountain View Plastics", Address: "789 Tech Park Dr, Denver, CO 80202", Phone: "(303) 555-0300"},
		{Name: "Coastal Container Corp.", Address: "321 Seaside Ave, San Diego, CA 92101", Phone: "(619) 555-0400"},
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&vendors).Error; err != nil {
			return err
		}

		contacts := []models.Contact{
			{VendorID: vendors[0].ID, Name: "John Smith", Email: "jsmith@pacificglass.com", Phone: "(562) 555-0101", IsPrimary: true},
			{VendorID: vendors[0].ID, Name: "Sarah Johnson", Email: "sjohnson@pacificglass.com", Phone: "(562) 555-0102"},
			{VendorID: vendors[1].ID, Name: "Mike Wilson", Email: "mwilson@westernpkg.com", Phone: "(602) 555-0201", IsPrimary: true},
			{VendorID: vendors[2].ID, Name: "Emily Chen", Email: "echen@mvplastics.com", Phone: "(303) 555-0301", IsPrimary: true},
			{VendorID: vendors[3].ID, Name: "Robert Garcia", Email: "rgarcia@coastalcontainer.com", Phone: "(619) 555-0401", IsPrimary: true},
		}
		if err := tx.Create(&contacts).Error; err != nil {
			return err
		}

		adminPassword := getEnv("ADMIN_PASSWORD", "admin123")
		hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		admin := models.User{
			Name:     "Admin User",
			Email:    getEnv("ADMIN_EMAIL", "admin@example.com"),
			Password: string(hash),
			Role:     models.RoleAdmin,
			Status:   models.StatusApproved,
		}
		if err := tx.Create(&admin).Error; err != nil {
			return err
		}

		if os.Getenv("ADMIN_PASSWORD") == "" {
			log.Println("seeded default admin account – set ADMIN_EMAIL/ADMIN_PASSWORD in production")
		}
		return nil
	})
}
