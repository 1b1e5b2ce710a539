package bootstrap

import (
	"log"

	"contractdesk/internal/entity"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.User{},
		&entity.Category{},
		&entity.Contract{},
		&entity.Document{},
	)
}

// SeedAdminUser creates the initial admin account when no user exists yet,
// so a fresh install is reachable.
func SeedAdminUser(db *gorm.DB) error {
	var count int64
	if err := db.Model(&entity.User{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		return nil
	}

	password := "admin"
	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	adminUser := entity.User{
		Username:     "admin",
		PasswordHash: string(hashedPasswordBytes),
		Role:         entity.RoleAdmin,
	}

	if err := db.Create(&adminUser).Error; err != nil {
		return err
	}

	log.Println("Admin user seeded")
	log.Println("   Username: admin")
	log.Println("   Password: admin")
	log.Println("Change this password after first login.")

	return nil
}

// SeedCategories inserts a starter set of categories on an empty table.
func SeedCategories(db *gorm.DB) error {
	defaultCategories := []entity.Category{
		{Name: "IT"},
		{Name: "Facilities"},
		{Name: "Insurance"},
	}

	for _, category := range defaultCategories {
		var count int64
		if err := db.Model(&entity.Category{}).
			Where("name = ?", category.Name).
			Count(&count).Error; err != nil {
			return err
		}

		if count == 0 {
			if err := db.Create(&category).Error; err != nil {
				return err
			}
		}
	}

	return nil
}
