package database

import (
	"log"
	"os"

	"tryrack-backend/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect() (*gorm.DB, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "host=localhost user=postgres password=postgres dbname=tryrack port=5432 sslmode=disable"
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.WardrobeItem{},
		&models.TryOnResult{},
	)
}

// CreateDefaultUser seeds the development test user (id 1) that the
// user_id query parameter falls back to when no token is presented.
func CreateDefaultUser(db *gorm.DB) error {
	email := os.Getenv("DEFAULT_USER_EMAIL")
	password := os.Getenv("DEFAULT_USER_PASSWORD")

	if email == "" {
		email = "demo@tryrack.app"
	}
	if password == "" {
		password = "demo1234"
	}

	var existing models.User
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		// Default user already exists
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := models.User{
		Email:    email,
		Username: "demo",
		Password: string(hashedPassword),
		IsActive: true,
	}

	if err := db.Create(&user).Error; err != nil {
		return err
	}

	log.Printf("Default user created: %s", email)
	return nil
}
