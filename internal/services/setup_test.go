package services

import (
	"fmt"
	"testing"

	"github.com/RympeR/blob-ai/internal/database"
	"github.com/RympeR/blob-ai/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// SetupTestDB initializes an in-memory SQLite DB for testing. Each test
// gets its own database, named after the test.
func SetupTestDB(t *testing.T) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Room{},
		&models.Attachment{},
		&models.Message{},
		&models.DeliveryRecord{},
	); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	database.DB = db
	database.Redis = nil
}

func createUser(t *testing.T, username string) models.User {
	t.Helper()
	user := models.User{
		Username: username,
		Email:    username + "@example.com",
		Name:     username,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return user
}

func createAttachment(t *testing.T, ownerID, fileType, key string) models.Attachment {
	t.Helper()
	attachment := models.Attachment{
		OwnerID:  ownerID,
		FileType: fileType,
		Key:      key,
	}
	if err := database.DB.Create(&attachment).Error; err != nil {
		t.Fatalf("failed to create attachment: %v", err)
	}
	return attachment
}
