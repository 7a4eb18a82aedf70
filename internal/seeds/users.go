package seeds

import (
	"log"

	"github.com/RympeR/blob-ai/internal/database"
	"github.com/RympeR/blob-ai/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// GetOrCreateUser finds a user by username or creates them with the given
// profile and a demo password.
func GetOrCreateUser(username, email, name string) (models.User, error) {
	var user models.User
	err := database.DB.Where("username = ?", username).First(&user).Error
	if err == nil {
		log.Printf("   ✅ User found: %s", user.Username)
		return user, nil
	}

	hash, _ := bcrypt.GenerateFromPassword([]byte("DemoPassword2024!"), bcrypt.DefaultCost)

	user = models.User{
		Username: username,
		Email:    email,
		Name:     name,
		Password: string(hash),
		Avatar:   "avatars/" + username + ".png",
	}
	if err := database.DB.Create(&user).Error; err != nil {
		return models.User{}, err
	}
	log.Printf("   ✅ User created: %s", user.Username)
	return user, nil
}
