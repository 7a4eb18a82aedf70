package main

import (
	"log"

	"github.com/RympeR/blob-ai/internal/config"
	"github.com/RympeR/blob-ai/internal/database"
	"github.com/RympeR/blob-ai/internal/models"
	"github.com/RympeR/blob-ai/internal/seeds"
	"github.com/RympeR/blob-ai/internal/services"
)

func main() {
	config.LoadConfig()
	database.Connect()

	log.Println("🔄 Running migrations (just in case)...")
	database.DB.AutoMigrate(
		&models.User{},
		&models.Room{},
		&models.Attachment{},
		&models.Message{},
		&models.DeliveryRecord{},
	)

	log.Println("👤 Seeding demo users...")
	alice, err := seeds.GetOrCreateUser("alice", "alice@example.com", "Alice")
	if err != nil {
		log.Fatalf("❌ Failed to seed alice: %v", err)
	}
	bob, err := seeds.GetOrCreateUser("bob", "bob@example.com", "Bob")
	if err != nil {
		log.Fatalf("❌ Failed to seed bob: %v", err)
	}
	carol, err := seeds.GetOrCreateUser("carol", "carol@example.com", "Carol")
	if err != nil {
		log.Fatalf("❌ Failed to seed carol: %v", err)
	}

	log.Println("💬 Seeding demo rooms...")
	direct, err := services.CreateRoom(alice.ID, []string{bob.ID}, "", "")
	if err != nil {
		log.Printf("⚠️ Direct room exists or failed: %v", err)
	} else {
		if _, err := services.AppendMessage(direct.ID, alice.ID, "Hey Bob! 👋", nil); err != nil {
			log.Fatalf("❌ Failed to seed message: %v", err)
		}
		if _, err := services.AppendMessage(direct.ID, bob.ID, "Hi Alice!", nil); err != nil {
			log.Fatalf("❌ Failed to seed message: %v", err)
		}
	}

	group, err := services.CreateRoom(alice.ID, []string{bob.ID, carol.ID}, "Weekend plans", "")
	if err != nil {
		log.Printf("⚠️ Group room failed: %v", err)
	} else {
		if _, err := services.AppendMessage(group.ID, carol.ID, "Who's up for hiking?", nil); err != nil {
			log.Fatalf("❌ Failed to seed message: %v", err)
		}
	}

	log.Println("✅ Seeding complete")
}
