package migration

import (
	"time"

	"gorm.io/gorm"

	"rentcore/internal/models"
)

func init() {
	Register(&Migration{
		Version:   "20250114093000",
		Name:      "create_marketplace_schema",
		CreatedAt: time.Date(2025, 1, 14, 9, 30, 0, 0, time.UTC),
		Up: func(db *gorm.DB) error {
			return db.AutoMigrate(
				&models.User{},
				&models.Property{},
				&models.RentalRequest{},
				&models.Offer{},
				&models.Lease{},
				&models.Payment{},
				&models.Conversation{},
				&models.ConversationParticipant{},
				&models.MoveInIssue{},
				&models.Notification{},
			)
		},
		Down: func(db *gorm.DB) error {
			return db.Migrator().DropTable(
				&models.Notification{},
				&models.MoveInIssue{},
				&models.ConversationParticipant{},
				&models.Conversation{},
				&models.Payment{},
				&models.Lease{},
				&models.Offer{},
				&models.RentalRequest{},
				&models.Property{},
				&models.User{},
			)
		},
	})

	Register(&Migration{
		Version:   "20250302111500",
		Name:      "index_offer_status_lookups",
		CreatedAt: time.Date(2025, 3, 2, 11, 15, 0, 0, time.UTC),
		Up: func(db *gorm.DB) error {
			if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_offers_rental_request_status ON offers(rental_request_id, status)").Error; err != nil {
				return err
			}
			return db.Exec("CREATE INDEX IF NOT EXISTS idx_conversations_offer ON conversations(offer_id)").Error
		},
		Down: func(db *gorm.DB) error {
			if err := db.Exec("DROP INDEX IF EXISTS idx_conversations_offer").Error; err != nil {
				return err
			}
			return db.Exec("DROP INDEX IF EXISTS idx_offers_rental_request_status").Error
		},
	})
}
