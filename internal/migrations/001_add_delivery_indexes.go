package migrations

import (
	"gorm.io/gorm"
)

// Migration001AddDeliveryIndexes adds the indexes behind the two hot
// aggregation paths:
// 1. Unread counting — delivery_records (user_id, read)
// 2. Last-message-per-room and keyset paging — messages (room_id, seq)
//
// All statements are idempotent (IF NOT EXISTS) for safe re-runs.
func Migration001AddDeliveryIndexes() Migration {
	return Migration{
		ID:   "001_add_delivery_indexes",
		Name: "Add indexes for unread aggregation and message paging",
		Up: func(db *gorm.DB) error {
			// Unread count: WHERE user_id = ? AND read = false, and the
			// per-room group-by variant for the dialog list badges.
			idx1 := `
				CREATE INDEX IF NOT EXISTS idx_delivery_user_read
				ON delivery_records (user_id, read)
			`
			if err := db.Exec(idx1).Error; err != nil {
				return err
			}

			// Dialog aggregation: MAX(seq) GROUP BY room_id, and keyset
			// pages: WHERE room_id = ? AND seq < ? ORDER BY seq DESC.
			idx2 := `
				CREATE INDEX IF NOT EXISTS idx_messages_room_seq
				ON messages (room_id, seq)
			`
			if err := db.Exec(idx2).Error; err != nil {
				return err
			}

			// Membership lookups from the invited side.
			idx3 := `
				CREATE INDEX IF NOT EXISTS idx_room_invited_user
				ON room_invited (user_id, room_id)
			`
			return db.Exec(idx3).Error
		},
		Down: func(db *gorm.DB) error {
			for _, stmt := range []string{
				`DROP INDEX IF EXISTS idx_delivery_user_read`,
				`DROP INDEX IF EXISTS idx_messages_room_seq`,
				`DROP INDEX IF EXISTS idx_room_invited_user`,
			} {
				if err := db.Exec(stmt).Error; err != nil {
					return err
				}
			}
			return nil
		},
	}
}
