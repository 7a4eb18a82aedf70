package services

import (
	"github.com/RympeR/blob-ai/internal/database"
	"github.com/RympeR/blob-ai/internal/models"
	"github.com/RympeR/blob-ai/pkg/errors"
	"github.com/RympeR/blob-ai/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// fanOutDeliveries inserts one unread DeliveryRecord per recipient for the
// given message. Runs inside the message-append transaction: any failure
// aborts the whole write, so a partial fan-out is never visible. Existing
// (message, recipient) rows are skipped, which makes caller retries
// idempotent without transport-level dedup.
func fanOutDeliveries(tx *gorm.DB, messageID string, recipientIDs []string) error {
	if len(recipientIDs) == 0 {
		return nil
	}
	records := make([]models.DeliveryRecord, 0, len(recipientIDs))
	for _, userID := range recipientIDs {
		records = append(records, models.DeliveryRecord{
			MessageID: messageID,
			UserID:    userID,
			Read:      false,
		})
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&records).Error
}

// MarkRoomRead flags every unread delivery record of userID in the room as
// read, in a single statement. Repeating the call is a no-op. Messages
// committed after the statement takes its snapshot stay unread; they are
// never left half-marked.
func MarkRoomRead(roomID, userID string) (int64, error) {
	if _, err := GetRoom(roomID); err != nil {
		return 0, err
	}

	result := database.DB.Model(&models.DeliveryRecord{}).
		Where("user_id = ? AND read = ?", userID, false).
		Where("message_id IN (SELECT id FROM messages WHERE room_id = ?)", roomID).
		Update("read", true)
	if result.Error != nil {
		logger.Error().Err(result.Error).Str("room_id", roomID).Str("user_id", userID).Msg("Failed to mark room read")
		return 0, errors.Internal("Failed to mark messages as read")
	}

	if result.RowsAffected > 0 {
		database.InvalidateUnread(userID)
	}
	return result.RowsAffected, nil
}

// UnreadCount returns the number of unread delivery records for the user
// across the rooms they currently belong to. The (user_id, read) index
// keeps this an aggregate lookup rather than a history scan; Redis caches
// the result between invalidations.
func UnreadCount(userID string) (int64, error) {
	if cached, ok := database.GetCachedUnread(userID); ok {
		return cached, nil
	}

	count, err := unreadQueryCount(userID, "")
	if err != nil {
		return 0, err
	}

	database.SetCachedUnread(userID, count)
	return count, nil
}

// unreadQueryCount runs the unread aggregate, optionally restricted to one
// room.
func unreadQueryCount(userID, roomID string) (int64, error) {
	q := database.DB.Model(&models.DeliveryRecord{}).
		Joins("JOIN messages ON messages.id = delivery_records.message_id").
		Joins("JOIN rooms ON rooms.id = messages.room_id").
		Where("delivery_records.user_id = ? AND delivery_records.read = ?", userID, false).
		Where("rooms.creator_id = ? OR EXISTS (SELECT 1 FROM room_invited ri WHERE ri.room_id = rooms.id AND ri.user_id = ?)", userID, userID)
	if roomID != "" {
		q = q.Where("messages.room_id = ?", roomID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		logger.Error().Err(err).Str("user_id", userID).Msg("Failed to count unread messages")
		return 0, errors.Internal("Failed to count unread messages")
	}
	return count, nil
}

// IsRoomFullyRead reports whether the user has no unread delivery records
// in the room.
func IsRoomFullyRead(roomID, userID string) (bool, error) {
	if _, err := GetRoom(roomID); err != nil {
		return false, err
	}
	count, err := unreadQueryCount(userID, roomID)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

// roomUnreadCounts returns per-room unread counts for the user, batched for
// the dialog list (one group-by, not one query per room).
func roomUnreadCounts(userID string, roomIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(roomIDs))
	if len(roomIDs) == 0 {
		return counts, nil
	}

	type row struct {
		RoomID string
		N      int64
	}
	var rows []row
	err := database.DB.Model(&models.DeliveryRecord{}).
		Select("messages.room_id AS room_id, COUNT(*) AS n").
		Joins("JOIN messages ON messages.id = delivery_records.message_id").
		Where("delivery_records.user_id = ? AND delivery_records.read = ?", userID, false).
		Where("messages.room_id IN ?", roomIDs).
		Group("messages.room_id").
		Scan(&rows).Error
	if err != nil {
		logger.Error().Err(err).Str("user_id", userID).Msg("Failed to batch unread counts")
		return nil, errors.Internal("Failed to count unread messages")
	}

	for _, r := range rows {
		counts[r.RoomID] = r.N
	}
	return counts, nil
}

// readMessageIDs returns the subset of ids that at least one recipient has
// read, for the author-side "seen" projection.
func readMessageIDs(messageIDs []string) (map[string]bool, error) {
	read := make(map[string]bool, len(messageIDs))
	if len(messageIDs) == 0 {
		return read, nil
	}

	var ids []string
	err := database.DB.Model(&models.DeliveryRecord{}).
		Distinct("message_id").
		Where("message_id IN ? AND read = ?", messageIDs, true).
		Pluck("message_id", &ids).Error
	if err != nil {
		return nil, errors.Internal("Failed to load read state")
	}

	for _, id := range ids {
		read[id] = true
	}
	return read, nil
}
