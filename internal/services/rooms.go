package services

import (
	stderrors "errors"

	"github.com/RympeR/blob-ai/internal/database"
	"github.com/RympeR/blob-ai/internal/models"
	"github.com/RympeR/blob-ai/pkg/errors"
	"github.com/RympeR/blob-ai/pkg/logger"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

// CreateRoom creates a conversation room owned by creatorID.
//
// A direct room (exactly one invited user) is unique per unordered user
// pair: if one already exists in either direction, the call fails with a
// conflict error carrying the existing room's id so the caller can redirect
// there instead of duplicating the chat.
func CreateRoom(creatorID string, invitedIDs []string, name, logo string) (*models.Room, error) {
	// Dedup before the direct-room gate: an invite list like [bob, bob]
	// still describes a two-party room and must hit the uniqueness check.
	invitedIDs = lo.Uniq(invitedIDs)
	for _, id := range invitedIDs {
		if id == creatorID {
			return nil, errors.Conflict("Creator cannot invite themselves", "")
		}
	}

	invited, err := findUsers(database.DB, invitedIDs)
	if err != nil {
		return nil, err
	}

	if len(invitedIDs) == 1 {
		existingID, err := findDirectRoom(database.DB, creatorID, invitedIDs[0])
		if err != nil {
			return nil, err
		}
		if existingID != "" {
			return nil, errors.Conflict("A direct room between these users already exists", existingID)
		}
	}

	room := models.Room{
		CreatorID: creatorID,
		Invited:   invited,
		Name:      name,
		Logo:      logo,
	}

	// Omit upserting the user rows themselves; only join rows are created.
	if err := database.DB.Omit("Invited.*").Create(&room).Error; err != nil {
		logger.Error().Err(err).Str("creator_id", creatorID).Msg("Failed to create room")
		return nil, errors.Internal("Failed to create room")
	}

	return GetRoom(room.ID)
}

// findDirectRoom returns the id of an existing two-party room between a and
// b, checking rooms created by a first, then rooms created by b. Empty
// string means no conflict.
func findDirectRoom(db *gorm.DB, a, b string) (string, error) {
	directOnly := "(SELECT COUNT(*) FROM room_invited ri2 WHERE ri2.room_id = rooms.id) = 1"

	for _, pair := range [][2]string{{a, b}, {b, a}} {
		var id string
		err := db.Model(&models.Room{}).
			Select("rooms.id").
			Joins("JOIN room_invited ri ON ri.room_id = rooms.id").
			Where("rooms.creator_id = ? AND ri.user_id = ?", pair[0], pair[1]).
			Where(directOnly).
			Limit(1).
			Scan(&id).Error
		if err != nil {
			logger.Error().Err(err).Msg("Failed to check for existing direct room")
			return "", errors.Internal("Failed to check for existing direct room")
		}
		if id != "" {
			return id, nil
		}
	}
	return "", nil
}

// GetRoom loads a room with its creator and invited users.
func GetRoom(roomID string) (*models.Room, error) {
	var room models.Room
	err := database.DB.Preload("Creator").Preload("Invited").First(&room, "id = ?", roomID).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.NotFound("Room not found")
	}
	if err != nil {
		logger.Error().Err(err).Str("room_id", roomID).Msg("Failed to load room")
		return nil, errors.Internal("Failed to load room")
	}
	return &room, nil
}

// SetInvited atomically replaces the room's invited set. Only the creator
// may change membership. Past delivery records are untouched: membership
// changes affect future fan-outs only.
func SetInvited(roomID string, invitedIDs []string, actingUserID string) (*models.Room, error) {
	room, err := GetRoom(roomID)
	if err != nil {
		return nil, err
	}
	if room.CreatorID != actingUserID {
		return nil, errors.Forbidden("Only the room creator can change the invited set")
	}
	invitedIDs = lo.Uniq(invitedIDs)
	for _, id := range invitedIDs {
		if id == room.CreatorID {
			return nil, errors.Conflict("Creator cannot invite themselves", "")
		}
	}

	invited, err := findUsers(database.DB, invitedIDs)
	if err != nil {
		return nil, err
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Model(room).Association("Invited").Replace(invited)
	})
	if err != nil {
		logger.Error().Err(err).Str("room_id", roomID).Msg("Failed to replace invited set")
		return nil, errors.Internal("Failed to update room membership")
	}

	return GetRoom(roomID)
}

// MemberIDs returns the full membership set: creator plus invited.
func MemberIDs(roomID string) ([]string, error) {
	room, err := GetRoom(roomID)
	if err != nil {
		return nil, err
	}
	return room.MemberIDs(), nil
}

// IsMember reports whether userID is the creator or an invited member.
func IsMember(roomID, userID string) (bool, error) {
	room, err := GetRoom(roomID)
	if err != nil {
		return false, err
	}
	return room.HasMember(userID), nil
}

func findUsers(db *gorm.DB, ids []string) ([]models.User, error) {
	ids = lo.Uniq(ids)
	if len(ids) == 0 {
		return nil, nil
	}
	var users []models.User
	if err := db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		logger.Error().Err(err).Msg("Failed to load users")
		return nil, errors.Internal("Failed to load users")
	}
	if len(users) != len(ids) {
		return nil, errors.NotFound("One or more invited users do not exist")
	}
	return users, nil
}
