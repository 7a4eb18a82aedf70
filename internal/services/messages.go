package services

import (
	stderrors "errors"
	"strings"
	"unicode/utf8"

	"github.com/RympeR/blob-ai/internal/database"
	"github.com/RympeR/blob-ai/internal/models"
	"github.com/RympeR/blob-ai/pkg/errors"
	"github.com/RympeR/blob-ai/pkg/logger"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

// DefaultPageSize bounds message pagination, matching the dialog view's
// fetch window.
const DefaultPageSize = 50

// AppendMessage stores a new message and fans out one unread delivery
// record per room member other than the author. Message and delivery
// records commit in one transaction: either both persist or neither does.
func AppendMessage(roomID, authorID, text string, attachmentIDs []string) (*models.Message, error) {
	room, err := GetRoom(roomID)
	if err != nil {
		return nil, err
	}
	if !room.HasMember(authorID) {
		return nil, errors.Forbidden("Only room members can send messages")
	}

	text = strings.TrimSpace(text)
	if text == "" && len(attachmentIDs) == 0 {
		return nil, errors.BadRequest("Message must have text or at least one attachment")
	}
	if utf8.RuneCountInString(text) > models.MaxMessageLength {
		return nil, errors.BadRequest("Message text exceeds maximum length")
	}

	attachments, err := findAttachments(database.DB, attachmentIDs)
	if err != nil {
		return nil, err
	}

	msg := models.Message{
		RoomID:      roomID,
		AuthorID:    authorID,
		Text:        text,
		Attachments: attachments,
	}

	recipients := lo.Without(room.MemberIDs(), authorID)

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Attachments.*").Create(&msg).Error; err != nil {
			return err
		}
		return fanOutDeliveries(tx, msg.ID, recipients)
	})
	if err != nil {
		logger.Error().Err(err).Str("room_id", roomID).Str("author_id", authorID).Msg("Failed to append message")
		return nil, errors.Internal("Failed to send message")
	}

	// Recipients gained unread records; their cached counts are stale.
	database.InvalidateUnread(recipients...)

	if err := database.DB.Preload("Author").Preload("Attachments").First(&msg, "id = ?", msg.ID).Error; err != nil {
		return nil, errors.Internal("Failed to load sent message")
	}
	return &msg, nil
}

// MessageView is a page entry: the message plus its read projection. Read
// is true for the requester's own messages once any recipient has read
// them, mirroring the "seen" checkmark in the conversation view.
type MessageView struct {
	Message models.Message
	Read    bool
}

// PageMessages returns up to limit messages of a room, newest first,
// strictly older than beforeMessageID when given. Keyset pagination over
// the message sequence keeps pages stable under concurrent inserts.
func PageMessages(roomID, requesterID, beforeMessageID string, limit int) ([]MessageView, error) {
	if _, err := GetRoom(roomID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > DefaultPageSize {
		limit = DefaultPageSize
	}

	q := database.DB.Preload("Author").Preload("Attachments").
		Where("room_id = ?", roomID).
		Order("seq DESC").
		Limit(limit)

	if beforeMessageID != "" {
		var cursor models.Message
		err := database.DB.Select("seq").First(&cursor, "id = ?", beforeMessageID).Error
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("Cursor message not found")
		}
		if err != nil {
			return nil, errors.Internal("Failed to resolve pagination cursor")
		}
		q = q.Where("seq < ?", cursor.Seq)
	}

	var messages []models.Message
	if err := q.Find(&messages).Error; err != nil {
		logger.Error().Err(err).Str("room_id", roomID).Msg("Failed to page messages")
		return nil, errors.Internal("Failed to load messages")
	}

	readByAny, err := readMessageIDs(lo.Map(messages, func(m models.Message, _ int) string { return m.ID }))
	if err != nil {
		return nil, err
	}

	views := make([]MessageView, 0, len(messages))
	for _, m := range messages {
		views = append(views, MessageView{
			Message: m,
			Read:    m.AuthorID == requesterID && readByAny[m.ID],
		})
	}
	return views, nil
}

// GetMessage loads a single message with author and attachments.
func GetMessage(messageID string) (*models.Message, error) {
	var msg models.Message
	err := database.DB.Preload("Author").Preload("Attachments").First(&msg, "id = ?", messageID).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.NotFound("Message not found")
	}
	if err != nil {
		return nil, errors.Internal("Failed to load message")
	}
	return &msg, nil
}

func findAttachments(db *gorm.DB, ids []string) ([]models.Attachment, error) {
	ids = lo.Uniq(ids)
	if len(ids) == 0 {
		return nil, nil
	}
	var attachments []models.Attachment
	if err := db.Where("id IN ?", ids).Find(&attachments).Error; err != nil {
		return nil, errors.Internal("Failed to load attachments")
	}
	if len(attachments) != len(ids) {
		return nil, errors.NotFound("One or more attachments do not exist")
	}
	return attachments, nil
}
