package services

import (
	"sort"

	"github.com/RympeR/blob-ai/internal/config"
	"github.com/RympeR/blob-ai/internal/database"
	"github.com/RympeR/blob-ai/internal/models"
	"github.com/RympeR/blob-ai/pkg/errors"
	"github.com/RympeR/blob-ai/pkg/logger"
	"github.com/samber/lo"
)

// DefaultDialogLimit caps one page of the conversation list.
const DefaultDialogLimit = 40

// RoomSummary is the dialog-list projection of a room.
type RoomSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Logo     string `json:"logo"`
	IsDirect bool   `json:"isDirect"`
}

// MessageSummary is the dialog-list projection of a room's latest message.
// Attachment detail stays with the attachment service; the dialog carries
// only the presence flag.
type MessageSummary struct {
	ID       string `json:"id"`
	AuthorID string `json:"authorId"`
	Text     string `json:"text"`
	Time     int64  `json:"time"`
}

// Dialog is one conversation-list entry for a user.
type Dialog struct {
	Room          RoomSummary           `json:"room"`
	LastMessage   *MessageSummary       `json:"message"`
	HasAttachment bool                  `json:"hasAttachment"`
	Counterpart   *models.PublicProfile `json:"counterpart,omitempty"`
	UnreadCount   int64                 `json:"unreadCount"`
}

// ListDialogs returns the user's rooms, each summarized by its most recent
// message, ordered newest-activity first. Rooms with no messages yet sort
// last. Pagination is an offset slice of the sorted list.
//
// Last messages are fetched in one aggregate pass (max sequence per room),
// never one query per room: this runs on every conversation-list render.
func ListDialogs(userID string, limit, offset int) ([]Dialog, error) {
	if limit <= 0 {
		limit = DefaultDialogLimit
	}
	if offset < 0 {
		offset = 0
	}

	var rooms []models.Room
	err := database.DB.Preload("Creator").Preload("Invited").
		Where("creator_id = ? OR id IN (SELECT room_id FROM room_invited WHERE user_id = ?)", userID, userID).
		Find(&rooms).Error
	if err != nil {
		logger.Error().Err(err).Str("user_id", userID).Msg("Failed to load user rooms")
		return nil, errors.Internal("Failed to load dialogs")
	}
	if len(rooms) == 0 {
		return []Dialog{}, nil
	}

	roomIDs := lo.Map(rooms, func(r models.Room, _ int) string { return r.ID })

	var lastMessages []models.Message
	err = database.DB.
		Where("seq IN (SELECT MAX(seq) FROM messages WHERE room_id IN ? GROUP BY room_id)", roomIDs).
		Find(&lastMessages).Error
	if err != nil {
		logger.Error().Err(err).Str("user_id", userID).Msg("Failed to load last messages")
		return nil, errors.Internal("Failed to load dialogs")
	}
	lastByRoom := lo.KeyBy(lastMessages, func(m models.Message) string { return m.RoomID })

	withAttachment, err := attachmentFlags(lo.Map(lastMessages, func(m models.Message, _ int) string { return m.ID }))
	if err != nil {
		return nil, err
	}

	unread, err := roomUnreadCounts(userID, roomIDs)
	if err != nil {
		return nil, err
	}

	baseURL := ""
	if config.AppConfig != nil {
		baseURL = config.AppConfig.PublicBaseURL
	}

	dialogs := make([]Dialog, 0, len(rooms))
	for i := range rooms {
		room := &rooms[i]
		d := Dialog{
			Room: RoomSummary{
				ID:       room.ID,
				Name:     room.Name,
				Logo:     RoomLogoURL(baseURL, room),
				IsDirect: room.IsDirect(),
			},
			UnreadCount: unread[room.ID],
		}
		if room.IsDirect() {
			d.Counterpart = counterpartOf(room, userID)
		}
		if last, ok := lastByRoom[room.ID]; ok {
			d.LastMessage = &MessageSummary{
				ID:       last.ID,
				AuthorID: last.AuthorID,
				Text:     last.Text,
				Time:     last.CreatedAt.Unix(),
			}
			d.HasAttachment = withAttachment[last.ID]
		}
		dialogs = append(dialogs, d)
	}

	// Newest activity first; message-less rooms after every active one,
	// newest room first among themselves.
	sort.SliceStable(dialogs, func(i, j int) bool {
		mi, mj := lastByRoom[dialogs[i].Room.ID], lastByRoom[dialogs[j].Room.ID]
		iHas, jHas := mi.ID != "", mj.ID != ""
		if iHas != jHas {
			return iHas
		}
		if iHas {
			return mi.Seq > mj.Seq
		}
		return roomByID(rooms, dialogs[i].Room.ID).CreatedAt.After(roomByID(rooms, dialogs[j].Room.ID).CreatedAt)
	})

	if offset >= len(dialogs) {
		return []Dialog{}, nil
	}
	end := offset + limit
	if end > len(dialogs) {
		end = len(dialogs)
	}
	return dialogs[offset:end], nil
}

// counterpartOf returns the other member of a direct room. Nil for the
// degenerate case of the requester not actually being one of the pair.
func counterpartOf(room *models.Room, userID string) *models.PublicProfile {
	if room.CreatorID != userID {
		p := room.Creator.Profile()
		return &p
	}
	if len(room.Invited) == 1 {
		p := room.Invited[0].Profile()
		return &p
	}
	return nil
}

func roomByID(rooms []models.Room, id string) *models.Room {
	for i := range rooms {
		if rooms[i].ID == id {
			return &rooms[i]
		}
	}
	return nil
}

// attachmentFlags reports which of the given messages carry at least one
// attachment, via one pass over the join table.
func attachmentFlags(messageIDs []string) (map[string]bool, error) {
	flags := make(map[string]bool, len(messageIDs))
	if len(messageIDs) == 0 {
		return flags, nil
	}

	var ids []string
	err := database.DB.Table("message_attachments").
		Distinct().
		Where("message_id IN ?", messageIDs).
		Pluck("message_id", &ids).Error
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load attachment flags")
		return nil, errors.Internal("Failed to load dialogs")
	}

	for _, id := range ids {
		flags[id] = true
	}
	return flags, nil
}
