package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Room is a conversation context owned by its creator. The invited set
// never contains the creator; a room with exactly one invited user is a
// direct (two-party) chat, more than one is a group chat.
type Room struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	CreatorID string `gorm:"index;type:text;not null" json:"creatorId"`
	Creator   User   `gorm:"foreignKey:CreatorID" json:"creator"`

	Invited []User `gorm:"many2many:room_invited;" json:"invited"`

	Name string `json:"name"`

	// Logo is an opaque storage key. Empty means "fall back to the
	// creator's avatar" when resolving the display logo.
	Logo string `json:"logo"`
}

func (r *Room) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return
}

// IsDirect reports whether this is a two-party chat. Only meaningful when
// the Invited association is loaded.
func (r *Room) IsDirect() bool {
	return len(r.Invited) == 1
}

// MemberIDs returns creator + invited ids. Requires Invited to be loaded.
func (r *Room) MemberIDs() []string {
	ids := make([]string, 0, len(r.Invited)+1)
	ids = append(ids, r.CreatorID)
	for _, u := range r.Invited {
		ids = append(ids, u.ID)
	}
	return ids
}

// HasMember reports whether userID is the creator or an invited user.
// Requires Invited to be loaded.
func (r *Room) HasMember(userID string) bool {
	if r.CreatorID == userID {
		return true
	}
	for _, u := range r.Invited {
		if u.ID == userID {
			return true
		}
	}
	return false
}
