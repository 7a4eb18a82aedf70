package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxMessageLength bounds the text body of a message (runes, not bytes).
const MaxMessageLength = 500

// Message is one immutable chat utterance. Seq is a DB-assigned
// monotonically increasing counter: it totally orders messages even when
// concurrent sends land on the same wall-clock timestamp, and it is the
// keyset-pagination cursor.
type Message struct {
	ID  string `gorm:"primaryKey;type:text" json:"id"`
	Seq int64  `gorm:"uniqueIndex" json:"-"`

	RoomID string `gorm:"index;type:text;not null" json:"roomId"`
	Room   Room   `gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE" json:"-"`

	AuthorID string `gorm:"index;type:text;not null" json:"authorId"`
	Author   User   `gorm:"foreignKey:AuthorID" json:"author"`

	Text string `gorm:"type:text" json:"text"`

	Attachments []Attachment `gorm:"many2many:message_attachments;" json:"-"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	if m.Seq == 0 {
		// Runs inside the caller's transaction. Concurrent sends that race
		// to the same value trip the unique index and abort the whole
		// message+fan-out transaction, which the caller may retry.
		var max int64
		if err := tx.Model(&Message{}).Select("COALESCE(MAX(seq), 0)").Scan(&max).Error; err != nil {
			return err
		}
		m.Seq = max + 1
	}
	return
}
