package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Attachment is an opaque reference to an uploaded file. The chat core
// only stores the key and type; URL resolution happens at projection time
// with an explicit base URL.
type Attachment struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	OwnerID string `gorm:"index;type:text" json:"ownerId"`

	// FileType is a coarse category (image, video, audio, file).
	FileType string `gorm:"type:text" json:"fileType"`

	// Key is the storage path inside the bucket, never a full URL.
	Key string `gorm:"type:text;not null" json:"-"`
}

func (a *Attachment) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return
}

// ResolvedAttachment is the outward projection with an absolute URL.
type ResolvedAttachment struct {
	FileType string `json:"file_type"`
	FileURL  string `json:"file_url"`
}
