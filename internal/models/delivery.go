package models

// DeliveryRecord tracks per-recipient read state for one message. Exactly
// one row exists per (message, recipient) pair, created in the same
// transaction as the message itself; the author never gets a row for their
// own message. Read flips false→true once and never reverses.
type DeliveryRecord struct {
	MessageID string  `gorm:"primaryKey;type:text" json:"messageId"`
	Message   Message `gorm:"foreignKey:MessageID;constraint:OnDelete:CASCADE" json:"-"`

	UserID string `gorm:"primaryKey;type:text;index:idx_delivery_user_read" json:"userId"`
	User   User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`

	Read bool `gorm:"default:false;index:idx_delivery_user_read" json:"read"`
}
