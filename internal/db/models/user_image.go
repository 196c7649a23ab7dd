package models

import "time"

// UserImage stores a profile image taken from an external identity provider.
type UserImage struct {
	UserID      uint64 `gorm:"primaryKey"`
	ContentType string `gorm:"size:100;not null"`
	Data        []byte
	User        User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	UpdatedAt   time.Time
}

// TableName specifies the database table name for the UserImage model.
func (UserImage) TableName() string {
	return "user_images"
}
