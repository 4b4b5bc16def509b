package models

import (
	"time"

	"gorm.io/gorm"
)

// User is created on first successful identity verification and refreshed on
// every subsequent one. TelegramID is the stable external identity; display
// attributes are mutable mirrors of whatever Telegram last reported.
type User struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	TelegramID string         `gorm:"uniqueIndex;size:64;not null" json:"telegram_id"`
	Username   string         `gorm:"size:64" json:"username"`
	FirstName  string         `gorm:"size:128" json:"first_name"`
	LastName   string         `gorm:"size:128" json:"last_name"`
	PhotoURL   string         `gorm:"size:512" json:"photo_url"`
	AvatarURL  string         `gorm:"size:512" json:"avatar_url"` // optional uploaded override of PhotoURL
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// DisplayName prefers username, then first/last name, then a generic label.
func (u *User) DisplayName() string {
	if u.Username != "" {
		return u.Username
	}
	name := u.FirstName
	if u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += u.LastName
	}
	if name == "" {
		return "Anonymous"
	}
	return name
}
