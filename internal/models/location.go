package models

import "time"

// LocationPing is an append-only location sample. Rows are never updated or
// deleted; a user's current location is their ping with the greatest
// CreatedAt. Geohash is computed at write time at the configured precision.
type LocationPing struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Latitude  float64   `gorm:"type:decimal(10,8);not null" json:"latitude"`
	Longitude float64   `gorm:"type:decimal(11,8);not null" json:"longitude"`
	Geohash   string    `gorm:"size:12;index" json:"geohash"`
	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (LocationPing) TableName() string {
	return "location_pings"
}
