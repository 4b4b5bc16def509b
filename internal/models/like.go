package models

import "time"

// Like is an immutable like event. Latitude/Longitude/Geohash are those of
// the source's last recorded ping at commit time, not anything the client
// sent. The bucket column is what the per-spot cooldown is checked against.
//
// The same ordered (from, to) pair may appear many times across history, one
// per elapsed cooldown window. That cadence is enforced by the validator, not
// by a unique constraint, since a repeat like is legal once the window ends.
type Like struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FromUserID uint      `gorm:"not null;index:idx_likes_pair;index:idx_likes_from_geohash" json:"from_user_id"`
	ToUserID   uint      `gorm:"not null;index:idx_likes_pair;index" json:"to_user_id"`
	Latitude   float64   `gorm:"type:decimal(10,8);not null" json:"latitude"`
	Longitude  float64   `gorm:"type:decimal(11,8);not null" json:"longitude"`
	Geohash    string    `gorm:"size:12;index:idx_likes_from_geohash" json:"geohash"`
	CreatedAt  time.Time `gorm:"not null;index" json:"created_at"`

	FromUser User `gorm:"foreignKey:FromUserID" json:"-"`
	ToUser   User `gorm:"foreignKey:ToUserID" json:"-"`
}

func (Like) TableName() string {
	return "likes"
}
