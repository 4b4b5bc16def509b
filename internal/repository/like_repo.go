package repository

import (
	"errors"
	"time"

	"spotlike/internal/models"

	"gorm.io/gorm"
)

// LikeRepository is the append-only like ledger. All business checks happen
// upstream in the engine; Create never rejects on business grounds.
type LikeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) *LikeRepository {
	return &LikeRepository{db: db}
}

func (r *LikeRepository) Create(like *models.Like) error {
	return r.db.Create(like).Error
}

// LastBetween returns the newest like for the ordered (from, to) pair, or
// nil, nil when the pair has never liked.
func (r *LikeRepository) LastBetween(fromID, toID uint) (*models.Like, error) {
	var like models.Like
	err := r.db.Where("from_user_id = ? AND to_user_id = ?", fromID, toID).
		Order("created_at DESC").
		First(&like).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &like, nil
}

// HasRecentInBucket reports whether the source has any like after since whose
// originating ping fell in the given geohash bucket.
func (r *LikeRepository) HasRecentInBucket(fromID uint, bucket string, since time.Time) (bool, error) {
	var count int64
	err := r.db.Model(&models.Like{}).
		Where("from_user_id = ? AND geohash = ? AND created_at >= ?", fromID, bucket, since).
		Limit(1).
		Count(&count).Error
	return count > 0, err
}

// ExistsBetween reports whether the ordered pair has ever exchanged a like.
func (r *LikeRepository) ExistsBetween(fromID, toID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Like{}).
		Where("from_user_id = ? AND to_user_id = ?", fromID, toID).
		Limit(1).
		Count(&count).Error
	return count > 0, err
}

func (r *LikeRepository) CountReceivedBy(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Like{}).
		Where("to_user_id = ?", userID).
		Count(&count).Error
	return count, err
}

// RecentInvolving returns the newest likes the user sent or received, capped.
func (r *LikeRepository) RecentInvolving(userID uint, limit int) ([]models.Like, error) {
	var likes []models.Like
	err := r.db.Where("from_user_id = ? OR to_user_id = ?", userID, userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&likes).Error
	return likes, err
}

// LeaderboardRow pairs a user with their received-like count.
type LeaderboardRow struct {
	User          models.User
	LikesReceived int64
}

// Leaderboard returns users ordered by received likes, highest first. Users
// with zero likes still appear, ranked last.
func (r *LikeRepository) Leaderboard(limit int) ([]LeaderboardRow, error) {
	var rows []struct {
		ID         uint
		TelegramID string
		Username   string
		FirstName  string
		LastName   string
		PhotoURL   string
		AvatarURL  string
		Score      int64
	}
	err := r.db.Table("users u").
		Select("u.id, u.telegram_id, u.username, u.first_name, u.last_name, u.photo_url, u.avatar_url, COUNT(l.id) AS score").
		Joins("LEFT JOIN likes l ON l.to_user_id = u.id").
		Where("u.deleted_at IS NULL").
		Group("u.id").
		Order("score DESC, u.id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]LeaderboardRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, LeaderboardRow{
			User: models.User{
				ID:         row.ID,
				TelegramID: row.TelegramID,
				Username:   row.Username,
				FirstName:  row.FirstName,
				LastName:   row.LastName,
				PhotoURL:   row.PhotoURL,
				AvatarURL:  row.AvatarURL,
			},
			LikesReceived: row.Score,
		})
	}
	return out, nil
}
