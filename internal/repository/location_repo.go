package repository

import (
	"errors"
	"time"

	"spotlike/internal/models"

	"gorm.io/gorm"
)

// LocationRepository is the append-only location ledger. Pings are inserted,
// never updated or deleted; freshness filtering happens at query time.
type LocationRepository struct {
	db *gorm.DB
}

func NewLocationRepository(db *gorm.DB) *LocationRepository {
	return &LocationRepository{db: db}
}

func (r *LocationRepository) Append(ping *models.LocationPing) error {
	return r.db.Create(ping).Error
}

// LatestByUserID returns the user's newest ping with CreatedAt >= since, or
// nil, nil when no ping qualifies.
func (r *LocationRepository) LatestByUserID(userID uint, since time.Time) (*models.LocationPing, error) {
	var ping models.LocationPing
	err := r.db.Where("user_id = ? AND created_at >= ?", userID, since).
		Order("created_at DESC").
		First(&ping).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ping, nil
}

// LastKnownByUserID ignores the freshness window. Display only, never used
// for like eligibility.
func (r *LocationRepository) LastKnownByUserID(userID uint) (*models.LocationPing, error) {
	var ping models.LocationPing
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&ping).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ping, nil
}

// LatestPerUser returns each other user's single newest ping, restricted to
// CreatedAt >= since, with the owning user preloaded. Grouped-max join keeps
// exactly one row per user; user-id ordering makes the scan deterministic.
func (r *LocationRepository) LatestPerUser(since time.Time, excludeUserID uint) ([]models.LocationPing, error) {
	sub := r.db.Model(&models.LocationPing{}).
		Select("user_id, MAX(created_at) AS max_ts").
		Group("user_id")
	var pings []models.LocationPing
	err := r.db.Model(&models.LocationPing{}).
		Joins("JOIN (?) latest ON latest.user_id = location_pings.user_id AND latest.max_ts = location_pings.created_at", sub).
		Where("location_pings.created_at >= ?", since).
		Where("location_pings.user_id != ?", excludeUserID).
		Order("location_pings.user_id ASC").
		Preload("User").
		Find(&pings).Error
	if err != nil {
		return nil, err
	}
	return pings, nil
}
