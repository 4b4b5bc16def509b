package engine

import (
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"spotlike/config"
	"spotlike/internal/models"
	"spotlike/pkg/geo"
)

// UserStore, LocationStore and LikeStore are the slices of the storage layer
// the engine depends on. Lookups that may legitimately find nothing return
// nil, nil; the GORM repositories satisfy these directly.
type UserStore interface {
	GetByID(id uint) (*models.User, error)
}

type LocationStore interface {
	Append(ping *models.LocationPing) error
	LatestByUserID(userID uint, since time.Time) (*models.LocationPing, error)
	LatestPerUser(since time.Time, excludeUserID uint) ([]models.LocationPing, error)
}

type LikeStore interface {
	Create(like *models.Like) error
	LastBetween(fromID, toID uint) (*models.Like, error)
	HasRecentInBucket(fromID uint, bucket string, since time.Time) (bool, error)
	CountReceivedBy(userID uint) (int64, error)
}

// NearbyUser is one proximity result. LikesReceived is display enrichment.
type NearbyUser struct {
	User           models.User
	DistanceMeters float64
	LikesReceived  int64
}

// Engine is the proximity-gated interaction core: it owns every write to the
// location and like ledgers and every proximity/eligibility decision. All
// state lives in storage; the only in-process state is the per-pair commit
// lock table.
type Engine struct {
	cfg       config.EngineConfig
	users     UserStore
	locations LocationStore
	likes     LikeStore
	now       func() time.Time

	mu        sync.Mutex
	pairLocks map[string]*sync.Mutex
}

func New(cfg config.EngineConfig, users UserStore, locations LocationStore, likes LikeStore) *Engine {
	return NewWithClock(cfg, users, locations, likes, func() time.Time { return time.Now().UTC() })
}

// NewWithClock pins the engine's clock; cooldown-boundary tests rely on it.
func NewWithClock(cfg config.EngineConfig, users UserStore, locations LocationStore, likes LikeStore, now func() time.Time) *Engine {
	return &Engine{
		cfg:       cfg,
		users:     users,
		locations: locations,
		likes:     likes,
		now:       now,
		pairLocks: make(map[string]*sync.Mutex),
	}
}

// freshCutoff is the oldest CreatedAt still considered a live position.
func (e *Engine) freshCutoff(now time.Time) time.Time {
	return now.Add(-e.cfg.FreshnessWindow)
}

// Heartbeat appends a location ping for the user, tagging it with its geohash
// bucket at the configured precision. Prior pings are never touched.
func (e *Engine) Heartbeat(userID uint, lat, lon float64) (*models.LocationPing, error) {
	ping := &models.LocationPing{
		UserID:    userID,
		Latitude:  lat,
		Longitude: lon,
		Geohash:   geo.EncodeBucket(lat, lon, e.cfg.GeohashPrecision),
		CreatedAt: e.now(),
	}
	if err := e.locations.Append(ping); err != nil {
		return nil, fmt.Errorf("append ping: %w", err)
	}
	return ping, nil
}

// Nearby returns every other user whose newest fresh ping lies within the
// configured radius of the supplied coordinate, closest first. The caller's
// live coordinate is authoritative for this read-only query; their stored
// pings are not consulted.
func (e *Engine) Nearby(callerID uint, lat, lon float64) ([]NearbyUser, error) {
	pings, err := e.locations.LatestPerUser(e.freshCutoff(e.now()), callerID)
	if err != nil {
		return nil, fmt.Errorf("latest pings: %w", err)
	}
	out := make([]NearbyUser, 0, len(pings))
	for _, ping := range pings {
		d := geo.DistanceMeters(lat, lon, ping.Latitude, ping.Longitude)
		if d > e.cfg.RadiusMeters {
			continue
		}
		received, err := e.likes.CountReceivedBy(ping.UserID)
		if err != nil {
			return nil, fmt.Errorf("count received: %w", err)
		}
		out = append(out, NearbyUser{
			User:           ping.User,
			DistanceMeters: math.Round(d*100) / 100,
			LikesReceived:  received,
		})
	}
	// Stable: equal distances keep the per-user scan's user-id order.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DistanceMeters < out[j].DistanceMeters
	})
	return out, nil
}

// Like validates and records a like from source to target. Checks run in a
// fixed order and the first failure wins; nothing is written until every
// check passes. Validation and commit for one ordered pair are serialized so
// two concurrent identical attempts cannot both clear the cooldown.
func (e *Engine) Like(sourceID, targetID uint) (*models.Like, error) {
	if sourceID == targetID {
		return nil, reject(CodeSelfLike, "you cannot like yourself")
	}

	unlock := e.lockPair(sourceID, targetID)
	defer unlock()

	target, err := e.users.GetByID(targetID)
	if err != nil {
		return nil, fmt.Errorf("load target: %w", err)
	}
	if target == nil {
		return nil, reject(CodeNotFound, "user not found")
	}

	now := e.now()
	cutoff := e.freshCutoff(now)

	targetPing, err := e.locations.LatestByUserID(targetID, cutoff)
	if err != nil {
		return nil, fmt.Errorf("target ping: %w", err)
	}
	if targetPing == nil {
		return nil, reject(CodeStaleTarget, "target is not nearby (no fresh location)")
	}

	// The source's position comes from their own last recorded ping, never
	// from request fields, so a client cannot claim to stand closer than
	// its heartbeats reported.
	sourcePing, err := e.locations.LatestByUserID(sourceID, cutoff)
	if err != nil {
		return nil, fmt.Errorf("source ping: %w", err)
	}
	if sourcePing == nil {
		return nil, reject(CodeStaleSource, "update your location first")
	}

	dist := geo.DistanceMeters(sourcePing.Latitude, sourcePing.Longitude, targetPing.Latitude, targetPing.Longitude)
	if dist > e.cfg.RadiusMeters {
		return nil, reject(CodeOutOfRange, fmt.Sprintf("you must be within %.0f m of each other", e.cfg.RadiusMeters))
	}

	last, err := e.likes.LastBetween(sourceID, targetID)
	if err != nil {
		return nil, fmt.Errorf("last like: %w", err)
	}
	if last != nil {
		if remaining := e.cfg.LikeCooldown - now.Sub(last.CreatedAt); remaining > 0 {
			r := reject(CodePairCooldown, fmt.Sprintf("you can like this user again in ~%d s", int(remaining.Seconds())))
			r.RetryAfter = remaining
			return nil, r
		}
	}

	// Anti-abuse: one like per geohash cell per window, regardless of target.
	// A stationary source cannot farm likes by cycling victims.
	recent, err := e.likes.HasRecentInBucket(sourceID, sourcePing.Geohash, now.Add(-e.cfg.GeohashCooldown))
	if err != nil {
		return nil, fmt.Errorf("bucket check: %w", err)
	}
	if recent {
		return nil, reject(CodeBucketCooldown, "too many likes from one spot, move somewhere else or wait")
	}

	like := &models.Like{
		FromUserID: sourceID,
		ToUserID:   targetID,
		Latitude:   sourcePing.Latitude,
		Longitude:  sourcePing.Longitude,
		Geohash:    sourcePing.Geohash,
		CreatedAt:  now,
	}
	if err := e.likes.Create(like); err != nil {
		return nil, fmt.Errorf("record like: %w", err)
	}
	return like, nil
}

// lockPair serializes validation+commit per ordered (source, target) pair.
// Locks are kept for the process lifetime; the table is bounded by the number
// of distinct pairs seen.
func (e *Engine) lockPair(sourceID, targetID uint) func() {
	key := fmt.Sprintf("%d:%d", sourceID, targetID)
	e.mu.Lock()
	l, ok := e.pairLocks[key]
	if !ok {
		l = &sync.Mutex{}
		e.pairLocks[key] = l
	}
	e.mu.Unlock()
	l.Lock()
	return l.Unlock
}
