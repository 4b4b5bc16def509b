package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"spotlike/config"
	"spotlike/internal/engine"
	"spotlike/internal/handler"
	"spotlike/internal/models"

	"github.com/gin-gonic/gin"
)

type memUsers struct {
	users map[uint]*models.User
}

func (m *memUsers) GetByID(id uint) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	return u, nil
}

type memLocations struct {
	pings []models.LocationPing
}

func (m *memLocations) Append(p *models.LocationPing) error {
	p.ID = uint(len(m.pings) + 1)
	m.pings = append(m.pings, *p)
	return nil
}

func (m *memLocations) LatestByUserID(userID uint, since time.Time) (*models.LocationPing, error) {
	var latest *models.LocationPing
	for i := range m.pings {
		p := m.pings[i]
		if p.UserID != userID || p.CreatedAt.Before(since) {
			continue
		}
		if latest == nil || p.CreatedAt.After(latest.CreatedAt) {
			cp := p
			latest = &cp
		}
	}
	return latest, nil
}

func (m *memLocations) LatestPerUser(since time.Time, exclude uint) ([]models.LocationPing, error) {
	byUser := make(map[uint]models.LocationPing)
	for _, p := range m.pings {
		if p.UserID == exclude || p.CreatedAt.Before(since) {
			continue
		}
		if cur, ok := byUser[p.UserID]; !ok || p.CreatedAt.After(cur.CreatedAt) {
			byUser[p.UserID] = p
		}
	}
	out := make([]models.LocationPing, 0, len(byUser))
	for _, p := range byUser {
		out = append(out, p)
	}
	return out, nil
}

type memLikes struct {
	likes []models.Like
}

func (m *memLikes) Create(l *models.Like) error {
	l.ID = uint(len(m.likes) + 1)
	m.likes = append(m.likes, *l)
	return nil
}

func (m *memLikes) LastBetween(fromID, toID uint) (*models.Like, error) {
	var last *models.Like
	for i := range m.likes {
		l := m.likes[i]
		if l.FromUserID != fromID || l.ToUserID != toID {
			continue
		}
		if last == nil || l.CreatedAt.After(last.CreatedAt) {
			cp := l
			last = &cp
		}
	}
	return last, nil
}

func (m *memLikes) HasRecentInBucket(fromID uint, bucket string, since time.Time) (bool, error) {
	for _, l := range m.likes {
		if l.FromUserID == fromID && l.Geohash == bucket && !l.CreatedAt.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memLikes) CountReceivedBy(userID uint) (int64, error) {
	var n int64
	for _, l := range m.likes {
		if l.ToUserID == userID {
			n++
		}
	}
	return n, nil
}

// newLikeRouter builds a gin engine with the like route and a stub identity:
// the test injects the caller id the way AuthRequired would.
func newLikeRouter(eng *engine.Engine, callerID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	likeHandler := handler.NewLikeHandler(eng)
	r.POST("/api/v1/likes", func(c *gin.Context) {
		c.Set("user_id", callerID)
		likeHandler.Like(c)
	})
	return r
}

func testEngine() (*engine.Engine, *memUsers, *memLocations) {
	users := &memUsers{users: map[uint]*models.User{
		1: {ID: 1, TelegramID: "100", Username: "alice"},
		2: {ID: 2, TelegramID: "200", Username: "bob"},
	}}
	locs := &memLocations{}
	likes := &memLikes{}
	cfg := config.EngineConfig{
		RadiusMeters:     50,
		LikeCooldown:     300 * time.Second,
		GeohashCooldown:  900 * time.Second,
		FreshnessWindow:  5 * time.Minute,
		GeohashPrecision: 7,
	}
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	eng := engine.NewWithClock(cfg, users, locs, likes, func() time.Time { return now })
	return eng, users, locs
}

func postLike(t *testing.T, r *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/likes", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestLikeEndpointSuccess(t *testing.T) {
	t.Parallel()

	eng, _, _ := testEngine()
	if _, err := eng.Heartbeat(1, 10.0, 20.0); err != nil {
		t.Fatal(err)
	}
	if _, err := eng.Heartbeat(2, 10.0003, 20.0); err != nil {
		t.Fatal(err)
	}
	r := newLikeRouter(eng, 1)

	rr := postLike(t, r, `{"target_user_id":2}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestLikeEndpointSelfLike400(t *testing.T) {
	t.Parallel()

	eng, _, _ := testEngine()
	r := newLikeRouter(eng, 1)

	rr := postLike(t, r, `{"target_user_id":1}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestLikeEndpointUnknownTarget404(t *testing.T) {
	t.Parallel()

	eng, _, _ := testEngine()
	if _, err := eng.Heartbeat(1, 10.0, 20.0); err != nil {
		t.Fatal(err)
	}
	r := newLikeRouter(eng, 1)

	rr := postLike(t, r, `{"target_user_id":99}`)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestLikeEndpointCooldown429(t *testing.T) {
	t.Parallel()

	eng, _, _ := testEngine()
	if _, err := eng.Heartbeat(1, 10.0, 20.0); err != nil {
		t.Fatal(err)
	}
	if _, err := eng.Heartbeat(2, 10.0003, 20.0); err != nil {
		t.Fatal(err)
	}
	r := newLikeRouter(eng, 1)

	if rr := postLike(t, r, `{"target_user_id":2}`); rr.Code != http.StatusOK {
		t.Fatalf("first like: expected 200, got %d", rr.Code)
	}
	rr := postLike(t, r, `{"target_user_id":2}`)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d body=%s", rr.Code, rr.Body.String())
	}
	var body struct {
		Code              string `json:"code"`
		RetryAfterSeconds int    `json:"retry_after_seconds"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json response: %v body=%s", err, rr.Body.String())
	}
	if body.Code != string(engine.CodePairCooldown) {
		t.Fatalf("expected pair cooldown code, got %q", body.Code)
	}
	if body.RetryAfterSeconds != 300 {
		t.Fatalf("expected 300 s retry delay, got %d", body.RetryAfterSeconds)
	}
}

func TestLikeEndpointStaleSource400(t *testing.T) {
	t.Parallel()

	eng, _, _ := testEngine()
	if _, err := eng.Heartbeat(2, 10.0003, 20.0); err != nil {
		t.Fatal(err)
	}
	r := newLikeRouter(eng, 1)

	rr := postLike(t, r, `{"target_user_id":2}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
}
