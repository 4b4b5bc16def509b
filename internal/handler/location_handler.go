package handler

import (
	"net/http"

	"spotlike/internal/engine"
	"spotlike/internal/middleware"
	"spotlike/internal/repository"
	"spotlike/pkg/geo"

	"github.com/gin-gonic/gin"
)

type LocationHandler struct {
	eng      *engine.Engine
	userRepo *repository.UserRepository
	locRepo  *repository.LocationRepository
	likeRepo *repository.LikeRepository
}

func NewLocationHandler(eng *engine.Engine, userRepo *repository.UserRepository, locRepo *repository.LocationRepository, likeRepo *repository.LikeRepository) *LocationHandler {
	return &LocationHandler{eng: eng, userRepo: userRepo, locRepo: locRepo, likeRepo: likeRepo}
}

// Pointers so that 0.0, a legal coordinate, still binds.
type HeartbeatRequest struct {
	Latitude  *float64 `json:"latitude" binding:"required"`
	Longitude *float64 `json:"longitude" binding:"required"`
}

// Heartbeat appends a location ping for the caller and echoes their record.
func (h *LocationHandler) Heartbeat(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req HeartbeatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !geo.ValidCoordinate(*req.Latitude, *req.Longitude) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "latitude/longitude out of range"})
		return
	}
	u, err := h.userRepo.GetByID(userID)
	if err != nil || u == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unknown user"})
		return
	}
	if _, err := h.eng.Heartbeat(userID, *req.Latitude, *req.Longitude); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "heartbeat failed"})
		return
	}
	received, _ := h.likeRepo.CountReceivedBy(u.ID)
	c.JSON(http.StatusOK, gin.H{"user": userView(u, received)})
}

// GetMyLocation returns the caller's last recorded ping, fresh or not.
func (h *LocationHandler) GetMyLocation(c *gin.Context) {
	userID := middleware.GetUserID(c)
	ping, err := h.locRepo.LastKnownByUserID(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	if ping == nil {
		c.JSON(http.StatusOK, gin.H{"latitude": nil, "longitude": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"latitude":    ping.Latitude,
		"longitude":   ping.Longitude,
		"geohash":     ping.Geohash,
		"recorded_at": ping.CreatedAt,
	})
}
