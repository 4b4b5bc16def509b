package handler

import (
	"net/http"
	"strconv"

	"spotlike/internal/middleware"
	"spotlike/internal/repository"

	"github.com/gin-gonic/gin"
)

const recentLikesCap = 20

type ProfileHandler struct {
	userRepo *repository.UserRepository
	locRepo  *repository.LocationRepository
	likeRepo *repository.LikeRepository
}

func NewProfileHandler(userRepo *repository.UserRepository, locRepo *repository.LocationRepository, likeRepo *repository.LikeRepository) *ProfileHandler {
	return &ProfileHandler{userRepo: userRepo, locRepo: locRepo, likeRepo: likeRepo}
}

// GetProfile returns a user's record, mutual-like flags relative to the
// caller, their last known location and their recent like events.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	callerID := middleware.GetUserID(c)
	targetID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || targetID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	u, err := h.userRepo.GetByID(uint(targetID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	if u == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	received, _ := h.likeRepo.CountReceivedBy(u.ID)
	youLikedThem, _ := h.likeRepo.ExistsBetween(callerID, u.ID)
	theyLikedYou, _ := h.likeRepo.ExistsBetween(u.ID, callerID)

	var lastLocation gin.H
	if ping, err := h.locRepo.LastKnownByUserID(u.ID); err == nil && ping != nil {
		lastLocation = gin.H{"lat": ping.Latitude, "lon": ping.Longitude}
	}

	recent, err := h.likeRepo.RecentInvolving(u.ID, recentLikesCap)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	events := make([]gin.H, 0, len(recent))
	for _, lk := range recent {
		events = append(events, gin.H{
			"from_user_id": lk.FromUserID,
			"to_user_id":   lk.ToUserID,
			"lat":          lk.Latitude,
			"lon":          lk.Longitude,
			"created_at":   lk.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"user":           userView(u, received),
		"you_liked_them": youLikedThem,
		"they_liked_you": theyLikedYou,
		"last_location":  lastLocation,
		"recent_likes":   events,
	})
}
