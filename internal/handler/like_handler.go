package handler

import (
	"errors"
	"log"
	"net/http"

	"spotlike/internal/engine"
	"spotlike/internal/middleware"

	"github.com/gin-gonic/gin"
)

type LikeHandler struct {
	eng *engine.Engine
}

func NewLikeHandler(eng *engine.Engine) *LikeHandler {
	return &LikeHandler{eng: eng}
}

type LikeRequest struct {
	TargetUserID uint `json:"target_user_id" binding:"required"`
	// Lat/Lon are informational only. The engine takes the source position
	// from their last recorded heartbeat, never from this request.
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// Like runs the full validation chain and records the like when it passes.
func (h *LikeHandler) Like(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req LikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	_, err := h.eng.Like(userID, req.TargetUserID)
	if err != nil {
		var rej *engine.Rejection
		if errors.As(err, &rej) {
			body := gin.H{"ok": false, "code": rej.Code, "message": rej.Message}
			if rej.RetryAfter > 0 {
				body["retry_after_seconds"] = int(rej.RetryAfter.Seconds())
			}
			c.JSON(rejectionStatus(rej.Code), body)
			return
		}
		log.Printf("[like] from=%d to=%d err=%v", userID, req.TargetUserID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "like failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "message": "like recorded"})
}

func rejectionStatus(code engine.Code) int {
	switch code {
	case engine.CodeNotFound:
		return http.StatusNotFound
	case engine.CodePairCooldown, engine.CodeBucketCooldown:
		return http.StatusTooManyRequests
	default:
		return http.StatusBadRequest
	}
}
