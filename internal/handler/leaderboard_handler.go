package handler

import (
	"net/http"
	"strconv"

	"spotlike/internal/repository"

	"github.com/gin-gonic/gin"
)

type LeaderboardHandler struct {
	likeRepo *repository.LikeRepository
}

func NewLeaderboardHandler(likeRepo *repository.LikeRepository) *LeaderboardHandler {
	return &LeaderboardHandler{likeRepo: likeRepo}
}

// Leaderboard returns the top users by received likes.
func (h *LeaderboardHandler) Leaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	rows, err := h.likeRepo.Leaderboard(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "leaderboard failed"})
		return
	}
	out := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		out = append(out, gin.H{
			"user":           userView(&row.User, row.LikesReceived),
			"likes_received": row.LikesReceived,
		})
	}
	c.JSON(http.StatusOK, gin.H{"results": out})
}
