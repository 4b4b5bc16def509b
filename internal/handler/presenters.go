package handler

import (
	"spotlike/internal/models"

	"github.com/gin-gonic/gin"
)

// userView is the wire shape for a user record plus their received-like
// count, shared by auth, heartbeat, leaderboard and profile responses.
func userView(u *models.User, likesReceived int64) gin.H {
	avatar := u.AvatarURL
	if avatar == "" {
		avatar = u.PhotoURL
	}
	return gin.H{
		"id":             u.ID,
		"telegram_id":    u.TelegramID,
		"display_name":   u.DisplayName(),
		"username":       u.Username,
		"first_name":     u.FirstName,
		"last_name":      u.LastName,
		"photo_url":      avatar,
		"likes_received": likesReceived,
	}
}
