package handler

import (
	"net/http"
	"strconv"
	"strings"

	"spotlike/internal/middleware"
	"spotlike/internal/repository"
	"spotlike/pkg/cloudinary"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type UploadHandler struct {
	cloud    cloudinary.Client
	userRepo *repository.UserRepository
}

func NewUploadHandler(cloud cloudinary.Client, userRepo *repository.UserRepository) *UploadHandler {
	return &UploadHandler{cloud: cloud, userRepo: userRepo}
}

// UploadAvatar stores a custom avatar and sets it as the user's display
// photo, overriding whatever Telegram reported.
func (h *UploadHandler) UploadAvatar(c *gin.Context) {
	if h.cloud == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "uploads are not configured"})
		return
	}
	userID := middleware.GetUserID(c)
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file required"})
		return
	}
	u, err := h.userRepo.GetByID(userID)
	if err != nil || u == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unknown user"})
		return
	}
	folder := "spotlike/avatars/" + strconv.FormatUint(uint64(userID), 10)
	publicID := "avatar_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:16]

	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read file"})
		return
	}
	defer f.Close()

	url, err := h.cloud.UploadImage(c.Request.Context(), f, folder, publicID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}
	u.AvatarURL = url
	if err := h.userRepo.Update(u); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}
