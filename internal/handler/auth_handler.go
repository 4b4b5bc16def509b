package handler

import (
	"log"
	"net/http"
	"strconv"

	"spotlike/config"
	"spotlike/internal/auth"
	"spotlike/internal/models"
	"spotlike/internal/repository"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	cfg      *config.Config
	userRepo *repository.UserRepository
	likeRepo *repository.LikeRepository
}

func NewAuthHandler(cfg *config.Config, userRepo *repository.UserRepository, likeRepo *repository.LikeRepository) *AuthHandler {
	return &AuthHandler{cfg: cfg, userRepo: userRepo, likeRepo: likeRepo}
}

type TelegramAuthRequest struct {
	InitData string `json:"init_data" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Telegram verifies WebApp init data, creates the user on first contact or
// refreshes their display attributes on every later one, and issues a token
// pair. The Telegram id is the identity; everything else is mutable.
func (h *AuthHandler) Telegram(c *gin.Context) {
	var req TelegramAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	tgUser, err := auth.VerifyInitData(h.cfg.Telegram.BotToken, req.InitData)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "init data verification failed"})
		return
	}

	telegramID := formatTelegramID(tgUser.ID)
	u, err := h.userRepo.GetByTelegramID(telegramID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	if u == nil {
		u = &models.User{TelegramID: telegramID}
	}
	u.Username = tgUser.Username
	u.FirstName = tgUser.FirstName
	u.LastName = tgUser.LastName
	u.PhotoURL = tgUser.PhotoURL
	if u.ID == 0 {
		err = h.userRepo.Create(u)
	} else {
		err = h.userRepo.Update(u)
	}
	if err != nil {
		log.Printf("[auth] upsert failed: telegram_id=%s err=%v", telegramID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		return
	}

	access, err := auth.GenerateAccessToken(&h.cfg.JWT, u.ID, u.TelegramID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
		return
	}
	refresh, err := auth.GenerateRefreshToken(&h.cfg.JWT, u.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
		return
	}
	received, _ := h.likeRepo.CountReceivedBy(u.ID)
	c.JSON(http.StatusOK, gin.H{
		"user":          userView(u, received),
		"access_token":  access,
		"refresh_token": refresh,
	})
}

// Refresh exchanges a refresh token for a new access token.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID, err := auth.ParseRefreshToken(&h.cfg.JWT, req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired refresh token"})
		return
	}
	u, err := h.userRepo.GetByID(userID)
	if err != nil || u == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unknown user"})
		return
	}
	access, err := auth.GenerateAccessToken(&h.cfg.JWT, u.ID, u.TelegramID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": access})
}

func formatTelegramID(id int64) string {
	return strconv.FormatInt(id, 10)
}
