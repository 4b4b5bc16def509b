package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// TelegramUser is the user payload embedded in WebApp init data.
type TelegramUser struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	PhotoURL  string `json:"photo_url"`
}

var ErrInvalidInitData = errors.New("invalid init data")

// VerifyInitData authenticates a Telegram WebApp initData query string and
// returns the user it carries. Per the Bot API: the secret key is
// HMAC-SHA256("WebAppData", bot_token) and the signed message is every
// key=value pair except "hash", sorted by key, joined with newlines.
func VerifyInitData(botToken, initData string) (*TelegramUser, error) {
	values, err := url.ParseQuery(initData)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInitData, err)
	}
	received := values.Get("hash")
	if received == "" {
		return nil, fmt.Errorf("%w: no hash", ErrInvalidInitData)
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		if k != "hash" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+values.Get(k))
	}
	checkString := strings.Join(pairs, "\n")

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(botToken))
	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(checkString))
	calculated := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(calculated), []byte(received)) {
		return nil, fmt.Errorf("%w: hash mismatch", ErrInvalidInitData)
	}

	userJSON := values.Get("user")
	if userJSON == "" {
		return nil, fmt.Errorf("%w: no user in init data", ErrInvalidInitData)
	}
	var u TelegramUser
	if err := json.Unmarshal([]byte(userJSON), &u); err != nil {
		return nil, fmt.Errorf("%w: bad user payload: %v", ErrInvalidInitData, err)
	}
	if u.ID == 0 {
		return nil, fmt.Errorf("%w: user id missing", ErrInvalidInitData)
	}
	return &u, nil
}
