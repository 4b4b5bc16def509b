package auth_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/url"
	"sort"
	"strings"
	"testing"

	"spotlike/internal/auth"
)

const testBotToken = "110201543:AAHdqTcvCH1vGWJxfSeofSAs0K5PALDsaw"

// signInitData produces init data the way Telegram does: data-check-string is
// the sorted key=value pairs joined by newlines, signed with
// HMAC-SHA256("WebAppData", bot_token).
func signInitData(botToken string, fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+fields[k])
	}
	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(botToken))
	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(strings.Join(pairs, "\n")))
	sig := hex.EncodeToString(mac.Sum(nil))

	values := url.Values{}
	for k, v := range fields {
		values.Set(k, v)
	}
	values.Set("hash", sig)
	return values.Encode()
}

func TestVerifyInitDataValid(t *testing.T) {
	t.Parallel()

	initData := signInitData(testBotToken, map[string]string{
		"auth_date": "1717243200",
		"query_id":  "AAGdF6IQAAAAAJ0XohDhrOrc",
		"user":      `{"id":12345,"username":"alice","first_name":"Alice","last_name":"Smith","photo_url":"https://t.me/a.jpg"}`,
	})
	u, err := auth.VerifyInitData(testBotToken, initData)
	if err != nil {
		t.Fatalf("expected valid init data, got %v", err)
	}
	if u.ID != 12345 || u.Username != "alice" || u.FirstName != "Alice" {
		t.Fatalf("unexpected user payload: %+v", u)
	}
}

func TestVerifyInitDataTampered(t *testing.T) {
	t.Parallel()

	initData := signInitData(testBotToken, map[string]string{
		"auth_date": "1717243200",
		"user":      `{"id":12345,"username":"alice"}`,
	})
	tampered := strings.Replace(initData, "alice", "mallory", 1)
	if _, err := auth.VerifyInitData(testBotToken, tampered); !errors.Is(err, auth.ErrInvalidInitData) {
		t.Fatalf("expected ErrInvalidInitData, got %v", err)
	}
}

func TestVerifyInitDataWrongBotToken(t *testing.T) {
	t.Parallel()

	initData := signInitData("other-bot-token", map[string]string{
		"auth_date": "1717243200",
		"user":      `{"id":12345}`,
	})
	if _, err := auth.VerifyInitData(testBotToken, initData); !errors.Is(err, auth.ErrInvalidInitData) {
		t.Fatalf("expected ErrInvalidInitData, got %v", err)
	}
}

func TestVerifyInitDataMissingHash(t *testing.T) {
	t.Parallel()

	if _, err := auth.VerifyInitData(testBotToken, "auth_date=1717243200&user=%7B%22id%22%3A1%7D"); !errors.Is(err, auth.ErrInvalidInitData) {
		t.Fatalf("expected ErrInvalidInitData, got %v", err)
	}
}

func TestVerifyInitDataMissingUser(t *testing.T) {
	t.Parallel()

	initData := signInitData(testBotToken, map[string]string{
		"auth_date": "1717243200",
	})
	if _, err := auth.VerifyInitData(testBotToken, initData); !errors.Is(err, auth.ErrInvalidInitData) {
		t.Fatalf("expected ErrInvalidInitData, got %v", err)
	}
}
