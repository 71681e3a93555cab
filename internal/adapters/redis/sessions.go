// Package redis holds the Redis-backed adapters: the server-side session
// store and the counter plumbing used by the rate limiter.
package redis

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lumiclabs/EventHub/internal/domain"
	"github.com/redis/go-redis/v9"
)

const sessionPrefix = "sess:"

// Flash is a one-shot notice rendered on the next page load.
type Flash struct {
	Level   string `json:"level"` // success, info, danger
	Message string `json:"message"`
}

// Session is the per-login server-side state. The browser only ever holds
// the signed random token that keys it.
type Session struct {
	UserID  uuid.UUID   `json:"user_id"`
	Name    string      `json:"name"`
	Role    domain.Role `json:"role"`
	Flashes []Flash     `json:"flashes,omitempty"`
}

// AddFlash queues a notice for the next rendered page.
func (s *Session) AddFlash(level, message string) {
	s.Flashes = append(s.Flashes, Flash{Level: level, Message: message})
}

// PopFlashes returns queued notices and clears them.
func (s *Session) PopFlashes() []Flash {
	f := s.Flashes
	s.Flashes = nil
	return f
}

type SessionStore struct {
	client *redis.Client
	secret []byte
	ttl    time.Duration
}

func NewSessionStore(client *redis.Client, secret string, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, secret: []byte(secret), ttl: ttl}
}

// Create stores the session under a fresh random token and returns the
// signed cookie value.
func (s *SessionStore) Create(ctx context.Context, sess Session) (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	token := hex.EncodeToString(buf)

	if err := s.write(ctx, token, sess); err != nil {
		return "", err
	}
	return s.sign(token), nil
}

// Get resolves a signed cookie value to its session. A forged signature or
// expired token yields domain.ErrNotFound.
func (s *SessionStore) Get(ctx context.Context, cookie string) (string, *Session, error) {
	token, ok := s.verify(cookie)
	if !ok {
		return "", nil, domain.ErrNotFound
	}

	val, err := s.client.Get(ctx, sessionPrefix+token).Bytes()
	if err == redis.Nil {
		return "", nil, domain.ErrNotFound
	}
	if err != nil {
		return "", nil, err
	}

	var sess Session
	if err := json.Unmarshal(val, &sess); err != nil {
		return "", nil, err
	}
	return token, &sess, nil
}

// Save rewrites the session in place, refreshing its TTL.
func (s *SessionStore) Save(ctx context.Context, token string, sess *Session) error {
	return s.write(ctx, token, *sess)
}

func (s *SessionStore) Destroy(ctx context.Context, token string) error {
	return s.client.Del(ctx, sessionPrefix+token).Err()
}

func (s *SessionStore) write(ctx context.Context, token string, sess Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionPrefix+token, data, s.ttl).Err()
}

// sign appends an HMAC so a tampered cookie never reaches Redis.
func (s *SessionStore) sign(token string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(token))
	return token + "." + hex.EncodeToString(mac.Sum(nil))
}

func (s *SessionStore) verify(cookie string) (string, bool) {
	token, sig, ok := strings.Cut(cookie, ".")
	if !ok {
		return "", false
	}
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(token))
	want := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(sig), []byte(want)) {
		return "", false
	}
	return token, true
}
