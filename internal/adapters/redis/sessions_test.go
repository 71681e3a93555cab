package redis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/lumiclabs/EventHub/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*SessionStore, redismock.ClientMock) {
	t.Helper()
	client, mock := redismock.NewClientMock()
	return NewSessionStore(client, "test-secret", time.Hour), mock
}

func TestSessionStore_GetRoundTrip(t *testing.T) {
	store, mock := newTestStore(t)
	ctx := context.Background()

	sess := Session{UserID: uuid.New(), Name: "Ada", Role: domain.RoleOrganizer}
	data, err := json.Marshal(sess)
	require.NoError(t, err)

	token := "aabbccddeeff00112233445566778899"
	mock.ExpectGet(sessionPrefix + token).SetVal(string(data))

	gotToken, got, err := store.Get(ctx, store.sign(token))
	require.NoError(t, err)
	assert.Equal(t, token, gotToken)
	assert.Equal(t, sess.UserID, got.UserID)
	assert.Equal(t, domain.RoleOrganizer, got.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionStore_GetRejectsTamperedCookie(t *testing.T) {
	store, mock := newTestStore(t)

	// Signature from a different secret must never hit Redis.
	other := NewSessionStore(nil, "other-secret", time.Hour)
	_, _, err := store.Get(context.Background(), other.sign("sometoken"))

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionStore_GetMissingSession(t *testing.T) {
	store, mock := newTestStore(t)

	token := "00112233445566778899aabbccddeeff"
	mock.ExpectGet(sessionPrefix + token).RedisNil()

	_, _, err := store.Get(context.Background(), store.sign(token))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSessionStore_Destroy(t *testing.T) {
	store, mock := newTestStore(t)

	token := "ffeeddccbbaa99887766554433221100"
	mock.ExpectDel(sessionPrefix + token).SetVal(1)

	require.NoError(t, store.Destroy(context.Background(), token))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSession_PopFlashes(t *testing.T) {
	var sess Session
	sess.AddFlash("success", "Booking confirmed")
	sess.AddFlash("danger", "No tickets available")

	flashes := sess.PopFlashes()
	require.Len(t, flashes, 2)
	assert.Equal(t, "Booking confirmed", flashes[0].Message)

	assert.Empty(t, sess.PopFlashes(), "flashes are one-shot")
}

func TestSessionStore_VerifyMalformedCookie(t *testing.T) {
	store, _ := newTestStore(t)

	_, ok := store.verify("no-dot-separator")
	assert.False(t, ok)

	_, ok = store.verify("")
	assert.False(t, ok)
}
