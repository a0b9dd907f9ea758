package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atlas/errs"
)

func TestRegisterCreatesIdentityWithPresence(t *testing.T) {
	conn := newTestDB(t)
	users := NewUserService(conn)
	presence := NewPresenceService(conn, nil)

	user := registerUser(t, users, "atlas-abc123", "Alice")

	assert.NotEmpty(t, user.ID)
	assert.Len(t, user.Token, 64)
	assert.Equal(t, "ATLAS-ABC123", user.FriendCode, "friend code is normalized upper-case")

	p, err := presence.Get(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "offline", p.Status)
}

func TestRegisterIsUpsertByFriendCode(t *testing.T) {
	conn := newTestDB(t)
	users := NewUserService(conn)

	first := registerUser(t, users, "ATLAS-AAAAAA", "Alice")
	second := registerUser(t, users, "ATLAS-AAAAAA", "Alicia")

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Token, second.Token)
	assert.Equal(t, "Alicia", second.DisplayName)
}

func TestRegisterValidation(t *testing.T) {
	conn := newTestDB(t)
	users := NewUserService(conn)
	ctx := context.Background()

	_, err := users.Register(ctx, "", "Alice", nil)
	assert.True(t, errs.IsKind(err, errs.KindInvalidArgument))

	_, err = users.Register(ctx, "ATLAS-AAAAAA", "", nil)
	assert.True(t, errs.IsKind(err, errs.KindInvalidArgument))

	_, err = users.Register(ctx, strings.Repeat("X", 33), "Alice", nil)
	assert.True(t, errs.IsKind(err, errs.KindInvalidArgument))

	_, err = users.Register(ctx, "ATLAS-AAAAAA", strings.Repeat("n", 33), nil)
	assert.True(t, errs.IsKind(err, errs.KindInvalidArgument))
}

func TestByTokenRejectsUnknown(t *testing.T) {
	conn := newTestDB(t)
	users := NewUserService(conn)
	ctx := context.Background()

	user := registerUser(t, users, "ATLAS-AAAAAA", "Alice")

	resolved, err := users.ByToken(ctx, user.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)

	_, err = users.ByToken(ctx, "bogus")
	assert.True(t, errs.IsKind(err, errs.KindUnauthenticated))

	_, err = users.ByToken(ctx, "")
	assert.True(t, errs.IsKind(err, errs.KindUnauthenticated))
}
