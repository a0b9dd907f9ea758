package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atlas/errs"
	"atlas/models"
)

func strp(s string) *string { return &s }

func f64p(v float64) *float64 { return &v }

func TestPresenceUpdateReplacesNullableFields(t *testing.T) {
	conn := newTestDB(t)
	presence := NewPresenceService(conn, nil)
	ctx := context.Background()
	a, _ := linkPair(t, conn)

	p, err := presence.Update(ctx, a.ID, PresenceUpdate{
		Status:      strp("online"),
		CurrentGame: strp("Elden Ring"),
		MoodMessage: strp("grinding"),
		PerformanceStats: &models.PerformanceStats{
			CPUUsage: f64p(41.5),
			FPS:      f64p(120),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "online", p.Status)
	require.NotNil(t, p.CurrentGame)
	assert.Equal(t, "Elden Ring", *p.CurrentGame)
	require.NotNil(t, p.FPS)
	assert.Equal(t, float64(120), *p.FPS)

	// A follow-up update that omits the nullable fields clears them; status
	// keeps its prior value when omitted.
	p, err = presence.Update(ctx, a.ID, PresenceUpdate{
		MoodMessage: strp("taking a break"),
	})
	require.NoError(t, err)
	assert.Equal(t, "online", p.Status)
	assert.Nil(t, p.CurrentGame)
	assert.Nil(t, p.CPUUsage)
	assert.Nil(t, p.FPS)
	require.NotNil(t, p.MoodMessage)
	assert.Equal(t, "taking a break", *p.MoodMessage)
}

func TestPresenceStatusValidation(t *testing.T) {
	conn := newTestDB(t)
	presence := NewPresenceService(conn, nil)
	ctx := context.Background()
	a, _ := linkPair(t, conn)

	_, err := presence.Update(ctx, a.ID, PresenceUpdate{Status: strp("  ")})
	assert.True(t, errs.IsKind(err, errs.KindInvalidArgument))

	_, err = presence.Update(ctx, a.ID, PresenceUpdate{Status: strp(strings.Repeat("a", 33))})
	assert.True(t, errs.IsKind(err, errs.KindInvalidArgument))
}

func TestPresenceDefaultsToOffline(t *testing.T) {
	conn := newTestDB(t)
	presence := NewPresenceService(conn, nil)
	ctx := context.Background()

	// No presence row exists for this id at all.
	p, err := presence.Get(ctx, "ghost-user")
	require.NoError(t, err)
	assert.Equal(t, "offline", p.Status)
	assert.Nil(t, p.CurrentGame)
}

func TestPresenceRegisteredUserStartsOffline(t *testing.T) {
	conn := newTestDB(t)
	presence := NewPresenceService(conn, nil)
	ctx := context.Background()
	a, _ := linkPair(t, conn)

	p, err := presence.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "offline", p.Status)
}

func TestSnapshotShape(t *testing.T) {
	p := &models.Presence{
		UserID:      "u1",
		Status:      "online",
		CurrentGame: strp("Hades"),
		CPUUsage:    f64p(12),
		UpdatedAt:   1234,
	}
	snap := Snapshot(p, "Alice")
	assert.Equal(t, "Alice", snap.Username)
	assert.Equal(t, "online", snap.Status)
	require.NotNil(t, snap.PerformanceStats)
	assert.Equal(t, float64(12), *snap.PerformanceStats.CPUUsage)
	assert.EqualValues(t, 1234, snap.LastUpdated)
}
