package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atlas/errs"
)

func TestGachaUpsertOverwrites(t *testing.T) {
	conn := newTestDB(t)
	gacha := NewGachaService(conn)
	ctx := context.Background()
	a, _ := linkPair(t, conn)

	_, err := gacha.Upsert(ctx, a.ID, UpsertStatsInput{
		Game:          "genshin",
		TotalPulls:    100,
		FiveStarCount: 1,
		CurrentPity:   40,
	})
	require.NoError(t, err)

	// A later upload fully replaces the aggregate, no history kept.
	_, err = gacha.Upsert(ctx, a.ID, UpsertStatsInput{
		Game:          "genshin",
		TotalPulls:    180,
		FiveStarCount: 2,
		FourStarCount: 20,
		AveragePity:   72.5,
		CurrentPity:   3,
	})
	require.NoError(t, err)

	stat, err := gacha.Get(ctx, a.ID, "genshin")
	require.NoError(t, err)
	assert.EqualValues(t, 180, stat.TotalPulls)
	assert.EqualValues(t, 2, stat.FiveStarCount)
	assert.EqualValues(t, 20, stat.FourStarCount)
	assert.Equal(t, 72.5, stat.AveragePity)
	assert.EqualValues(t, 3, stat.CurrentPity)
}

func TestGachaValidationAndScoping(t *testing.T) {
	conn := newTestDB(t)
	gacha := NewGachaService(conn)
	ctx := context.Background()
	a, b := linkPair(t, conn)

	_, err := gacha.Upsert(ctx, a.ID, UpsertStatsInput{Game: "  "})
	assert.True(t, errs.IsKind(err, errs.KindInvalidArgument))

	_, err = gacha.Upsert(ctx, a.ID, UpsertStatsInput{Game: "genshin", TotalPulls: -1})
	assert.True(t, errs.IsKind(err, errs.KindInvalidArgument))

	_, err = gacha.Upsert(ctx, a.ID, UpsertStatsInput{Game: "hsr", TotalPulls: 10})
	require.NoError(t, err)
	_, err = gacha.Upsert(ctx, a.ID, UpsertStatsInput{Game: "genshin", TotalPulls: 5})
	require.NoError(t, err)

	stats, err := gacha.ListForUser(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, "genshin", stats[0].Game, "ordered by game name")
	assert.Equal(t, "hsr", stats[1].Game)

	// Stats are per user, not per pair.
	partnerStats, err := gacha.ListForUser(ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, partnerStats)

	_, err = gacha.Get(ctx, b.ID, "genshin")
	assert.True(t, errs.IsKind(err, errs.KindNotFound))
}
