package repo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_Users(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	id, err := m.CreateUser(ctx, "alice", "a@example.com", "hash")
	require.NoError(t, err)
	assert.Equal(t, 1, id)

	_, err = m.CreateUser(ctx, "alice", "a@example.com", "hash")
	assert.Error(t, err)

	got, hash, err := m.GetByLogin(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, id, got)
	assert.Equal(t, "hash", hash)

	_, _, err = m.GetByLogin(ctx, "bob")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_Analyses(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	t0 := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	older, err := m.SaveAnalysis(ctx, Analysis{UserID: 1, FoS: 1.1, CreatedAt: t0})
	require.NoError(t, err)
	newer, err := m.SaveAnalysis(ctx, Analysis{UserID: 1, FoS: 1.3, CreatedAt: t0.Add(time.Minute)})
	require.NoError(t, err)
	_, err = m.SaveAnalysis(ctx, Analysis{UserID: 2, FoS: 2})
	require.NoError(t, err)

	assert.NotEmpty(t, older.ID)
	assert.NotEqual(t, older.ID, newer.ID)

	list, err := m.ListAnalyses(ctx, 1, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)

	list, err = m.ListAnalyses(ctx, 1, 1)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	got, err := m.GetAnalysis(ctx, 1, older.ID)
	require.NoError(t, err)
	assert.Equal(t, 1.1, got.FoS)

	_, err = m.GetAnalysis(ctx, 2, older.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
