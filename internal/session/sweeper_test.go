package session

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSweeper_InvalidSchedule(t *testing.T) {
	store, _ := setupStore(time.Minute)
	_, err := NewSweeper(store, "not a schedule", slog.Default(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a schedule")
}

func TestSweeper_RunOnce(t *testing.T) {
	store, clock := setupStore(time.Minute)
	expired := store.Create()
	clock.Advance(2 * time.Minute)
	live := store.Create()

	var notified []string
	sweeper, err := NewSweeper(store, "@every 1m", nil, func(id string) {
		notified = append(notified, id)
	})
	require.NoError(t, err)

	sweeper.RunOnce()

	assert.Equal(t, []string{expired.ID}, notified)
	_, err = store.Get(live.ID)
	assert.NoError(t, err)
	assert.Equal(t, 1, store.Len())
}

func TestSweeper_StartStop(t *testing.T) {
	store, _ := setupStore(time.Minute)
	sweeper, err := NewSweeper(store, "@every 1h", slog.Default(), nil)
	require.NoError(t, err)

	sweeper.Start()
	sweeper.Stop()
}
