package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jatinsharma1322660/Bit-Coin-Prediction/internal/dataprocessing"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func setupStore(ttl time.Duration) (*Store, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	store := NewStore(ttl)
	store.now = clock.Now
	return store, clock
}

func TestStore_CreateGet(t *testing.T) {
	store, _ := setupStore(time.Minute)

	sess := store.Create()
	require.NotEmpty(t, sess.ID)
	assert.Equal(t, 1, store.Len())

	got, err := store.Get(sess.ID)
	require.NoError(t, err)
	assert.Same(t, sess, got)

	_, err = store.Get("unknown")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_SessionsAreIsolated(t *testing.T) {
	store, _ := setupStore(time.Minute)
	table, err := dataprocessing.Parse("Date,Open\n2021-01-01,1\n")
	require.NoError(t, err)

	a := store.Create()
	b := store.Create()
	a.SetPriceTable(table)

	assert.NotEqual(t, a.ID, b.ID)
	assert.NotNil(t, a.PriceTable())
	assert.Nil(t, b.PriceTable())
}

func TestStore_Expiry(t *testing.T) {
	store, clock := setupStore(10 * time.Minute)

	idle := store.Create()
	active := store.Create()

	clock.Advance(6 * time.Minute)
	_, err := store.Touch(active.ID)
	require.NoError(t, err)

	clock.Advance(6 * time.Minute)
	_, err = store.Get(idle.ID)
	assert.ErrorIs(t, err, ErrNotFound, "idle session is expired")
	_, err = store.Get(active.ID)
	assert.NoError(t, err)

	removed := store.Sweep(clock.Now())
	assert.Equal(t, []string{idle.ID}, removed)
	assert.Equal(t, 1, store.Len())
}

func TestStore_ZeroTTLNeverExpires(t *testing.T) {
	store, clock := setupStore(0)
	sess := store.Create()
	clock.Advance(24 * time.Hour)

	_, err := store.Get(sess.ID)
	assert.NoError(t, err)
	assert.Empty(t, store.Sweep(clock.Now()))
}

func TestStore_Delete(t *testing.T) {
	store, _ := setupStore(time.Minute)
	table, err := dataprocessing.Parse("a\n1\n")
	require.NoError(t, err)

	sess := store.Create()
	sess.SetPriceTable(table)
	sess.SetEditTable(table)

	assert.True(t, store.Delete(sess.ID))
	assert.False(t, store.Delete(sess.ID))
	assert.Nil(t, sess.PriceTable())
	assert.Nil(t, sess.EditTable())
	assert.Equal(t, 0, store.Len())
}

func TestSession_DatasetAccessors(t *testing.T) {
	store, _ := setupStore(time.Minute)
	price, _ := dataprocessing.Parse("Date,Open\n2021-01-01,1\n")
	edits, _ := dataprocessing.Parse("Date,Edits\n2021-01-01,5\n")

	sess := store.Create()
	sess.SetTable(DatasetPrice, price)
	sess.SetTable(DatasetEdits, edits)

	assert.Same(t, price, sess.Table(DatasetPrice))
	assert.Same(t, edits, sess.Table(DatasetEdits))
	assert.True(t, DatasetPrice.Valid())
	assert.False(t, Dataset("other").Valid())

	sess.Clear()
	assert.Nil(t, sess.Table(DatasetPrice))
}

func TestStore_ConcurrentAccess(t *testing.T) {
	store, _ := setupStore(time.Minute)
	table, _ := dataprocessing.Parse("a\n1\n")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sess := store.Create()
			sess.SetPriceTable(table)
			_, _ = store.Touch(sess.ID)
			_ = sess.PriceTable()
		}()
	}
	wg.Wait()
	assert.Equal(t, 20, store.Len())
}
