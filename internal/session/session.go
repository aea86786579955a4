package session

import (
	"sync"
	"time"

	"github.com/jatinsharma1322660/Bit-Coin-Prediction/internal/dataprocessing"
)

// Dataset names one of the two uploads a session can hold
type Dataset string

const (
	DatasetPrice Dataset = "price"
	DatasetEdits Dataset = "edits"
)

// Valid reports whether d is a known dataset
func (d Dataset) Valid() bool {
	return d == DatasetPrice || d == DatasetEdits
}

// Session holds the tables uploaded by one browser session.
// Tables are replaced wholesale on each successful upload.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu       sync.RWMutex
	lastSeen time.Time
	price    *dataprocessing.Table
	edits    *dataprocessing.Table
}

func newSession(id string, now time.Time) *Session {
	return &Session{ID: id, CreatedAt: now, lastSeen: now}
}

// LastSeen returns the time of the last request in this session
func (s *Session) LastSeen() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSeen
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

// PriceTable returns the loaded price table, or nil before an upload
func (s *Session) PriceTable() *dataprocessing.Table {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.price
}

// SetPriceTable replaces the price table
func (s *Session) SetPriceTable(t *dataprocessing.Table) {
	s.mu.Lock()
	s.price = t
	s.mu.Unlock()
}

// EditTable returns the loaded edit-count table, or nil before an upload
func (s *Session) EditTable() *dataprocessing.Table {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.edits
}

// SetEditTable replaces the edit-count table
func (s *Session) SetEditTable(t *dataprocessing.Table) {
	s.mu.Lock()
	s.edits = t
	s.mu.Unlock()
}

// Table returns the table stored for dataset d
func (s *Session) Table(d Dataset) *dataprocessing.Table {
	if d == DatasetEdits {
		return s.EditTable()
	}
	return s.PriceTable()
}

// SetTable stores t for dataset d
func (s *Session) SetTable(d Dataset, t *dataprocessing.Table) {
	if d == DatasetEdits {
		s.SetEditTable(t)
		return
	}
	s.SetPriceTable(t)
}

// Clear drops both tables
func (s *Session) Clear() {
	s.mu.Lock()
	s.price = nil
	s.edits = nil
	s.mu.Unlock()
}
