package store

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/i474232898/weather-globe/internal/weather"
)

var (
	// ErrNotFound is returned when no data is available for a given location.
	ErrNotFound = errors.New("no weather data for location")
)

// RecordHistory holds a time-ordered list of records for a location.
type RecordHistory struct {
	Records []weather.CityRecord
}

// MemoryStore is a concurrency-safe in-memory implementation of a weather store.
type MemoryStore struct {
	mu sync.RWMutex

	// key: location key, value: history
	data map[string]*RecordHistory

	// retention configuration
	maxHistory int           // max number of records per location
	maxAge     time.Duration // optional max age for records

	now func() time.Time
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxHistory is <= 0, it is treated as unlimited.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:       make(map[string]*RecordHistory),
		maxHistory: maxHistory,
		maxAge:     maxAge,
		now:        time.Now,
	}
}

// Save appends a new record for its location and enforces retention.
// The newest record is always kept, however old it is.
func (s *MemoryStore) Save(rec weather.CityRecord) {
	key := rec.Location.Key()

	s.mu.Lock()
	defer s.mu.Unlock()

	history, ok := s.data[key]
	if !ok {
		history = &RecordHistory{}
		s.data[key] = history
	}

	history.Records = append(history.Records, rec)

	// Enforce retention by count.
	if s.maxHistory > 0 && len(history.Records) > s.maxHistory {
		over := len(history.Records) - s.maxHistory
		history.Records = history.Records[over:]
	}

	// Enforce retention by age.
	if s.maxAge > 0 {
		cutoff := s.now().Add(-s.maxAge)
		i := 0
		for ; i < len(history.Records)-1; i++ {
			if !history.Records[i].FetchedAt.Before(cutoff) {
				break
			}
		}
		history.Records = history.Records[i:]
	}
}

// Latest returns the most recent record for a location.
func (s *MemoryStore) Latest(loc weather.Location) (weather.CityRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[loc.Key()]
	if !ok || len(history.Records) == 0 {
		return weather.CityRecord{}, ErrNotFound
	}
	return history.Records[len(history.Records)-1], nil
}

// History returns every retained record for a location, oldest first.
func (s *MemoryStore) History(loc weather.Location) ([]weather.CityRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[loc.Key()]
	if !ok || len(history.Records) == 0 {
		return nil, ErrNotFound
	}
	out := make([]weather.CityRecord, len(history.Records))
	copy(out, history.Records)
	return out, nil
}

// All returns the latest record of every location, sorted by key.
func (s *MemoryStore) All() []weather.CityRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]weather.CityRecord, 0, len(keys))
	for _, k := range keys {
		recs := s.data[k].Records
		if len(recs) > 0 {
			out = append(out, recs[len(recs)-1])
		}
	}
	return out
}
