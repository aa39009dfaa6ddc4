package filter

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/paillette/internal/model"
)

// Store keeps one Filter per person.  Get returns None when nothing is
// stored or when the stored value cannot be decoded.
type Store interface {
	Get(ctx context.Context, personID uint64) (Filter, error)
	Set(ctx context.Context, personID uint64, f Filter) error
	Clear(ctx context.Context, personID uint64) error
}

// Snapshot is the stored and rendered form of a Filter.  The zero Snapshot
// stands for None.
type Snapshot struct {
	Kind   string   `json:"kind"`
	Values []uint64 `json:"values"`
	From   string   `json:"from"`
	To     string   `json:"to"`
}

// Describe returns the Snapshot of f.
func Describe(f Filter) Snapshot {
	switch v := f.(type) {
	case ByAvailability:
		vals := make([]uint64, len(v.Statuses))
		for i, s := range v.Statuses {
			vals[i] = uint64(s)
		}
		return Snapshot{Kind: KindAvailability, Values: vals, From: model.FormatDay(v.Range.From), To: model.FormatDay(v.Range.To)}
	case ByShows:
		return Snapshot{Kind: KindShows, Values: v.ShowIDs, From: model.FormatDay(v.Range.From), To: model.FormatDay(v.Range.To)}
	}
	return Snapshot{}
}

func decode(r Snapshot) Filter {
	vals := make([]string, len(r.Values))
	for i, v := range r.Values {
		vals[i] = strconv.FormatUint(v, 10)
	}
	return Parse(r.Kind, vals, r.From, r.To)
}

// MemoryStore is a process-local Store for development and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[uint64]Snapshot
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[uint64]Snapshot)}
}

func (s *MemoryStore) Get(_ context.Context, personID uint64) (Filter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[personID]
	if !ok {
		return None{}, nil
	}
	return decode(r), nil
}

func (s *MemoryStore) Set(ctx context.Context, personID uint64, f Filter) error {
	if _, ok := f.(None); ok || f == nil {
		return s.Clear(ctx, personID)
	}
	s.mu.Lock()
	s.records[personID] = Describe(f)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, personID uint64) error {
	s.mu.Lock()
	delete(s.records, personID)
	s.mu.Unlock()
	return nil
}

// RedisStore keeps filters in Redis as JSON with a sliding TTL, so that a
// filter lives as long as the session that uses it.
type RedisStore struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisStore returns a RedisStore.  A non-positive ttl defaults to 12h.
func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &RedisStore{rdb: rdb, ttl: ttl, prefix: "filter:"}
}

func (s *RedisStore) key(personID uint64) string {
	return s.prefix + strconv.FormatUint(personID, 10)
}

func (s *RedisStore) Get(ctx context.Context, personID uint64) (Filter, error) {
	raw, err := s.rdb.GetEx(ctx, s.key(personID), s.ttl).Bytes()
	if errors.Is(err, redis.Nil) {
		return None{}, nil
	}
	if err != nil {
		return None{}, err
	}
	var r Snapshot
	if err := json.Unmarshal(raw, &r); err != nil {
		return None{}, nil
	}
	return decode(r), nil
}

func (s *RedisStore) Set(ctx context.Context, personID uint64, f Filter) error {
	if _, ok := f.(None); ok || f == nil {
		return s.Clear(ctx, personID)
	}
	raw, err := json.Marshal(Describe(f))
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, s.key(personID), raw, s.ttl).Err()
}

func (s *RedisStore) Clear(ctx context.Context, personID uint64) error {
	return s.rdb.Del(ctx, s.key(personID)).Err()
}
