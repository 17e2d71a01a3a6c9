package store

import (
	"context"
	"sync"
)

// Memory is an in-memory Store for tests and local simulation. A single
// coarse lock serializes every mutation, which trivially satisfies the
// per-key atomicity contract; per-user independence only matters for the
// durable backends.
type Memory struct {
	mu      sync.Mutex
	xp      map[string]*XPRecord
	streaks map[string]*StreakRecord
	plants  map[string]*Plant
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		xp:      make(map[string]*XPRecord),
		streaks: make(map[string]*StreakRecord),
		plants:  make(map[string]*Plant),
	}
}

func (m *Memory) XP() XPRepo         { return (*memXPRepo)(m) }
func (m *Memory) Streaks() StreakRepo { return (*memStreakRepo)(m) }
func (m *Memory) Plants() PlantRepo   { return (*memPlantRepo)(m) }

func (m *Memory) Close() error { return nil }

type memXPRepo Memory

func (r *memXPRepo) Get(_ context.Context, userID string) (*XPRecord, error) {
	m := (*Memory)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.xp[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneXP(rec), nil
}

func (r *memXPRepo) Transact(_ context.Context, userID string, fn func(*XPRecord) error) error {
	m := (*Memory)(r)
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.xp[userID]
	if !ok {
		rec = &XPRecord{UserID: userID}
	}
	work := cloneXP(rec)
	if err := fn(work); err != nil {
		return err
	}
	m.xp[userID] = work
	return nil
}

type memStreakRepo Memory

func (r *memStreakRepo) Get(_ context.Context, userID string) (*StreakRecord, error) {
	m := (*Memory)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.streaks[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneStreak(rec), nil
}

func (r *memStreakRepo) Transact(_ context.Context, userID string, fn func(*StreakRecord) error) error {
	m := (*Memory)(r)
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.streaks[userID]
	if !ok {
		rec = &StreakRecord{UserID: userID}
	}
	work := cloneStreak(rec)
	if err := fn(work); err != nil {
		return err
	}
	m.streaks[userID] = work
	return nil
}

type memPlantRepo Memory

func (r *memPlantRepo) Get(_ context.Context, userID, plantID string) (*Plant, error) {
	m := (*Memory)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.plants[plantID]
	if !ok || p.UserID != userID {
		return nil, ErrNotFound
	}
	return clonePlant(p), nil
}

func (r *memPlantRepo) Find(_ context.Context, userID, item string, category Category) (*Plant, error) {
	m := (*Memory)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.plants {
		if p.UserID == userID && p.Item == item && p.Category == category {
			return clonePlant(p), nil
		}
	}
	return nil, ErrNotFound
}

func (r *memPlantRepo) List(_ context.Context, userID string) ([]*Plant, error) {
	m := (*Memory)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Plant
	for _, p := range m.plants {
		if p.UserID == userID {
			out = append(out, clonePlant(p))
		}
	}
	return out, nil
}

func (r *memPlantRepo) Create(_ context.Context, p *Plant) error {
	m := (*Memory)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.plants {
		if existing.UserID == p.UserID && existing.Item == p.Item && existing.Category == p.Category {
			return ErrConflict
		}
	}
	m.plants[p.ID] = clonePlant(p)
	return nil
}

func (r *memPlantRepo) Transact(_ context.Context, userID, plantID string, fn func(*Plant) error) error {
	m := (*Memory)(r)
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.plants[plantID]
	if !ok || p.UserID != userID {
		return ErrNotFound
	}
	work := clonePlant(p)
	if err := fn(work); err != nil {
		return err
	}
	m.plants[plantID] = work
	return nil
}

func cloneXP(rec *XPRecord) *XPRecord {
	out := *rec
	out.Badges = append([]string(nil), rec.Badges...)
	out.History = append([]XPEntry(nil), rec.History...)
	return &out
}

func cloneStreak(rec *StreakRecord) *StreakRecord {
	out := *rec
	out.History = append([]StreakEntry(nil), rec.History...)
	return &out
}

func clonePlant(p *Plant) *Plant {
	out := *p
	out.History = append([]ErrorEntry(nil), p.History...)
	return &out
}
