package store

import "context"

// XPRepo stores one XPRecord per user.
type XPRepo interface {
	// Get returns the user's record, or ErrNotFound.
	Get(ctx context.Context, userID string) (*XPRecord, error)

	// Transact runs fn as a single atomic read-modify-write on the
	// user's record, creating a zero record on first use. The mutated
	// record is persisted only if fn returns nil. Concurrent calls for
	// the same user serialize; different users never contend.
	Transact(ctx context.Context, userID string, fn func(*XPRecord) error) error
}

// StreakRepo stores one StreakRecord per user with the same transactional
// contract as XPRepo.
type StreakRepo interface {
	Get(ctx context.Context, userID string) (*StreakRecord, error)
	Transact(ctx context.Context, userID string, fn func(*StreakRecord) error) error
}

// PlantRepo stores a user's garden, keyed by plant id and addressable by
// (item, category) for idempotent seed planting.
type PlantRepo interface {
	// Get returns a plant by id, or ErrNotFound.
	Get(ctx context.Context, userID, plantID string) (*Plant, error)

	// Find returns the plant for (item, category), or ErrNotFound.
	Find(ctx context.Context, userID, item string, category Category) (*Plant, error)

	// List returns all of the user's plants.
	List(ctx context.Context, userID string) ([]*Plant, error)

	// Create inserts a new plant. It returns ErrConflict if a plant for
	// the same (user, item, category) already exists.
	Create(ctx context.Context, p *Plant) error

	// Transact runs fn atomically on an existing plant. Unlike the
	// per-user repos it does not create lazily: a missing plant is
	// ErrNotFound. Transactions are keyed per plant, so concurrent
	// waterings of different plants proceed independently.
	Transact(ctx context.Context, userID, plantID string, fn func(*Plant) error) error
}

// Store bundles the three record repositories behind one backend.
type Store interface {
	XP() XPRepo
	Streaks() StreakRepo
	Plants() PlantRepo
	Close() error
}
