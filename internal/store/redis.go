package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

const (
	redisKeyPrefix = "lingua:"

	// watchMaxRetries bounds the optimistic-concurrency retry loop before
	// a conflict surfaces as transient.
	watchMaxRetries = 5
)

// Redis is a go-redis backed Store. Records live as JSON values under
// per-record keys; every Transact is a WATCH/MULTI optimistic transaction
// retried with exponential backoff, so same-key mutations serialize and
// different keys never contend.
type Redis struct {
	client *redis.Client
}

// NewRedis wraps an existing client.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// OpenRedis connects to Redis at addr and verifies the connection.
func OpenRedis(ctx context.Context, addr, password string) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ping := func() error { return client.Ping(ctx).Err() }
	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 4), ctx)
	if err := backoff.Retry(ping, b); err != nil {
		client.Close()
		return nil, &TransientError{Err: fmt.Errorf("connect to redis at %s: %w", addr, err)}
	}

	logrus.Infof("connected to redis at %s", addr)
	return &Redis{client: client}, nil
}

func (r *Redis) XP() XPRepo          { return &redisXPRepo{r} }
func (r *Redis) Streaks() StreakRepo { return &redisStreakRepo{r} }
func (r *Redis) Plants() PlantRepo   { return &redisPlantRepo{r} }

// Close closes the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}

func xpKey(userID string) string     { return redisKeyPrefix + "xp:" + userID }
func streakKey(userID string) string { return redisKeyPrefix + "streak:" + userID }
func plantKey(userID, plantID string) string {
	return redisKeyPrefix + "plant:" + userID + ":" + plantID
}
func gardenIndexKey(userID string) string { return redisKeyPrefix + "garden:" + userID }
func gardenIndexField(item string, category Category) string {
	return item + "|" + string(category)
}

// watch runs fn under WATCH on key, retrying lost races with backoff.
// Errors other than redis.TxFailedErr abort immediately.
func (r *Redis) watch(ctx context.Context, key string, fn func(*redis.Tx) error) error {
	op := func() error {
		err := r.client.Watch(ctx, fn, key)
		if errors.Is(err, redis.TxFailedErr) {
			logrus.Debugf("optimistic conflict on %s, retrying", key)
			return err
		}
		if err != nil {
			return backoff.Permanent(err)
		}
		return nil
	}

	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), watchMaxRetries), ctx)
	err := backoff.Retry(op, b)
	if errors.Is(err, redis.TxFailedErr) {
		return &TransientError{Err: fmt.Errorf("optimistic retries exhausted on %s", key)}
	}
	return err
}

// getJSON loads key into dst. Missing keys return ErrNotFound.
func getJSON(ctx context.Context, c redis.Cmdable, key string, dst interface{}) error {
	data, err := c.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	}
	if err != nil {
		return &TransientError{Err: fmt.Errorf("get %s: %w", key, err)}
	}
	if err := json.Unmarshal([]byte(data), dst); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func setJSON(ctx context.Context, tx *redis.Tx, key string, v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, key, payload, 0)
		return nil
	})
	return err
}

type redisXPRepo struct{ r *Redis }

func (r *redisXPRepo) Get(ctx context.Context, userID string) (*XPRecord, error) {
	rec := &XPRecord{}
	if err := getJSON(ctx, r.r.client, xpKey(userID), rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *redisXPRepo) Transact(ctx context.Context, userID string, fn func(*XPRecord) error) error {
	key := xpKey(userID)
	return r.r.watch(ctx, key, func(tx *redis.Tx) error {
		rec := &XPRecord{UserID: userID}
		if err := getJSON(ctx, tx, key, rec); err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
		if err := fn(rec); err != nil {
			return err
		}
		return setJSON(ctx, tx, key, rec)
	})
}

type redisStreakRepo struct{ r *Redis }

func (r *redisStreakRepo) Get(ctx context.Context, userID string) (*StreakRecord, error) {
	rec := &StreakRecord{}
	if err := getJSON(ctx, r.r.client, streakKey(userID), rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *redisStreakRepo) Transact(ctx context.Context, userID string, fn func(*StreakRecord) error) error {
	key := streakKey(userID)
	return r.r.watch(ctx, key, func(tx *redis.Tx) error {
		rec := &StreakRecord{UserID: userID}
		if err := getJSON(ctx, tx, key, rec); err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
		if err := fn(rec); err != nil {
			return err
		}
		return setJSON(ctx, tx, key, rec)
	})
}

type redisPlantRepo struct{ r *Redis }

func (r *redisPlantRepo) Get(ctx context.Context, userID, plantID string) (*Plant, error) {
	p := &Plant{}
	if err := getJSON(ctx, r.r.client, plantKey(userID, plantID), p); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *redisPlantRepo) Find(ctx context.Context, userID, item string, category Category) (*Plant, error) {
	plantID, err := r.r.client.HGet(ctx, gardenIndexKey(userID), gardenIndexField(item, category)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &TransientError{Err: fmt.Errorf("lookup garden index: %w", err)}
	}
	return r.Get(ctx, userID, plantID)
}

func (r *redisPlantRepo) List(ctx context.Context, userID string) ([]*Plant, error) {
	ids, err := r.r.client.HVals(ctx, gardenIndexKey(userID)).Result()
	if err != nil {
		return nil, &TransientError{Err: fmt.Errorf("list garden index: %w", err)}
	}
	plants := make([]*Plant, 0, len(ids))
	for _, id := range ids {
		p, err := r.Get(ctx, userID, id)
		if errors.Is(err, ErrNotFound) {
			// Index points at a record that was never written; skip.
			logrus.Warnf("garden index for %s references missing plant %s", userID, id)
			continue
		}
		if err != nil {
			return nil, err
		}
		plants = append(plants, p)
	}
	return plants, nil
}

func (r *redisPlantRepo) Create(ctx context.Context, p *Plant) error {
	// The index hash is the uniqueness authority: HSETNX wins or loses
	// the planting race atomically.
	ok, err := r.r.client.HSetNX(ctx, gardenIndexKey(p.UserID), gardenIndexField(p.Item, p.Category), p.ID).Result()
	if err != nil {
		return &TransientError{Err: fmt.Errorf("index plant: %w", err)}
	}
	if !ok {
		return ErrConflict
	}

	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode plant %s: %w", p.ID, err)
	}
	if err := r.r.client.Set(ctx, plantKey(p.UserID, p.ID), payload, 0).Err(); err != nil {
		return &TransientError{Err: fmt.Errorf("write plant %s: %w", p.ID, err)}
	}
	return nil
}

func (r *redisPlantRepo) Transact(ctx context.Context, userID, plantID string, fn func(*Plant) error) error {
	key := plantKey(userID, plantID)
	return r.r.watch(ctx, key, func(tx *redis.Tx) error {
		p := &Plant{}
		if err := getJSON(ctx, tx, key, p); err != nil {
			return err
		}
		if err := fn(p); err != nil {
			return err
		}
		return setJSON(ctx, tx, key, p)
	})
}
