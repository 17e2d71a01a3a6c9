package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

type sqliteXPRepo struct{ s *SQLite }

type xpRow struct {
	UserID  string `db:"user_id"`
	XP      int    `db:"xp"`
	Level   int    `db:"level"`
	Badges  string `db:"badges"`
	History string `db:"history"`
}

func (row *xpRow) decode() (*XPRecord, error) {
	rec := &XPRecord{UserID: row.UserID, XP: row.XP, Level: row.Level}
	if err := json.Unmarshal([]byte(row.Badges), &rec.Badges); err != nil {
		return nil, fmt.Errorf("decode badges for %s: %w", row.UserID, err)
	}
	if err := json.Unmarshal([]byte(row.History), &rec.History); err != nil {
		return nil, fmt.Errorf("decode xp history for %s: %w", row.UserID, err)
	}
	return rec, nil
}

func (r *sqliteXPRepo) Get(ctx context.Context, userID string) (*XPRecord, error) {
	var row xpRow
	err := r.s.db.GetContext(ctx, &row,
		`SELECT user_id, xp, level, badges, history FROM xp_records WHERE user_id = ?`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &TransientError{Err: fmt.Errorf("get xp record: %w", err)}
	}
	return row.decode()
}

func (r *sqliteXPRepo) Transact(ctx context.Context, userID string, fn func(*XPRecord) error) error {
	return r.s.withTx(ctx, func(tx *sqlx.Tx) error {
		rec := &XPRecord{UserID: userID}
		var row xpRow
		err := tx.GetContext(ctx, &row,
			`SELECT user_id, xp, level, badges, history FROM xp_records WHERE user_id = ?`, userID)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			// Lazily created on first grant.
		case err != nil:
			return &TransientError{Err: fmt.Errorf("read xp record: %w", err)}
		default:
			if rec, err = row.decode(); err != nil {
				return err
			}
		}

		if err := fn(rec); err != nil {
			return err
		}

		badges, err := json.Marshal(badgesOrEmpty(rec.Badges))
		if err != nil {
			return fmt.Errorf("encode badges: %w", err)
		}
		history, err := json.Marshal(historyOrEmpty(rec.History))
		if err != nil {
			return fmt.Errorf("encode xp history: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO xp_records (user_id, xp, level, badges, history)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT (user_id) DO UPDATE SET
				xp = excluded.xp,
				level = excluded.level,
				badges = excluded.badges,
				history = excluded.history`,
			userID, rec.XP, rec.Level, string(badges), string(history))
		if err != nil {
			return &TransientError{Err: fmt.Errorf("write xp record: %w", err)}
		}
		return nil
	})
}

type sqliteStreakRepo struct{ s *SQLite }

type streakRow struct {
	UserID       string `db:"user_id"`
	Days         int    `db:"days"`
	Longest      int    `db:"longest"`
	LastActivity string `db:"last_activity"`
	FreezeCount  int    `db:"freeze_count"`
	History      string `db:"history"`
}

func (row *streakRow) decode() (*StreakRecord, error) {
	rec := &StreakRecord{
		UserID:       row.UserID,
		Days:         row.Days,
		Longest:      row.Longest,
		LastActivity: row.LastActivity,
		FreezeCount:  row.FreezeCount,
	}
	if err := json.Unmarshal([]byte(row.History), &rec.History); err != nil {
		return nil, fmt.Errorf("decode streak history for %s: %w", row.UserID, err)
	}
	return rec, nil
}

func (r *sqliteStreakRepo) Get(ctx context.Context, userID string) (*StreakRecord, error) {
	var row streakRow
	err := r.s.db.GetContext(ctx, &row,
		`SELECT user_id, days, longest, last_activity, freeze_count, history
		 FROM streak_records WHERE user_id = ?`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &TransientError{Err: fmt.Errorf("get streak record: %w", err)}
	}
	return row.decode()
}

func (r *sqliteStreakRepo) Transact(ctx context.Context, userID string, fn func(*StreakRecord) error) error {
	return r.s.withTx(ctx, func(tx *sqlx.Tx) error {
		rec := &StreakRecord{UserID: userID}
		var row streakRow
		err := tx.GetContext(ctx, &row,
			`SELECT user_id, days, longest, last_activity, freeze_count, history
			 FROM streak_records WHERE user_id = ?`, userID)
		switch {
		case errors.Is(err, sql.ErrNoRows):
		case err != nil:
			return &TransientError{Err: fmt.Errorf("read streak record: %w", err)}
		default:
			if rec, err = row.decode(); err != nil {
				return err
			}
		}

		if err := fn(rec); err != nil {
			return err
		}

		history, err := json.Marshal(streakHistoryOrEmpty(rec.History))
		if err != nil {
			return fmt.Errorf("encode streak history: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO streak_records (user_id, days, longest, last_activity, freeze_count, history)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT (user_id) DO UPDATE SET
				days = excluded.days,
				longest = excluded.longest,
				last_activity = excluded.last_activity,
				freeze_count = excluded.freeze_count,
				history = excluded.history`,
			userID, rec.Days, rec.Longest, rec.LastActivity, rec.FreezeCount, string(history))
		if err != nil {
			return &TransientError{Err: fmt.Errorf("write streak record: %w", err)}
		}
		return nil
	})
}

type sqlitePlantRepo struct{ s *SQLite }

type plantRow struct {
	ID            string  `db:"id"`
	UserID        string  `db:"user_id"`
	Item          string  `db:"item"`
	Category      string  `db:"category"`
	Stage         string  `db:"stage"`
	PracticeCount int     `db:"practice_count"`
	Mastery       float64 `db:"mastery"`
	History       string  `db:"history"`
}

const plantColumns = `id, user_id, item, category, stage, practice_count, mastery, history`

func (row *plantRow) decode() (*Plant, error) {
	p := &Plant{
		ID:            row.ID,
		UserID:        row.UserID,
		Item:          row.Item,
		Category:      Category(row.Category),
		Stage:         Stage(row.Stage),
		PracticeCount: row.PracticeCount,
		Mastery:       row.Mastery,
	}
	if err := json.Unmarshal([]byte(row.History), &p.History); err != nil {
		return nil, fmt.Errorf("decode plant history for %s: %w", row.ID, err)
	}
	return p, nil
}

func (r *sqlitePlantRepo) Get(ctx context.Context, userID, plantID string) (*Plant, error) {
	var row plantRow
	err := r.s.db.GetContext(ctx, &row,
		`SELECT `+plantColumns+` FROM plants WHERE id = ? AND user_id = ?`, plantID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &TransientError{Err: fmt.Errorf("get plant: %w", err)}
	}
	return row.decode()
}

func (r *sqlitePlantRepo) Find(ctx context.Context, userID, item string, category Category) (*Plant, error) {
	var row plantRow
	err := r.s.db.GetContext(ctx, &row,
		`SELECT `+plantColumns+` FROM plants WHERE user_id = ? AND item = ? AND category = ?`,
		userID, item, string(category))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &TransientError{Err: fmt.Errorf("find plant: %w", err)}
	}
	return row.decode()
}

func (r *sqlitePlantRepo) List(ctx context.Context, userID string) ([]*Plant, error) {
	var rows []plantRow
	err := r.s.db.SelectContext(ctx, &rows,
		`SELECT `+plantColumns+` FROM plants WHERE user_id = ? ORDER BY item`, userID)
	if err != nil {
		return nil, &TransientError{Err: fmt.Errorf("list plants: %w", err)}
	}
	plants := make([]*Plant, 0, len(rows))
	for i := range rows {
		p, err := rows[i].decode()
		if err != nil {
			return nil, err
		}
		plants = append(plants, p)
	}
	return plants, nil
}

func (r *sqlitePlantRepo) Create(ctx context.Context, p *Plant) error {
	history, err := json.Marshal(errorHistoryOrEmpty(p.History))
	if err != nil {
		return fmt.Errorf("encode plant history: %w", err)
	}
	_, err = r.s.db.ExecContext(ctx, `
		INSERT INTO plants (`+plantColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.UserID, p.Item, string(p.Category), string(p.Stage),
		p.PracticeCount, p.Mastery, string(history))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrConflict
		}
		return &TransientError{Err: fmt.Errorf("create plant: %w", err)}
	}
	return nil
}

func (r *sqlitePlantRepo) Transact(ctx context.Context, userID, plantID string, fn func(*Plant) error) error {
	return r.s.withTx(ctx, func(tx *sqlx.Tx) error {
		var row plantRow
		err := tx.GetContext(ctx, &row,
			`SELECT `+plantColumns+` FROM plants WHERE id = ? AND user_id = ?`, plantID, userID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return &TransientError{Err: fmt.Errorf("read plant: %w", err)}
		}
		p, err := row.decode()
		if err != nil {
			return err
		}

		if err := fn(p); err != nil {
			return err
		}

		history, err := json.Marshal(errorHistoryOrEmpty(p.History))
		if err != nil {
			return fmt.Errorf("encode plant history: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
			UPDATE plants SET stage = ?, practice_count = ?, mastery = ?, history = ?
			WHERE id = ?`,
			string(p.Stage), p.PracticeCount, p.Mastery, string(history), plantID)
		if err != nil {
			return &TransientError{Err: fmt.Errorf("write plant: %w", err)}
		}
		return nil
	})
}

// JSON columns store [] rather than null so decoding stays uniform.

func badgesOrEmpty(b []string) []string {
	if b == nil {
		return []string{}
	}
	return b
}

func historyOrEmpty(h []XPEntry) []XPEntry {
	if h == nil {
		return []XPEntry{}
	}
	return h
}

func streakHistoryOrEmpty(h []StreakEntry) []StreakEntry {
	if h == nil {
		return []StreakEntry{}
	}
	return h
}

func errorHistoryOrEmpty(h []ErrorEntry) []ErrorEntry {
	if h == nil {
		return []ErrorEntry{}
	}
	return h
}
