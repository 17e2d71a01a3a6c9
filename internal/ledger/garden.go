package ledger

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/minho/lingua/internal/rewards"
	"github.com/minho/lingua/internal/store"
)

// SeedResult reports whether planting created a new garden entry.
type SeedResult struct {
	NewSeed bool   `json:"new_seed"`
	PlantID string `json:"plant_id"`
}

// WaterResult reports a plant's state after a practice attempt.
type WaterResult struct {
	Stage         store.Stage `json:"stage"`
	Mastery       float64     `json:"mastery_level"`
	PracticeCount int         `json:"practice_count"`
	Bloomed       bool        `json:"bloomed"`
}

// GardenStats aggregates a user's garden. Pure read, no mutation.
type GardenStats struct {
	Total       int                    `json:"total"`
	ByStage     map[store.Stage]int    `json:"by_stage"`
	ByCategory  map[store.Category]int `json:"by_category"`
	MeanMastery float64                `json:"mean_mastery"`
}

// StageFor maps a practice count to a growth stage. The bands are a
// non-decreasing step function, so a plant's stage never regresses.
func StageFor(practiceCount int) store.Stage {
	switch {
	case practiceCount <= 2:
		return store.StageSeed
	case practiceCount <= 5:
		return store.StageSprout
	case practiceCount <= 8:
		return store.StageBud
	default:
		return store.StageBloom
	}
}

// PlantSeed records a recurring error. The first occurrence of an (item,
// category) pair creates a plant and grants a small XP reward; later
// occurrences append to the existing plant's error history. The operation
// is idempotent per (user, item, category) even under concurrent planting.
func (s *Service) PlantSeed(ctx context.Context, userID, item string, category store.Category, errContext string) (*SeedResult, error) {
	if userID == "" {
		return nil, &ValidationError{Field: "userID", Reason: "must not be empty"}
	}
	if item == "" {
		return nil, &ValidationError{Field: "item", Reason: "must not be empty"}
	}
	if !category.Valid() {
		return nil, &ValidationError{Field: "category", Reason: fmt.Sprintf("unknown category %q", category)}
	}

	existing, err := s.store.Plants().Find(ctx, userID, item, category)
	switch {
	case err == nil:
		return s.recordRecurrence(ctx, userID, existing.ID, errContext)
	case !errors.Is(err, store.ErrNotFound):
		return nil, err
	}

	p := &store.Plant{
		ID:       uuid.NewString(),
		UserID:   userID,
		Item:     item,
		Category: category,
		Stage:    store.StageSeed,
		History: []store.ErrorEntry{
			{At: s.clock.Now().UTC(), Context: errContext},
		},
	}
	if err := s.store.Plants().Create(ctx, p); err != nil {
		if errors.Is(err, store.ErrConflict) {
			// Lost a concurrent planting race; fall back to the
			// recurring-error path on the winner's plant.
			winner, ferr := s.store.Plants().Find(ctx, userID, item, category)
			if ferr != nil {
				return nil, ferr
			}
			return s.recordRecurrence(ctx, userID, winner.ID, errContext)
		}
		return nil, err
	}

	if _, err := s.GrantXP(ctx, userID, rewards.SeedXP, fmt.Sprintf("planted seed: %s", item)); err != nil {
		return nil, err
	}
	return &SeedResult{NewSeed: true, PlantID: p.ID}, nil
}

func (s *Service) recordRecurrence(ctx context.Context, userID, plantID, errContext string) (*SeedResult, error) {
	now := s.clock.Now().UTC()
	err := s.store.Plants().Transact(ctx, userID, plantID, func(p *store.Plant) error {
		p.History = append(p.History, store.ErrorEntry{At: now, Context: errContext})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &SeedResult{NewSeed: false, PlantID: plantID}, nil
}

// WaterPlant records a practice attempt on a plant. Success advances the
// practice count, mastery, and stage, and grants a fixed XP reward; the
// first transition into bloom additionally grants a one-time bonus and a
// mastery badge. Failure only appends to the error history. A missing
// plant is store.ErrNotFound.
func (s *Service) WaterPlant(ctx context.Context, userID, plantID string, success bool) (*WaterResult, error) {
	if userID == "" {
		return nil, &ValidationError{Field: "userID", Reason: "must not be empty"}
	}
	if plantID == "" {
		return nil, &ValidationError{Field: "plantID", Reason: "must not be empty"}
	}

	now := s.clock.Now().UTC()
	var res WaterResult
	var item string
	err := s.store.Plants().Transact(ctx, userID, plantID, func(p *store.Plant) error {
		item = p.Item
		if !success {
			p.History = append(p.History, store.ErrorEntry{At: now})
			res = WaterResult{Stage: p.Stage, Mastery: p.Mastery, PracticeCount: p.PracticeCount}
			return nil
		}

		wasBloomed := p.Stage == store.StageBloom
		p.PracticeCount++
		p.Mastery = math.Min(1, float64(p.PracticeCount)/10)
		p.Stage = StageFor(p.PracticeCount)
		p.History = append(p.History, store.ErrorEntry{At: now, Corrected: true})

		res = WaterResult{
			Stage:         p.Stage,
			Mastery:       p.Mastery,
			PracticeCount: p.PracticeCount,
			// Bloom fires exactly once: the count only grows, so the
			// stage crosses into bloom on a single transaction.
			Bloomed: p.Stage == store.StageBloom && !wasBloomed,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if success {
		if _, err := s.GrantXP(ctx, userID, rewards.PracticeXP, fmt.Sprintf("practiced: %s", item)); err != nil {
			return nil, err
		}
		if res.Bloomed {
			if _, err := s.GrantXP(ctx, userID, rewards.BloomBonusXP, fmt.Sprintf("bloomed: %s", item)); err != nil {
				return nil, err
			}
			if err := s.GrantBadge(ctx, userID, rewards.BloomBadge(item)); err != nil {
				return nil, err
			}
		}
	}
	return &res, nil
}

// GardenStats aggregates counts per stage and category and the mean
// mastery across all of a user's plants.
func (s *Service) GardenStats(ctx context.Context, userID string) (*GardenStats, error) {
	if userID == "" {
		return nil, &ValidationError{Field: "userID", Reason: "must not be empty"}
	}

	plants, err := s.store.Plants().List(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &GardenStats{
		Total:      len(plants),
		ByStage:    make(map[store.Stage]int),
		ByCategory: make(map[store.Category]int),
	}
	sum := 0.0
	for _, p := range plants {
		stats.ByStage[p.Stage]++
		stats.ByCategory[p.Category]++
		sum += p.Mastery
	}
	if len(plants) > 0 {
		stats.MeanMastery = sum / float64(len(plants))
	}
	return stats, nil
}

// Garden returns all of the user's plants.
func (s *Service) Garden(ctx context.Context, userID string) ([]*store.Plant, error) {
	return s.store.Plants().List(ctx, userID)
}
