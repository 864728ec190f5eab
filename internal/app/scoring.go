package app

import (
	"fmt"
	"math"

	"wizkid-challenge/internal/domain"
)

// ScoringConfig holds the per-answer point constants.
type ScoringConfig struct {
	BasePoints        int     // default: 10
	StreakBonusFactor float64 // default: 0.5 (bonus = base × streak × factor, floored)
}

// DefaultScoringConfig returns the daily challenge defaults.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		BasePoints:        10,
		StreakBonusFactor: 0.5,
	}
}

// PointsFor computes the award for one answer given the streak at session start.
func (c ScoringConfig) PointsFor(correct bool, streak int) int {
	if !correct {
		return 0
	}
	if streak < 0 {
		streak = 0
	}
	bonus := int(math.Floor(float64(c.BasePoints) * float64(streak) * c.StreakBonusFactor))
	return c.BasePoints + bonus
}

// StreakPolicy decides how the day streak reacts to skipped days.
type StreakPolicy string

const (
	// StreakIncrement adds one on every commit and never resets.
	StreakIncrement StreakPolicy = "increment"
	// StreakReset drops the streak to zero once a day is skipped; the next
	// commit starts again at one. Repeat plays on the same day do not count.
	StreakReset StreakPolicy = "reset"
)

// ParseStreakPolicy maps a config value to a policy. Empty means StreakReset.
func ParseStreakPolicy(raw string) (StreakPolicy, error) {
	switch StreakPolicy(raw) {
	case "":
		return StreakReset, nil
	case StreakIncrement, StreakReset:
		return StreakPolicy(raw), nil
	}
	return "", fmt.Errorf("unknown streak policy %q", raw)
}

// Effective returns the streak as of today, before today's play is committed.
func (p StreakPolicy) Effective(progress domain.Progress, today domain.Day) int {
	if p == StreakIncrement || progress.LastPlayedDate.IsZero() {
		return progress.Streak
	}
	if today.DaysSince(progress.LastPlayedDate) > 1 {
		return 0
	}
	return progress.Streak
}

// Next returns the streak after committing a session played today.
func (p StreakPolicy) Next(progress domain.Progress, today domain.Day) int {
	if p == StreakIncrement || progress.LastPlayedDate.IsZero() {
		return progress.Streak + 1
	}
	switch gap := today.DaysSince(progress.LastPlayedDate); {
	case gap <= 0:
		return progress.Streak
	case gap == 1:
		return progress.Streak + 1
	default:
		return 1
	}
}

// MergeOutcome folds a finished session into persisted progress.
func MergeOutcome(progress domain.Progress, outcome domain.Outcome, today domain.Day, policy StreakPolicy) domain.Progress {
	merged := progress
	if outcome.Score > 0 {
		merged.TotalPoints += outcome.Score
	}
	if outcome.Score > merged.DailyBest {
		merged.DailyBest = outcome.Score
	}
	merged.Streak = policy.Next(progress, today)
	merged.LastPlayedDate = today
	return merged
}
