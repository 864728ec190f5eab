package app

import (
	"context"

	"wizkid-challenge/internal/domain"
)

// DailyRepository returns the question set for a calendar day (from cache/backing store).
type DailyRepository interface {
	GetDaily(ctx context.Context, day domain.Day) (domain.DailyQuestionSet, error)
}

// ChallengeService wires the daily questions, the engine and the progress store
// into the use cases the presentation layer calls.
type ChallengeService struct {
	daily  DailyRepository
	engine *Engine
	store  ProgressStore
}

func NewChallengeService(daily DailyRepository, engine *Engine, store ProgressStore) *ChallengeService {
	return &ChallengeService{daily: daily, engine: engine, store: store}
}

// Engine exposes the session engine for snapshot reads and subscriptions.
func (s *ChallengeService) Engine() *Engine {
	return s.engine
}

// Today returns today's question set.
func (s *ChallengeService) Today(ctx context.Context) (domain.DailyQuestionSet, error) {
	return s.daily.GetDaily(ctx, s.engine.Today())
}

// StartToday loads today's questions and starts a session over them.
func (s *ChallengeService) StartToday(ctx context.Context) (domain.Snapshot, error) {
	set, err := s.Today(ctx)
	if err != nil {
		return domain.Snapshot{}, err
	}
	return s.engine.Start(ctx, set)
}

// Progress returns the stored progress, or a fresh record on first run.
func (s *ChallengeService) Progress(ctx context.Context) (domain.Progress, error) {
	progress, _, err := s.store.Load(ctx)
	if err != nil {
		return domain.Progress{}, err
	}
	return progress, nil
}

// DisplayProgress is Progress with the streak as it stands today, so a skipped
// day shows as a broken streak before the next play.
func (s *ChallengeService) DisplayProgress(ctx context.Context) (domain.Progress, error) {
	progress, err := s.Progress(ctx)
	if err != nil {
		return domain.Progress{}, err
	}
	progress.Streak = s.engine.opts.Streak.Effective(progress, s.engine.Today())
	return progress, nil
}
