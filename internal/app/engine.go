package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"wizkid-challenge/internal/domain"
)

// ErrOptionNotFound is returned when a selected index is outside the question's options.
var ErrOptionNotFound = errors.New("option not found")

// DefaultSessionLength is how long a daily challenge lasts.
const DefaultSessionLength = 120 * time.Second

// ProgressStore loads and saves the persisted progress record.
type ProgressStore interface {
	// Load returns the stored progress, or found=false when nothing usable is stored.
	Load(ctx context.Context) (progress domain.Progress, found bool, err error)
	// Save overwrites the stored progress.
	Save(ctx context.Context, progress domain.Progress) error
}

// Observer receives engine lifecycle events (metrics, audit).
type Observer interface {
	SessionStarted(day domain.Day, questions int)
	AnswerSubmitted(correct bool, awarded int)
	SessionFinished(outcome domain.Outcome)
	SessionCommitted(outcome domain.Outcome, progress domain.Progress)
	CommitFailed(err error)
	SessionAbandoned(state domain.SessionState)
}

type nopObserver struct{}

func (nopObserver) SessionStarted(domain.Day, int) {}
func (nopObserver) AnswerSubmitted(bool, int) {}
func (nopObserver) SessionFinished(domain.Outcome) {}
func (nopObserver) SessionCommitted(domain.Outcome, domain.Progress) {}
func (nopObserver) CommitFailed(error) {}
func (nopObserver) SessionAbandoned(domain.SessionState) {}

// EngineOptions configures an Engine. Zero values fall back to defaults.
type EngineOptions struct {
	Scoring       ScoringConfig
	Streak        StreakPolicy
	SessionLength time.Duration
	Countdown     Countdown
	Location      *time.Location
	Now           func() time.Time
	Observer      Observer
	Logger        zerolog.Logger
}

// Engine owns the single daily challenge session and its lifecycle:
// idle -> active -> finished -> (commit) -> idle.
// All methods are safe to call from the UI goroutine and the countdown goroutine.
type Engine struct {
	store ProgressStore
	opts  EngineOptions

	mu          sync.Mutex
	state       domain.SessionState
	session     *session
	outcome     *domain.Outcome
	subscribers map[chan domain.Snapshot]struct{}
}

type session struct {
	id            string
	day           domain.Day
	questions     []domain.Question
	index         int
	score         int
	correct       int
	answeredCount int
	timeRemaining int
	streak        int
	answered      bool
	last          *domain.AnswerResult
	stop          func()
}

func NewEngine(store ProgressStore, opts EngineOptions) *Engine {
	if opts.Scoring.BasePoints <= 0 {
		opts.Scoring = DefaultScoringConfig()
	}
	if opts.Streak == "" {
		opts.Streak = StreakReset
	}
	if opts.SessionLength < time.Second {
		opts.SessionLength = DefaultSessionLength
	}
	if opts.Countdown == nil {
		opts.Countdown = TickerCountdown{}
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Observer == nil {
		opts.Observer = nopObserver{}
	}
	return &Engine{
		store:       store,
		opts:        opts,
		state:       domain.StateIdle,
		subscribers: make(map[chan domain.Snapshot]struct{}),
	}
}

// Today returns the current calendar day in the engine's location.
func (e *Engine) Today() domain.Day {
	return domain.DayOf(e.opts.Now().In(e.opts.Location))
}

// Start begins a session over the day's questions. Allowed from idle or finished;
// an uncommitted outcome is discarded.
func (e *Engine) Start(ctx context.Context, set domain.DailyQuestionSet) (domain.Snapshot, error) {
	questions := set.Flatten()
	if len(questions) == 0 {
		return domain.Snapshot{}, domain.ErrNoQuestions
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == domain.StateActive {
		return domain.Snapshot{}, &domain.TransitionError{Op: "start", State: e.state}
	}

	progress, _, err := e.store.Load(ctx)
	if err != nil {
		return domain.Snapshot{}, err
	}

	if e.state == domain.StateFinished && e.outcome != nil {
		e.opts.Logger.Warn().
			Str("session", e.outcome.SessionID).
			Int("score", e.outcome.Score).
			Msg("discarding uncommitted session")
	}

	s := &session{
		id:            uuid.NewString(),
		day:           set.Date,
		questions:     questions,
		timeRemaining: int(e.opts.SessionLength / time.Second),
		streak:        e.opts.Streak.Effective(progress, e.Today()),
	}
	e.session = s
	e.outcome = nil
	e.state = domain.StateActive
	id := s.id
	s.stop = e.opts.Countdown.Start(time.Second, func() { e.timerTick(id) })

	e.opts.Logger.Debug().
		Str("session", s.id).
		Str("date", set.Date.String()).
		Int("questions", len(questions)).
		Int("streak", s.streak).
		Msg("session started")
	e.opts.Observer.SessionStarted(set.Date, len(questions))
	return e.broadcastLocked(), nil
}

// Tick advances the clock by one second; reaching zero finishes the session.
func (e *Engine) Tick() (domain.Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != domain.StateActive {
		return domain.Snapshot{}, &domain.TransitionError{Op: "tick", State: e.state}
	}
	e.tickLocked()
	return e.broadcastLocked(), nil
}

// timerTick ignores callbacks from a countdown that belongs to an older session.
func (e *Engine) timerTick(sessionID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != domain.StateActive || e.session == nil || e.session.id != sessionID {
		return
	}
	e.tickLocked()
	e.broadcastLocked()
}

func (e *Engine) tickLocked() {
	s := e.session
	if s.timeRemaining > 0 {
		s.timeRemaining--
	}
	if s.timeRemaining == 0 {
		e.finishLocked(domain.FinishTimeout)
	}
}

// SubmitAnswer scores the current question. A second submission for the same
// question returns the first result unchanged.
func (e *Engine) SubmitAnswer(selected int) (domain.AnswerResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != domain.StateActive {
		return domain.AnswerResult{}, &domain.TransitionError{Op: "submit answer", State: e.state}
	}

	s := e.session
	if s.answered {
		dup := *s.last
		dup.Duplicate = true
		return dup, nil
	}

	q := s.questions[s.index]
	if selected < 0 || selected >= len(q.Options) {
		return domain.AnswerResult{}, ErrOptionNotFound
	}

	correct := q.IsCorrect(selected)
	awarded := e.opts.Scoring.PointsFor(correct, s.streak)
	s.score += awarded
	s.answeredCount++
	if correct {
		s.correct++
	}
	s.answered = true
	s.last = &domain.AnswerResult{
		QuestionID:   q.ID,
		Selected:     selected,
		Correct:      correct,
		Awarded:      awarded,
		CorrectIndex: q.CorrectIndex,
		Explanation:  q.Explanation,
		Score:        s.score,
	}

	e.opts.Observer.AnswerSubmitted(correct, awarded)
	e.broadcastLocked()
	return *s.last, nil
}

// Advance moves to the next question, finishing after the last one.
func (e *Engine) Advance() (domain.Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != domain.StateActive {
		return domain.Snapshot{}, &domain.TransitionError{Op: "advance", State: e.state}
	}
	if !e.session.answered {
		return domain.Snapshot{}, &domain.TransitionError{Op: "advance before answering", State: e.state}
	}

	s := e.session
	if s.index == len(s.questions)-1 {
		e.finishLocked(domain.FinishCompleted)
	} else {
		s.index++
		s.answered = false
		s.last = nil
	}
	return e.broadcastLocked(), nil
}

// Finish ends the session early. Progress is untouched until Commit.
func (e *Engine) Finish() (domain.Outcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != domain.StateActive {
		return domain.Outcome{}, &domain.TransitionError{Op: "finish", State: e.state}
	}
	e.finishLocked(domain.FinishExplicit)
	e.broadcastLocked()
	return *e.outcome, nil
}

func (e *Engine) finishLocked(cause domain.FinishCause) {
	s := e.session
	s.stop()
	e.outcome = &domain.Outcome{
		SessionID:     s.id,
		Date:          s.day,
		Score:         s.score,
		Correct:       s.correct,
		Answered:      s.answeredCount,
		Total:         len(s.questions),
		TimeRemaining: s.timeRemaining,
		Cause:         cause,
		FinishedAt:    e.opts.Now(),
	}
	e.state = domain.StateFinished
	e.opts.Logger.Debug().
		Str("session", s.id).
		Str("cause", string(cause)).
		Int("score", s.score).
		Msg("session finished")
	e.opts.Observer.SessionFinished(*e.outcome)
}

// Commit merges the finished session into stored progress and returns to idle.
// On a storage failure the engine stays finished so the caller can retry.
func (e *Engine) Commit(ctx context.Context) (domain.Progress, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != domain.StateFinished {
		return domain.Progress{}, &domain.TransitionError{Op: "commit", State: e.state}
	}

	current, _, err := e.store.Load(ctx)
	if err != nil {
		e.opts.Observer.CommitFailed(err)
		return domain.Progress{}, err
	}
	merged := MergeOutcome(current, *e.outcome, e.Today(), e.opts.Streak)
	if err := e.store.Save(ctx, merged); err != nil {
		e.opts.Logger.Error().Err(err).Str("session", e.outcome.SessionID).Msg("commit failed")
		e.opts.Observer.CommitFailed(err)
		return domain.Progress{}, err
	}

	outcome := *e.outcome
	e.reset()
	e.opts.Observer.SessionCommitted(outcome, merged)
	e.broadcastLocked()
	return merged, nil
}

// Abandon discards the current session without touching progress.
func (e *Engine) Abandon() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == domain.StateIdle {
		return &domain.TransitionError{Op: "abandon", State: e.state}
	}
	prev := e.state
	if e.state == domain.StateActive {
		e.session.stop()
	}
	e.reset()
	e.opts.Observer.SessionAbandoned(prev)
	e.broadcastLocked()
	return nil
}

func (e *Engine) reset() {
	e.state = domain.StateIdle
	e.session = nil
	e.outcome = nil
}

// State returns the current lifecycle state.
func (e *Engine) State() domain.SessionState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Outcome returns the pending outcome while finished.
func (e *Engine) Outcome() (domain.Outcome, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.outcome == nil {
		return domain.Outcome{}, false
	}
	return *e.outcome, true
}

// Snapshot returns a copy of the engine state for rendering.
func (e *Engine) Snapshot() domain.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// Subscribe returns a channel that receives a snapshot after every change.
// The caller must invoke the returned cancel function to avoid leaks.
func (e *Engine) Subscribe() (<-chan domain.Snapshot, func()) {
	ch := make(chan domain.Snapshot, 8)

	e.mu.Lock()
	e.subscribers[ch] = struct{}{}
	initial := e.snapshotLocked()
	e.mu.Unlock()

	ch <- initial

	cancel := func() {
		e.mu.Lock()
		if _, ok := e.subscribers[ch]; ok {
			delete(e.subscribers, ch)
			close(ch)
		}
		e.mu.Unlock()
	}
	return ch, cancel
}

// Close stops any running countdown and detaches subscribers.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == domain.StateActive {
		e.session.stop()
		e.reset()
	}
	for ch := range e.subscribers {
		delete(e.subscribers, ch)
		close(ch)
	}
}

func (e *Engine) broadcastLocked() domain.Snapshot {
	snap := e.snapshotLocked()
	for ch := range e.subscribers {
		select {
		case ch <- snap:
		default:
			// Slow subscriber: drop the oldest snapshot, keep the newest.
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
	return snap
}

func (e *Engine) snapshotLocked() domain.Snapshot {
	snap := domain.Snapshot{State: e.state}
	if e.outcome != nil {
		outcome := *e.outcome
		snap.Outcome = &outcome
		snap.SessionID = outcome.SessionID
		snap.Score = outcome.Score
		snap.TimeRemaining = outcome.TimeRemaining
		snap.Total = outcome.Total
	}
	s := e.session
	if s == nil || e.state != domain.StateActive {
		return snap
	}

	q := s.questions[s.index].Public()
	snap.SessionID = s.id
	snap.QuestionIndex = s.index
	snap.Total = len(s.questions)
	snap.Score = s.score
	snap.TimeRemaining = s.timeRemaining
	snap.Answered = s.answered
	snap.Question = &q
	if s.last != nil {
		last := *s.last
		snap.LastAnswer = &last
	}
	return snap
}
