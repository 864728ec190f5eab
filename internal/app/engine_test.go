package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wizkid-challenge/internal/domain"
)

var testNow = time.Date(2025, time.March, 10, 16, 30, 0, 0, time.UTC)

type fakeStore struct {
	mu       sync.Mutex
	progress domain.Progress
	found    bool
	saveErr  error
	saves    int
}

func (s *fakeStore) Load(context.Context) (domain.Progress, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress, s.found, nil
}

func (s *fakeStore) Save(_ context.Context, p domain.Progress) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saves++
	s.progress = p
	s.found = true
	return nil
}

func newTestEngine(store ProgressStore) (*Engine, *ManualCountdown) {
	countdown := &ManualCountdown{}
	engine := NewEngine(store, EngineOptions{
		Countdown: countdown,
		Location:  time.UTC,
		Now:       func() time.Time { return testNow },
		Logger:    zerolog.Nop(),
	})
	return engine, countdown
}

// testSet has three subjects with three questions each; option 0 is always right.
func testSet() domain.DailyQuestionSet {
	set := domain.DailyQuestionSet{
		Date:       domain.DayOf(testNow),
		Subjects:   domain.DefaultSubjects,
		PerSubject: map[domain.Subject][]domain.Question{},
	}
	for _, subject := range domain.DefaultSubjects {
		for i := 1; i <= 3; i++ {
			set.PerSubject[subject] = append(set.PerSubject[subject], domain.Question{
				ID:           fmt.Sprintf("%s-%d", subject, i),
				Subject:      subject,
				Text:         "Pick the first option",
				Options:      []string{"right", "wrong"},
				CorrectIndex: 0,
				Explanation:  "It was the first one.",
			})
		}
	}
	return set
}

func answerAndAdvance(t *testing.T, e *Engine, selected int) {
	t.Helper()
	_, err := e.SubmitAnswer(selected)
	require.NoError(t, err)
	_, err = e.Advance()
	require.NoError(t, err)
}

func TestDailyChallengeScenario(t *testing.T) {
	ctx := context.Background()
	today := domain.DayOf(testNow)
	store := &fakeStore{
		progress: domain.Progress{TotalPoints: 100, Streak: 2, LastPlayedDate: today.AddDays(-1), DailyBest: 40},
		found:    true,
	}
	e, countdown := newTestEngine(store)

	snap, err := e.Start(ctx, testSet())
	require.NoError(t, err)
	assert.Equal(t, domain.StateActive, snap.State)
	assert.Equal(t, 9, snap.Total)
	assert.Equal(t, 120, snap.TimeRemaining)
	assert.Equal(t, 1, countdown.Running())

	answerAndAdvance(t, e, 0)
	answerAndAdvance(t, e, 0)
	answerAndAdvance(t, e, 0)
	answerAndAdvance(t, e, 1)

	outcome, err := e.Finish()
	require.NoError(t, err)
	assert.Equal(t, 60, outcome.Score)
	assert.Equal(t, 3, outcome.Correct)
	assert.Equal(t, 4, outcome.Answered)
	assert.Equal(t, domain.FinishExplicit, outcome.Cause)
	assert.Equal(t, 0, countdown.Running())
	assert.Equal(t, 0, store.saves, "finish must not persist")

	progress, err := e.Commit(ctx)
	require.NoError(t, err)
	assert.Equal(t, 160, progress.TotalPoints)
	assert.Equal(t, 3, progress.Streak)
	assert.Equal(t, 60, progress.DailyBest)
	assert.Equal(t, today, progress.LastPlayedDate)
	assert.Equal(t, progress, store.progress)
	assert.Equal(t, domain.StateIdle, e.State())
}

func TestSubmitAnswerIsIdempotent(t *testing.T) {
	e, _ := newTestEngine(&fakeStore{})
	_, err := e.Start(context.Background(), testSet())
	require.NoError(t, err)

	first, err := e.SubmitAnswer(0)
	require.NoError(t, err)
	assert.True(t, first.Correct)
	assert.Equal(t, 10, first.Awarded)

	second, err := e.SubmitAnswer(1)
	require.NoError(t, err)
	assert.True(t, second.Duplicate)
	assert.True(t, second.Correct)
	assert.Equal(t, 0, second.Selected)
	assert.Equal(t, 10, e.Snapshot().Score)
}

func TestIncorrectAnswerLeavesScore(t *testing.T) {
	e, _ := newTestEngine(&fakeStore{})
	_, err := e.Start(context.Background(), testSet())
	require.NoError(t, err)

	res, err := e.SubmitAnswer(1)
	require.NoError(t, err)
	assert.False(t, res.Correct)
	assert.Equal(t, 0, res.Awarded)
	assert.Equal(t, 0, res.CorrectIndex)
	assert.Equal(t, 0, e.Snapshot().Score)
	assert.True(t, e.Snapshot().Answered)
}

func TestSubmitAnswerRejectsUnknownOption(t *testing.T) {
	e, _ := newTestEngine(&fakeStore{})
	_, err := e.Start(context.Background(), testSet())
	require.NoError(t, err)

	_, err = e.SubmitAnswer(7)
	assert.ErrorIs(t, err, ErrOptionNotFound)
	assert.False(t, e.Snapshot().Answered)
}

func TestAdvanceRequiresAnswer(t *testing.T) {
	e, _ := newTestEngine(&fakeStore{})
	_, err := e.Start(context.Background(), testSet())
	require.NoError(t, err)

	_, err = e.Advance()
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, 0, e.Snapshot().QuestionIndex)
}

func TestAdvancePastLastQuestionFinishes(t *testing.T) {
	e, countdown := newTestEngine(&fakeStore{})
	_, err := e.Start(context.Background(), testSet())
	require.NoError(t, err)

	for i := 0; i < 9; i++ {
		answerAndAdvance(t, e, 0)
	}
	outcome, ok := e.Outcome()
	require.True(t, ok)
	assert.Equal(t, domain.StateFinished, e.State())
	assert.Equal(t, domain.FinishCompleted, outcome.Cause)
	assert.Equal(t, 90, outcome.Score)
	assert.Equal(t, 0, countdown.Running())
}

func TestTimeoutMatchesExplicitFinish(t *testing.T) {
	ctx := context.Background()

	timed, timedCountdown := newTestEngine(&fakeStore{})
	_, err := timed.Start(ctx, testSet())
	require.NoError(t, err)
	answerAndAdvance(t, timed, 0)
	for i := 0; i < 120; i++ {
		_, err := timed.Tick()
		require.NoError(t, err)
	}
	timedOutcome, ok := timed.Outcome()
	require.True(t, ok)
	assert.Equal(t, domain.StateFinished, timed.State())
	assert.Equal(t, domain.FinishTimeout, timedOutcome.Cause)
	assert.Equal(t, 0, timedOutcome.TimeRemaining)
	assert.Equal(t, 0, timedCountdown.Running())

	_, err = timed.Tick()
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	explicit, _ := newTestEngine(&fakeStore{})
	_, err = explicit.Start(ctx, testSet())
	require.NoError(t, err)
	answerAndAdvance(t, explicit, 0)
	explicitOutcome, err := explicit.Finish()
	require.NoError(t, err)

	assert.Equal(t, explicitOutcome.Score, timedOutcome.Score)
	assert.Equal(t, explicitOutcome.Correct, timedOutcome.Correct)
	assert.Equal(t, explicit.State(), timed.State())
}

func TestStaleTimerIsIgnored(t *testing.T) {
	e, _ := newTestEngine(&fakeStore{})
	_, err := e.Start(context.Background(), testSet())
	require.NoError(t, err)

	e.timerTick("some-old-session")
	assert.Equal(t, 120, e.Snapshot().TimeRemaining)

	e.timerTick(e.Snapshot().SessionID)
	assert.Equal(t, 119, e.Snapshot().TimeRemaining)
}

func TestCommitFailureKeepsFinished(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{saveErr: &domain.PersistenceError{Op: "save", Key: "progress", Err: errors.New("quota exceeded")}}
	e, _ := newTestEngine(store)
	_, err := e.Start(ctx, testSet())
	require.NoError(t, err)
	answerAndAdvance(t, e, 0)
	_, err = e.Finish()
	require.NoError(t, err)

	_, err = e.Commit(ctx)
	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.Equal(t, domain.StateFinished, e.State())

	store.saveErr = nil
	progress, err := e.Commit(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, progress.TotalPoints)
	assert.Equal(t, 1, progress.Streak)
	assert.Equal(t, domain.StateIdle, e.State())
}

func TestInvalidTransitionsFromIdle(t *testing.T) {
	e, _ := newTestEngine(&fakeStore{})
	ctx := context.Background()

	_, err := e.SubmitAnswer(0)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = e.Advance()
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = e.Finish()
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = e.Commit(ctx)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = e.Tick()
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.ErrorIs(t, e.Abandon(), domain.ErrInvalidTransition)

	var te *domain.TransitionError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, domain.StateIdle, te.State)
}

func TestStartWhileActiveFails(t *testing.T) {
	e, _ := newTestEngine(&fakeStore{})
	ctx := context.Background()
	_, err := e.Start(ctx, testSet())
	require.NoError(t, err)

	_, err = e.Start(ctx, testSet())
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = e.Start(ctx, domain.DailyQuestionSet{})
	assert.ErrorIs(t, err, domain.ErrNoQuestions)
}

func TestRestartFromFinishedDiscardsOutcome(t *testing.T) {
	store := &fakeStore{}
	e, countdown := newTestEngine(store)
	ctx := context.Background()
	_, err := e.Start(ctx, testSet())
	require.NoError(t, err)
	_, err = e.Finish()
	require.NoError(t, err)

	snap, err := e.Start(ctx, testSet())
	require.NoError(t, err)
	assert.Equal(t, domain.StateActive, snap.State)
	assert.Nil(t, snap.Outcome)
	assert.Equal(t, 1, countdown.Running())
	assert.Equal(t, 0, store.saves)
}

func TestAbandonStopsCountdown(t *testing.T) {
	store := &fakeStore{progress: domain.Progress{TotalPoints: 50}, found: true}
	e, countdown := newTestEngine(store)
	_, err := e.Start(context.Background(), testSet())
	require.NoError(t, err)
	answerAndAdvance(t, e, 0)

	require.NoError(t, e.Abandon())
	assert.Equal(t, domain.StateIdle, e.State())
	assert.Equal(t, 0, countdown.Running())
	assert.Equal(t, 50, store.progress.TotalPoints)
}

func TestBonusUsesStreakAtStart(t *testing.T) {
	today := domain.DayOf(testNow)
	skipped := &fakeStore{progress: domain.Progress{Streak: 6, LastPlayedDate: today.AddDays(-3)}, found: true}
	e, _ := newTestEngine(skipped)
	_, err := e.Start(context.Background(), testSet())
	require.NoError(t, err)

	res, err := e.SubmitAnswer(0)
	require.NoError(t, err)
	assert.Equal(t, 10, res.Awarded, "a skipped day drops the bonus")
}

func TestSubscribeReceivesSnapshots(t *testing.T) {
	e, _ := newTestEngine(&fakeStore{})
	ch, cancel := e.Subscribe()
	defer cancel()

	initial := <-ch
	assert.Equal(t, domain.StateIdle, initial.State)

	_, err := e.Start(context.Background(), testSet())
	require.NoError(t, err)
	started := <-ch
	assert.Equal(t, domain.StateActive, started.State)
	require.NotNil(t, started.Question)
	assert.Equal(t, "math-1", started.Question.ID)

	_, err = e.Tick()
	require.NoError(t, err)
	ticked := <-ch
	assert.Equal(t, 119, ticked.TimeRemaining)
}

func TestTickerCountdownStops(t *testing.T) {
	var mu sync.Mutex
	ticks := 0
	stop := TickerCountdown{}.Start(time.Millisecond, func() {
		mu.Lock()
		ticks++
		mu.Unlock()
	})
	time.Sleep(20 * time.Millisecond)
	stop()
	stop()

	mu.Lock()
	after := ticks
	mu.Unlock()
	time.Sleep(20 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Greater(t, after, 0)
	assert.LessOrEqual(t, ticks, after+1)
}
