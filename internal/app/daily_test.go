package app_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wizkid-challenge/internal/app"
	"wizkid-challenge/internal/catalog"
	"wizkid-challenge/internal/domain"
)

func TestSelectDailyIsDeterministic(t *testing.T) {
	day := domain.Day{Year: 2025, Month: time.March, Day: 10}
	bank := catalog.Builtin()

	first := app.SelectDaily(day, bank)
	second := app.SelectDaily(day, bank)
	assert.Equal(t, first, second)

	for _, subject := range domain.DefaultSubjects {
		assert.Len(t, first.PerSubject[subject], 3, "subject %s", subject)
	}
	assert.Len(t, first.Flatten(), 9)
}

func TestSelectDailyIgnoresTimeOfDay(t *testing.T) {
	loc := time.FixedZone("test", 5*3600)
	morning := domain.DayOf(time.Date(2025, 3, 10, 0, 0, 1, 0, loc))
	night := domain.DayOf(time.Date(2025, 3, 10, 23, 59, 59, 0, loc))
	require.Equal(t, morning, night)

	bank := catalog.Builtin()
	assert.Equal(t, app.SelectDaily(morning, bank), app.SelectDaily(night, bank))
}

func TestSelectDailyChangesAcrossDays(t *testing.T) {
	bank := catalog.Builtin()
	start := domain.Day{Year: 2025, Month: time.January, Day: 1}
	base := ids(app.SelectDaily(start, bank))

	changed := false
	for i := 1; i <= 30 && !changed; i++ {
		changed = ids(app.SelectDaily(start.AddDays(i), bank)) != base
	}
	assert.True(t, changed, "expected selection to vary across a month")
}

func TestSelectDailyShortSubjectReturnsAll(t *testing.T) {
	bank := domain.Catalog{
		domain.SubjectMath: {
			question("m1", domain.SubjectMath),
			question("m2", domain.SubjectMath),
		},
	}
	set := app.SelectDaily(domain.Day{Year: 2025, Month: time.May, Day: 1}, bank)

	got := set.PerSubject[domain.SubjectMath]
	require.Len(t, got, 2)
	assert.ElementsMatch(t, []string{"m1", "m2"}, []string{got[0].ID, got[1].ID})
	assert.Empty(t, set.PerSubject[domain.SubjectWriting])
}

func TestSelectorHonoursSampleSize(t *testing.T) {
	sel := app.Selector{Subjects: []domain.Subject{domain.SubjectGeneralKnowledge}, SampleSize: 5}
	set := sel.Select(domain.Day{Year: 2025, Month: time.May, Day: 2}, catalog.Builtin())

	assert.Equal(t, []domain.Subject{domain.SubjectGeneralKnowledge}, set.Subjects)
	got := set.PerSubject[domain.SubjectGeneralKnowledge]
	require.Len(t, got, 5)
	seen := map[string]bool{}
	for _, q := range got {
		assert.False(t, seen[q.ID], "duplicate %s", q.ID)
		seen[q.ID] = true
	}
}

func ids(set domain.DailyQuestionSet) string {
	out := ""
	for _, q := range set.Flatten() {
		out += q.ID + ","
	}
	return out
}

func question(id string, subject domain.Subject) domain.Question {
	return domain.Question{
		ID:           id,
		Subject:      subject,
		Text:         fmt.Sprintf("Question %s", id),
		Options:      []string{"right", "wrong", "also wrong"},
		CorrectIndex: 0,
		Explanation:  "The first option is right.",
	}
}
