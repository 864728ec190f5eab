package app

import (
	"sort"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"wizkid-challenge/internal/domain"
)

// DefaultSampleSize is how many questions each subject contributes per day.
const DefaultSampleSize = 3

// Selector picks the daily questions. Output depends only on the calendar day
// and the catalog, so every caller sees the same set for a given day.
type Selector struct {
	Subjects   []domain.Subject
	SampleSize int
}

// DefaultSelector returns the selector used by the daily challenge.
func DefaultSelector() Selector {
	return Selector{Subjects: domain.DefaultSubjects, SampleSize: DefaultSampleSize}
}

// SelectDaily applies the default selector.
func SelectDaily(day domain.Day, catalog domain.Catalog) domain.DailyQuestionSet {
	return DefaultSelector().Select(day, catalog)
}

// Select returns up to SampleSize questions per subject, ranked by a hash of
// the day seed and question ID. Subjects with fewer questions return them all.
func (s Selector) Select(day domain.Day, catalog domain.Catalog) domain.DailyQuestionSet {
	subjects := s.Subjects
	if len(subjects) == 0 {
		subjects = domain.DefaultSubjects
	}
	size := s.SampleSize
	if size <= 0 {
		size = DefaultSampleSize
	}

	seed := strconv.FormatInt(day.EpochDays(), 10)
	set := domain.DailyQuestionSet{
		Date:       day,
		Subjects:   append([]domain.Subject(nil), subjects...),
		PerSubject: make(map[domain.Subject][]domain.Question, len(subjects)),
	}
	for _, subject := range subjects {
		set.PerSubject[subject] = sample(seed, subject, catalog[subject], size)
	}
	return set
}

type rankedQuestion struct {
	rank     uint64
	question domain.Question
}

func sample(seed string, subject domain.Subject, pool []domain.Question, size int) []domain.Question {
	ranked := make([]rankedQuestion, len(pool))
	for i, q := range pool {
		ranked[i] = rankedQuestion{
			rank:     xxhash.Sum64String(seed + ":" + string(subject) + ":" + q.ID),
			question: q,
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].rank != ranked[j].rank {
			return ranked[i].rank < ranked[j].rank
		}
		return ranked[i].question.ID < ranked[j].question.ID
	})

	if size > len(ranked) {
		size = len(ranked)
	}
	out := make([]domain.Question, size)
	for i := 0; i < size; i++ {
		out[i] = ranked[i].question
	}
	return out
}
