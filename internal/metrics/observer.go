package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"wizkid-challenge/internal/domain"
)

// Observer records engine lifecycle events as Prometheus metrics.
type Observer struct {
	started   prometheus.Counter
	finished  *prometheus.CounterVec
	committed prometheus.Counter
	abandoned *prometheus.CounterVec
	answers   *prometheus.CounterVec
	failures  prometheus.Counter
	scores    prometheus.Histogram
	streak    prometheus.Gauge
}

// NewObserver registers the challenge metrics on reg.
func NewObserver(reg prometheus.Registerer) *Observer {
	o := &Observer{
		started: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wizkid",
			Name:      "sessions_started_total",
			Help:      "Daily challenge sessions started.",
		}),
		finished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wizkid",
			Name:      "sessions_finished_total",
			Help:      "Daily challenge sessions finished, by cause.",
		}, []string{"cause"}),
		committed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wizkid",
			Name:      "sessions_committed_total",
			Help:      "Finished sessions merged into stored progress.",
		}),
		abandoned: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wizkid",
			Name:      "sessions_abandoned_total",
			Help:      "Sessions discarded before commit, by state.",
		}, []string{"state"}),
		answers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wizkid",
			Name:      "answers_total",
			Help:      "Submitted answers, by result.",
		}, []string{"result"}),
		failures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wizkid",
			Name:      "commit_failures_total",
			Help:      "Commits that failed to persist progress.",
		}),
		scores: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "wizkid",
			Name:      "session_score",
			Help:      "Final score of finished sessions.",
			Buckets:   prometheus.LinearBuckets(0, 20, 10),
		}),
		streak: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "wizkid",
			Name:      "streak_days",
			Help:      "Streak after the last commit.",
		}),
	}
	reg.MustRegister(o.started, o.finished, o.committed, o.abandoned, o.answers, o.failures, o.scores, o.streak)
	return o
}

func (o *Observer) SessionStarted(domain.Day, int) {
	o.started.Inc()
}

func (o *Observer) AnswerSubmitted(correct bool, _ int) {
	result := "incorrect"
	if correct {
		result = "correct"
	}
	o.answers.WithLabelValues(result).Inc()
}

func (o *Observer) SessionFinished(outcome domain.Outcome) {
	o.finished.WithLabelValues(string(outcome.Cause)).Inc()
	o.scores.Observe(float64(outcome.Score))
}

func (o *Observer) SessionCommitted(_ domain.Outcome, progress domain.Progress) {
	o.committed.Inc()
	o.streak.Set(float64(progress.Streak))
}

func (o *Observer) CommitFailed(error) {
	o.failures.Inc()
}

func (o *Observer) SessionAbandoned(state domain.SessionState) {
	o.abandoned.WithLabelValues(string(state)).Inc()
}
