package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/companion/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the pipeline collectors.
type Metrics struct {
	Submissions     prometheus.Counter
	SubmitDuration  prometheus.Histogram
	Quits           prometheus.Counter
	Actions         *prometheus.CounterVec
	ActionDuration  *prometheus.HistogramVec
	ActionsInFlight prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Submissions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "companion_submissions_total",
			Help: "Total number of processed submissions",
		}),
		SubmitDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "companion_submission_duration_seconds",
			Help:    "Duration of submissions, interpretation included",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		}),
		Quits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "companion_quit_requests_total",
			Help: "Total number of submissions that asked the host to stop",
		}),
		Actions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "companion_actions_total",
				Help: "Total number of executed actions",
			},
			[]string{"kind", "outcome"},
		),
		ActionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "companion_action_duration_seconds",
				Help: "Duration of action executions",
			},
			[]string{"kind"},
		),
		ActionsInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "companion_actions_in_flight",
			Help: "Number of actions currently executing",
		}),
	}

	for _, c := range []prometheus.Collector{m.Submissions, m.SubmitDuration, m.Quits, m.Actions, m.ActionDuration, m.ActionsInFlight} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnSubmitDone: func(ctx context.Context, e *domain.SubmitEvent) {
			m.Submissions.Inc()
			m.SubmitDuration.Observe(e.Duration.Seconds())
			if e.Quit {
				m.Quits.Inc()
			}
		},
		OnActionStart: func(ctx context.Context, e *domain.ActionEvent) {
			m.ActionsInFlight.Inc()
		},
		OnActionDone: func(ctx context.Context, e *domain.ActionEvent) {
			m.ActionsInFlight.Dec()
			outcome := "ok"
			if e.Failed {
				outcome = "failed"
			}
			kind := e.Kind
			if kind == "" {
				kind = "invalid"
			}
			m.Actions.WithLabelValues(kind, outcome).Inc()
			m.ActionDuration.WithLabelValues(kind).Observe(e.Duration.Seconds())
		},
	}
}

// LogHooks returns lifecycle hooks that log every event at debug level.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnSubmit: func(ctx context.Context, e *domain.SubmitEvent) {
			logger.Debug("submit", "submission_id", e.SubmissionID, "text", e.Text)
		},
		OnSubmitDone: func(ctx context.Context, e *domain.SubmitEvent) {
			logger.Debug("submit_done", "submission_id", e.SubmissionID, "actions", e.Actions, "quit", e.Quit, "duration", e.Duration)
		},
		OnActionStart: func(ctx context.Context, e *domain.ActionEvent) {
			logger.Debug("action_start", "submission_id", e.SubmissionID, "index", e.Index, "kind", e.Kind)
		},
		OnActionDone: func(ctx context.Context, e *domain.ActionEvent) {
			logger.Debug("action_done", "submission_id", e.SubmissionID, "index", e.Index, "kind", e.Kind, "failed", e.Failed, "status", e.Status)
		},
	}
}
