// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DraftOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registration_draft_operations_total",
			Help: "Draft store operations by outcome (ok, absent, corrupt, degraded)",
		},
		[]string{"op", "outcome"},
	)

	StepValidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registration_step_validations_total",
			Help: "Step validations by step and result",
		},
		[]string{"step", "result"},
	)

	WizardTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registration_wizard_transitions_total",
			Help: "Wizard state transitions",
		},
		[]string{"from", "to"},
	)

	WizardSessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "registration_wizard_sessions_active",
			Help: "Wizard sessions held in memory",
		},
	)

	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registration_submissions_total",
			Help: "Submissions by gateway and outcome",
		},
		[]string{"gateway", "outcome"},
	)

	SubmissionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "registration_submission_duration_seconds",
			Help:    "Duration of submission gateway calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"gateway"},
	)

	ProxyRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registration_proxy_requests_total",
			Help: "Submission proxy responses by status code",
		},
		[]string{"code"},
	)

	ImagesProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registration_images_processed_total",
			Help: "Image uploads by outcome",
		},
		[]string{"outcome"},
	)

	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registration_notifications_total",
			Help: "Member notifications by channel and outcome",
		},
		[]string{"channel", "outcome"},
	)
)
