package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	NotificationsEmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "connectin_notifications_emitted_total",
		Help: "Notifications persisted by the fan-out",
	}, []string{"type"})

	NotificationsSuppressed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "connectin_notifications_suppressed_total",
		Help: "Fan-outs dropped because the actor was the only recipient",
	}, []string{"type"})

	EmailFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "connectin_email_failures_total",
		Help: "Best-effort emails that could not be delivered",
	}, []string{"kind"})

	ImageFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "connectin_image_failures_total",
		Help: "Image upload or delete calls rejected by object storage",
	}, []string{"op"})

	ConnectionTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "connectin_connection_transitions_total",
		Help: "Connection state machine transitions",
	}, []string{"transition"})
)
