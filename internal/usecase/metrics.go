package usecase

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	quoteTransitionsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "devis",
			Name:      "quote_transitions_total",
			Help:      "Quote lifecycle transitions by action and result.",
		},
		[]string{"action", "result"}, // result: ok, forbidden, invalid, conflict, error
	)

	quoteVersionConflictsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "devis",
			Name:      "quote_version_conflicts_total",
			Help:      "Compare-and-set conflicts retried by the quote use case.",
		},
	)

	notificationsEmittedCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "devis",
			Name:      "notifications_emitted_total",
			Help:      "Notification writes by recipient role and result.",
		},
		[]string{"role", "result"}, // result: ok, reconcile
	)

	notificationWriteRetriesCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "devis",
			Name:      "notification_write_retries_total",
			Help:      "Retried notification writes.",
		},
	)
)
