package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "classroom"

var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route and status.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	AttendanceSessionsOpened = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "attendance_sessions_opened_total",
		Help:      "Attendance sessions opened by teachers.",
	})

	AttendanceSessionsClosed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "attendance_sessions_closed_total",
		Help:      "Attendance sessions closed by teachers.",
	})

	AbsencesBackfilled = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "attendance_absences_backfilled_total",
		Help:      "Absent rows written when a session closes.",
	})

	// result: present | wrong_passcode | rejected
	CheckIns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "attendance_checkins_total",
		Help:      "QR check-in attempts by outcome.",
	}, []string{"result"})

	// to: pending | approved | rejected | paid
	EnrollmentTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "enrollment_transitions_total",
		Help:      "Enrollment state changes.",
	}, []string{"to"})

	// outcome: paid | updated | ignored | rejected
	PaymentNotifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payment_notifications_total",
		Help:      "Payment gateway notifications by outcome.",
	}, []string{"outcome"})
)
