package bot

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics структура для метрик Prometheus
type Metrics struct {
	UpdateProcessingTime prometheus.Histogram
	AppointmentsCreated  *prometheus.CounterVec
	RemindersSent        prometheus.Counter
	ErrorsTotal          prometheus.Counter
}

// NewMetrics создает новые метрики
func NewMetrics() *Metrics {
	return &Metrics{
		UpdateProcessingTime: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "salon_bot_update_processing_time_seconds",
			Help:    "Time spent processing updates",
			Buckets: prometheus.DefBuckets,
		}),

		AppointmentsCreated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "salon_bot_appointments_created_total",
			Help: "Total number of appointments created",
		}, []string{"service_title"}),

		RemindersSent: promauto.NewCounter(prometheus.CounterOpts{
			Name: "salon_bot_reminders_sent_total",
			Help: "Total number of day-ahead reminders sent",
		}),

		ErrorsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "salon_bot_errors_total",
			Help: "Total number of processing errors",
		}),
	}
}
