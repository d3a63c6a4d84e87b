package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "reach_adapter"

var (
	CyclesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "poll_cycles_total",
		Help:      "Number of poll cycles attempted, including failed and aborted ones.",
	})

	TasksSubmittedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_submitted_total",
		Help:      "Number of vendor tasks submitted to the transcriber.",
	})

	TasksCompletedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_completed_total",
		Help:      "Number of vendor tasks completed with captions attached.",
	})

	TasksFailedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_failed_total",
		Help:      "Number of vendor tasks moved to the error state.",
	}, []string{"reason"})

	RemoteErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "remote_errors_total",
		Help:      "Transport or auth failures per remote system.",
	}, []string{"system"})
)

func init() {
	prometheus.MustRegister(
		CyclesTotal,
		TasksSubmittedTotal,
		TasksCompletedTotal,
		TasksFailedTotal,
		RemoteErrorsTotal,
	)
}
