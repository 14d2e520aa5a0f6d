// Package metrics defines the application's Prometheus collectors.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	PollsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tweetwatch_polls_total",
		Help: "Guild poll cycles started",
	})
	FetchErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tweetwatch_fetch_errors_total",
		Help: "Failed latest-tweet fetches",
	})
	NotificationsSent = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tweetwatch_notifications_sent_total",
		Help: "Notifications delivered to channels",
	})
	DeliveryErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tweetwatch_delivery_errors_total",
		Help: "Failed notification deliveries",
	})
	ItemsFiltered = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tweetwatch_items_filtered_total",
		Help: "New items skipped by retweet policy or content filters",
	})
	WatchedAccounts = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "tweetwatch_watched_accounts",
		Help: "Accounts with a tracked watermark",
	})
	SchedulerRunning = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "tweetwatch_scheduler_running",
		Help: "1 while the poll loop is running",
	})
)

// MustRegister registers all collectors with the given registerer.
func MustRegister(registerer prometheus.Registerer) {
	registerer.MustRegister(
		PollsTotal,
		FetchErrors,
		NotificationsSent,
		DeliveryErrors,
		ItemsFiltered,
		WatchedAccounts,
		SchedulerRunning,
	)
}
