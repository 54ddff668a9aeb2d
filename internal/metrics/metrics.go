package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ChainCalls counts contract-service operations by method, both bound
	// and demo mode.
	ChainCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "unistay_chain_calls_total",
		Help: "Contract service calls by method",
	}, []string{"method"})

	// CacheHits and CacheMisses track the listing cache.
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "unistay_cache_hits_total",
		Help: "Listing cache hits",
	})
	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "unistay_cache_misses_total",
		Help: "Listing cache misses",
	})

	// MailboxNotifications counts realtime invalidation events published.
	MailboxNotifications = promauto.NewCounter(prometheus.CounterOpts{
		Name: "unistay_mailbox_notifications_total",
		Help: "Mailbox invalidation events published",
	})
)
