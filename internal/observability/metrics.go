package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CommentsCreated counts persisted comments by owner kind and
	// author form.
	CommentsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "threadline_comments_created_total",
		Help: "Total number of comments created, by owner kind and author form",
	}, []string{"owner_kind", "author"})

	// CommentsApproved counts one-shot approval stamps.
	CommentsApproved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "threadline_comments_approved_total",
		Help: "Total number of comments approved",
	})

	// ThreadCacheRequests counts thread reads served from or missing
	// the Redis cache.
	ThreadCacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "threadline_thread_cache_requests_total",
		Help: "Thread cache lookups by result (hit or miss)",
	}, []string{"result"})
)
