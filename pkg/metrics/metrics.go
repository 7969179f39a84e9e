package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "http_requests_total",
	Help: "Total number of requests labelled by path and status",
}, []string{"path", "status"})

var DocumentsUpserted = promauto.NewCounter(prometheus.CounterOpts{
	Name: "kb_documents_upserted_total",
	Help: "Documents embedded and upserted into the knowledge base",
})

var DocumentsFailed = promauto.NewCounter(prometheus.CounterOpts{
	Name: "kb_documents_failed_total",
	Help: "Documents skipped because embedding or upsert failed",
})

var QueriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "kb_queries_total",
	Help: "Knowledge base queries labelled by kind and outcome",
}, []string{"kind", "outcome"})
