package services

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	quotaChecksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quota_checks_total",
			Help: "The total number of quota checks by resource and outcome",
		},
		[]string{"resource", "outcome"},
	)

	quotaWarningsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quota_warnings_total",
			Help: "The total number of advisory quota warnings by resource",
		},
		[]string{"resource"},
	)

	quotaStoreFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "quota_store_failures_total",
			Help: "The total number of counter store failures observed by the quota engine",
		},
	)
)

func init() {
	prometheus.MustRegister(quotaChecksTotal)
	prometheus.MustRegister(quotaWarningsTotal)
	prometheus.MustRegister(quotaStoreFailuresTotal)
}

// GetQuotaChecksTotal returns the quota checks metric for dashboards/tests
func GetQuotaChecksTotal() *prometheus.CounterVec {
	return quotaChecksTotal
}

// GetQuotaWarningsTotal returns the quota warnings metric
func GetQuotaWarningsTotal() *prometheus.CounterVec {
	return quotaWarningsTotal
}
