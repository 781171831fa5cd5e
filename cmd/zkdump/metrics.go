package main

import (
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/uber-go/tally"
	promreporter "github.com/uber-go/tally/prometheus"
)

var (
	operationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zkdump_operations_total",
			Help: "Number of ZooKeeper operations seen, by operation.",
		},
		[]string{"operation"},
	)
	operationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "zkdump_operation_duration_seconds",
			Help: "Time between a request and its matching response, by operation.",
		},
		[]string{"operation"},
	)

	// decodeFailures counts packets the codec refused; set up by RootScope.
	decodeFailures tally.Counter
)

func init() {
	prometheus.MustRegister(operationCounter, operationHistogram)
}

type rootScopeFactory func() (tally.Scope, tally.CachedStatsReporter, io.Closer, error)

// RootScope returns the provided metrics scope and stats reporter from the given factory
func RootScope() (tally.Scope, tally.CachedStatsReporter, io.Closer) {
	return newRootScope(getRootScope)
}

func newRootScope(scopeFactory rootScopeFactory) (tally.Scope, tally.CachedStatsReporter, io.Closer) {
	scope, reporter, closer, err := scopeFactory()
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize metrics reporter %v", err))
	}
	decodeFailures = scope.Counter("decode_failures")
	return scope, reporter, closer
}

func getRootScope() (tally.Scope, tally.CachedStatsReporter, io.Closer, error) {
	reporter := promreporter.NewReporter(promreporter.Options{})
	scope, closer := tally.NewRootScope(tally.ScopeOptions{
		Prefix:         "zkdump",
		Tags:           map[string]string{},
		CachedReporter: reporter,
		Separator:      promreporter.DefaultSeparator,
	}, 1*time.Second)
	return scope, reporter, closer, nil
}
