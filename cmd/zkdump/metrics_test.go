package main

import (
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber-go/tally"
)

func TestNewRootScope(t *testing.T) {
	scopeFactory := func() (tally.Scope, tally.CachedStatsReporter, io.Closer, error) {
		return tally.NoopScope, NopCachedStatsReporter, io.NopCloser(nil), nil
	}
	scope, reporter, closer := newRootScope(scopeFactory)
	require.NotNil(t, scope)
	require.NotNil(t, reporter)
	require.NotNil(t, closer)
	assert.NotNil(t, decodeFailures)
}

var (
	capabilitiesReportingNoTagging = &capabilities{
		reporting: true,
		tagging:   false,
	}
)

type capabilities struct {
	reporting bool
	tagging   bool
}

func (c *capabilities) Reporting() bool {
	return c.reporting
}

func (c *capabilities) Tagging() bool {
	return c.tagging
}

// NopCachedStatsReporter is an implementation of tally.CachedStatsReporter that simply does nothing.
var NopCachedStatsReporter tally.CachedStatsReporter = nopCachedStatsReporter{}

type nopCachedStatsReporter struct {
}

func (nopCachedStatsReporter) AllocateCounter(name string, tags map[string]string) tally.CachedCount {
	return NopCachedCount
}

func (nopCachedStatsReporter) AllocateGauge(name string, tags map[string]string) tally.CachedGauge {
	return NopCachedGauge
}

func (nopCachedStatsReporter) AllocateHistogram(name string, tags map[string]string, buckets tally.Buckets) tally.CachedHistogram {
	return NopCachedHistogram
}

func (nopCachedStatsReporter) AllocateTimer(name string, tags map[string]string) tally.CachedTimer {
	return NopCachedTimer
}

func (nopCachedStatsReporter) Capabilities() tally.Capabilities {
	return capabilitiesReportingNoTagging
}

func (nopCachedStatsReporter) Flush() {
}

// NopCachedCount is an implementation of tally.CachedCount
var NopCachedCount tally.CachedCount = nopCachedCount{}

type nopCachedCount struct {
}

func (nopCachedCount) ReportCount(value int64) {
}

// NopCachedGauge is an implementation of tally.CachedGauge
var NopCachedGauge tally.CachedGauge = nopCachedGauge{}

type nopCachedGauge struct {
}

func (nopCachedGauge) ReportGauge(value float64) {
}

// NopCachedTimer is an implementation of tally.CachedTimer
var NopCachedTimer tally.CachedTimer = nopCachedTimer{}

type nopCachedTimer struct {
}

func (nopCachedTimer) ReportTimer(interval time.Duration) {
}

// NopCachedHistogram is an implementation of tally.CachedHistogram
var NopCachedHistogram tally.CachedHistogram = nopCachedHistogram{}

type nopCachedHistogram struct {
}

func (nopCachedHistogram) ValueBucket(lower, upper float64) tally.CachedHistogramBucket {
	return nopCachedHistogramBucket{}
}

func (nopCachedHistogram) DurationBucket(lower, upper time.Duration) tally.CachedHistogramBucket {
	return nopCachedHistogramBucket{}
}

type nopCachedHistogramBucket struct {
}

func (nopCachedHistogramBucket) ReportSamples(value int64) {
}
