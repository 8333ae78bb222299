package observability

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/matzehuels/flowglyph/pkg/observability"

// Meter returns the global meter for flowglyph instruments.
func Meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// Metrics records hook events as OpenTelemetry instruments. It implements
// PositioningHooks, CacheHooks and HTTPHooks.
type Metrics struct {
	sequences       metric.Int64Counter
	sequenceErrors  metric.Int64Counter
	fixes           metric.Int64Counter
	sequenceLatency metric.Float64Histogram
	decisions       metric.Int64Counter

	cacheHits   metric.Int64Counter
	cacheMisses metric.Int64Counter
	cacheBytes  metric.Int64Counter

	requests       metric.Int64Counter
	requestLatency metric.Float64Histogram
}

// NewMetrics creates the instruments on m. A nil meter uses [Meter].
func NewMetrics(m metric.Meter) (*Metrics, error) {
	if m == nil {
		m = Meter()
	}
	var (
		mt  Metrics
		err error
	)
	counters := []struct {
		dst  *metric.Int64Counter
		name string
		desc string
	}{
		{&mt.sequences, "flowglyph.sequences", "Sequences positioned"},
		{&mt.sequenceErrors, "flowglyph.sequences.errors", "Sequences that failed to position"},
		{&mt.fixes, "flowglyph.orientation.fixes", "Orientation discontinuities repaired"},
		{&mt.decisions, "flowglyph.beta.decisions", "Beta positioning decisions by method"},
		{&mt.cacheHits, "flowglyph.cache.hits", "Placement cache hits"},
		{&mt.cacheMisses, "flowglyph.cache.misses", "Placement cache misses"},
		{&mt.cacheBytes, "flowglyph.cache.written", "Bytes written to the placement cache"},
		{&mt.requests, "flowglyph.http.requests", "API requests received"},
	}
	for _, c := range counters {
		if *c.dst, err = m.Int64Counter(c.name, metric.WithDescription(c.desc)); err != nil {
			return nil, fmt.Errorf("create %s: %w", c.name, err)
		}
	}

	if mt.sequenceLatency, err = m.Float64Histogram("flowglyph.sequence.duration",
		metric.WithDescription("Time to validate and position a sequence"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, fmt.Errorf("create flowglyph.sequence.duration: %w", err)
	}
	if mt.requestLatency, err = m.Float64Histogram("flowglyph.http.duration",
		metric.WithDescription("API request latency"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, fmt.Errorf("create flowglyph.http.duration: %w", err)
	}
	return &mt, nil
}

func ms(d time.Duration) float64 { return float64(d) / float64(time.Millisecond) }

func (m *Metrics) OnSequenceStart(context.Context, int) {}

func (m *Metrics) OnSequenceComplete(ctx context.Context, beats, fixes int, duration time.Duration, err error) {
	if err != nil {
		m.sequenceErrors.Add(ctx, 1)
		return
	}
	m.sequences.Add(ctx, 1)
	m.fixes.Add(ctx, int64(fixes))
	m.sequenceLatency.Record(ctx, ms(duration), metric.WithAttributes(attribute.Int("beats", beats)))
}

func (m *Metrics) OnDecision(ctx context.Context, letter, method string, repaired bool) {
	m.decisions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("method", method),
		attribute.Bool("repaired", repaired),
	))
}

func (m *Metrics) OnCacheHit(ctx context.Context, keyType string) {
	m.cacheHits.Add(ctx, 1, metric.WithAttributes(attribute.String("key_type", keyType)))
}

func (m *Metrics) OnCacheMiss(ctx context.Context, keyType string) {
	m.cacheMisses.Add(ctx, 1, metric.WithAttributes(attribute.String("key_type", keyType)))
}

func (m *Metrics) OnCacheSet(ctx context.Context, keyType string, size int) {
	m.cacheBytes.Add(ctx, int64(size), metric.WithAttributes(attribute.String("key_type", keyType)))
}

func (m *Metrics) OnRequest(ctx context.Context, method, route string) {
	m.requests.Add(ctx, 1, metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", route),
	))
}

func (m *Metrics) OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration) {
	m.requestLatency.Record(ctx, ms(duration), metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", route),
		attribute.String("status", strconv.Itoa(statusCode)),
	))
}

var (
	_ PositioningHooks = (*Metrics)(nil)
	_ CacheHooks       = (*Metrics)(nil)
	_ HTTPHooks        = (*Metrics)(nil)
)
