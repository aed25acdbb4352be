package telemetry

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	meterName = "github.com/wolfeidau/tenantpress"
)

// Metrics holds all the OpenTelemetry metric instruments
type Metrics struct {
	PostMutationsTotal        metric.Int64Counter
	OrganizationMutationTotal metric.Int64Counter
	RouterDecisionsTotal      metric.Int64Counter
}

var (
	once    sync.Once
	metrics *Metrics
)

// GetMetrics returns the singleton Metrics instance, initializing it if necessary.
// Instruments are bound to the global meter provider at first use, so InitTelemetry
// must run before the first call for metrics to be exported.
func GetMetrics() *Metrics {
	once.Do(func() {
		metrics = initMetrics()
	})
	return metrics
}

func initMetrics() *Metrics {
	meter := otel.GetMeterProvider().Meter(meterName)

	m := &Metrics{}

	m.PostMutationsTotal, _ = meter.Int64Counter(
		"tenantpress.posts.mutations.total",
		metric.WithDescription("Post create, update and delete attempts by outcome"),
		metric.WithUnit("{call}"),
	)

	m.OrganizationMutationTotal, _ = meter.Int64Counter(
		"tenantpress.organizations.mutations.total",
		metric.WithDescription("Organization create and switch attempts by outcome"),
		metric.WithUnit("{call}"),
	)

	m.RouterDecisionsTotal, _ = meter.Int64Counter(
		"tenantpress.router.decisions.total",
		metric.WithDescription("Routing decisions by action"),
		metric.WithUnit("{request}"),
	)

	return m
}

// RecordPostMutation counts a post mutation outcome.
func (m *Metrics) RecordPostMutation(ctx context.Context, op, code string) {
	m.PostMutationsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("op", op),
		attribute.String("code", code),
	))
}

// RecordOrganizationMutation counts an organization mutation outcome.
func (m *Metrics) RecordOrganizationMutation(ctx context.Context, op, code string) {
	m.OrganizationMutationTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("op", op),
		attribute.String("code", code),
	))
}

// RecordRouterDecision counts a routing decision.
func (m *Metrics) RecordRouterDecision(ctx context.Context, action string, tenant bool) {
	m.RouterDecisionsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("action", action),
		attribute.Bool("tenant", tenant),
	))
}
