package telemetry

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/plantops/ot/internal/api"
	"github.com/plantops/ot/internal/types"
)

const apiScopeName = "github.com/plantops/ot/api"

// InstrumentedService wraps api.Service with OTel tracing and metrics.
// Every call gets a span and is counted in ot.api.* metrics.
// Use WrapService to create one; it returns the original service unchanged
// when telemetry is disabled.
type InstrumentedService struct {
	inner  api.Service
	tracer trace.Tracer
	calls  metric.Int64Counter
	dur    metric.Float64Histogram
	errs   metric.Int64Counter
}

var _ api.Service = (*InstrumentedService)(nil)

// WrapService returns s decorated with OTel instrumentation.
// When telemetry is disabled, s is returned as-is with zero overhead.
func WrapService(s api.Service) api.Service {
	if !Enabled() {
		return s
	}
	return newInstrumented(s)
}

func newInstrumented(s api.Service) *InstrumentedService {
	m := Meter(apiScopeName)
	calls, _ := m.Int64Counter("ot.api.calls",
		metric.WithDescription("Total backend calls issued"),
	)
	dur, _ := m.Float64Histogram("ot.api.call.duration",
		metric.WithDescription("Backend call duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	errs, _ := m.Int64Counter("ot.api.errors",
		metric.WithDescription("Total failed backend calls"),
	)
	return &InstrumentedService{
		inner:  s,
		tracer: Tracer(apiScopeName),
		calls:  calls,
		dur:    dur,
		errs:   errs,
	}
}

func (s *InstrumentedService) op(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span, time.Time) {
	all := append([]attribute.KeyValue{attribute.String("ot.api.operation", name)}, attrs...)
	ctx, span := s.tracer.Start(ctx, "api."+name,
		trace.WithAttributes(all...),
		trace.WithSpanKind(trace.SpanKindClient),
	)
	s.calls.Add(ctx, 1, metric.WithAttributes(all...))
	return ctx, span, time.Now()
}

// done ends the span, records duration and optional error. Backend
// rejections carry their HTTP status.
func (s *InstrumentedService) done(ctx context.Context, span trace.Span, start time.Time, name string, err error) {
	attrs := []attribute.KeyValue{attribute.String("ot.api.operation", name)}
	ms := float64(time.Since(start).Milliseconds())
	s.dur.Record(ctx, ms, metric.WithAttributes(attrs...))
	if err != nil {
		var apiErr *api.Error
		if errors.As(err, &apiErr) {
			span.SetAttributes(attribute.Int("http.response.status_code", apiErr.StatusCode))
			attrs = append(attrs, attribute.Int("http.response.status_code", apiErr.StatusCode))
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.errs.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
	span.End()
}

func orderAttr(id int64) attribute.KeyValue {
	return attribute.Int64("ot.order.id", id)
}

// ── Orders ──────────────────────────────────────────────────────────────────

func (s *InstrumentedService) GetOrder(ctx context.Context, id int64) (*types.WorkOrder, error) {
	ctx, span, t := s.op(ctx, "GetOrder", orderAttr(id))
	v, err := s.inner.GetOrder(ctx, id)
	if err == nil {
		span.SetAttributes(attribute.String("ot.order.status", string(v.Status)))
	}
	s.done(ctx, span, t, "GetOrder", err)
	return v, err
}

func (s *InstrumentedService) CreateOrder(ctx context.Context, in types.OrderInput) (*types.CreateResult, error) {
	ctx, span, t := s.op(ctx, "CreateOrder")
	v, err := s.inner.CreateOrder(ctx, in)
	if err == nil {
		span.SetAttributes(orderAttr(v.ID))
	}
	s.done(ctx, span, t, "CreateOrder", err)
	return v, err
}

func (s *InstrumentedService) UpdateOrder(ctx context.Context, id int64, in types.OrderInput) error {
	ctx, span, t := s.op(ctx, "UpdateOrder", orderAttr(id))
	err := s.inner.UpdateOrder(ctx, id, in)
	s.done(ctx, span, t, "UpdateOrder", err)
	return err
}

func (s *InstrumentedService) DeleteOrder(ctx context.Context, id int64) error {
	ctx, span, t := s.op(ctx, "DeleteOrder", orderAttr(id))
	err := s.inner.DeleteOrder(ctx, id)
	s.done(ctx, span, t, "DeleteOrder", err)
	return err
}

func (s *InstrumentedService) SetStatus(ctx context.Context, id int64, status types.Status) (*types.TransitionResult, error) {
	ctx, span, t := s.op(ctx, "SetStatus", orderAttr(id), attribute.String("ot.order.target_status", string(status)))
	v, err := s.inner.SetStatus(ctx, id, status)
	if err == nil {
		span.SetAttributes(
			attribute.Int("ot.order.corrective_count", len(v.CorrectiveOrders)),
			attribute.Bool("ot.order.next_generated", v.NewOrder != ""),
		)
	}
	s.done(ctx, span, t, "SetStatus", err)
	return v, err
}

// ── Work sessions ───────────────────────────────────────────────────────────

func (s *InstrumentedService) StartWork(ctx context.Context, id int64, technician string) (*types.WorkSessionResult, error) {
	ctx, span, t := s.op(ctx, "StartWork", orderAttr(id))
	v, err := s.inner.StartWork(ctx, id, technician)
	s.done(ctx, span, t, "StartWork", err)
	return v, err
}

func (s *InstrumentedService) PauseWork(ctx context.Context, id int64, technician string) (*types.WorkSessionResult, error) {
	ctx, span, t := s.op(ctx, "PauseWork", orderAttr(id))
	v, err := s.inner.PauseWork(ctx, id, technician)
	s.done(ctx, span, t, "PauseWork", err)
	return v, err
}

// ── Ledger ──────────────────────────────────────────────────────────────────

func (s *InstrumentedService) AddConsumption(ctx context.Context, id int64, in types.ConsumptionInput) error {
	ctx, span, t := s.op(ctx, "AddConsumption", orderAttr(id), attribute.Int64("ot.spare_part.id", in.SparePartID))
	err := s.inner.AddConsumption(ctx, id, in)
	s.done(ctx, span, t, "AddConsumption", err)
	return err
}

func (s *InstrumentedService) DeleteConsumption(ctx context.Context, id, consumptionID int64) error {
	ctx, span, t := s.op(ctx, "DeleteConsumption", orderAttr(id))
	err := s.inner.DeleteConsumption(ctx, id, consumptionID)
	s.done(ctx, span, t, "DeleteConsumption", err)
	return err
}

func (s *InstrumentedService) AddExternalCost(ctx context.Context, id int64, in types.ExternalCostInput) (*types.ExternalCostResult, error) {
	ctx, span, t := s.op(ctx, "AddExternalCost", orderAttr(id))
	v, err := s.inner.AddExternalCost(ctx, id, in)
	s.done(ctx, span, t, "AddExternalCost", err)
	return v, err
}

func (s *InstrumentedService) DeleteExternalCost(ctx context.Context, id int64, index int) (*types.ExternalCostResult, error) {
	ctx, span, t := s.op(ctx, "DeleteExternalCost", orderAttr(id))
	v, err := s.inner.DeleteExternalCost(ctx, id, index)
	s.done(ctx, span, t, "DeleteExternalCost", err)
	return v, err
}

// ── Checklist ───────────────────────────────────────────────────────────────

func (s *InstrumentedService) SaveChecklist(ctx context.Context, id int64, responses []types.ChecklistResponse) error {
	ctx, span, t := s.op(ctx, "SaveChecklist", orderAttr(id), attribute.Int("ot.checklist.responses", len(responses)))
	err := s.inner.SaveChecklist(ctx, id, responses)
	s.done(ctx, span, t, "SaveChecklist", err)
	return err
}

func (s *InstrumentedService) GetChecklist(ctx context.Context, id int64) ([]types.ChecklistEntry, error) {
	ctx, span, t := s.op(ctx, "GetChecklist", orderAttr(id))
	v, err := s.inner.GetChecklist(ctx, id)
	s.done(ctx, span, t, "GetChecklist", err)
	return v, err
}

// ── Lookups ─────────────────────────────────────────────────────────────────

func (s *InstrumentedService) ListTechnicians(ctx context.Context) ([]types.Technician, error) {
	ctx, span, t := s.op(ctx, "ListTechnicians")
	v, err := s.inner.ListTechnicians(ctx)
	s.done(ctx, span, t, "ListTechnicians", err)
	return v, err
}

func (s *InstrumentedService) ListSpareParts(ctx context.Context) ([]types.SparePart, error) {
	ctx, span, t := s.op(ctx, "ListSpareParts")
	v, err := s.inner.ListSpareParts(ctx)
	if err == nil {
		span.SetAttributes(attribute.Int("ot.result.count", len(v)))
	}
	s.done(ctx, span, t, "ListSpareParts", err)
	return v, err
}

func (s *InstrumentedService) ListInterventionTypes(ctx context.Context) ([]types.InterventionType, error) {
	ctx, span, t := s.op(ctx, "ListInterventionTypes")
	v, err := s.inner.ListInterventionTypes(ctx)
	s.done(ctx, span, t, "ListInterventionTypes", err)
	return v, err
}

func (s *InstrumentedService) GetAssetTree(ctx context.Context) ([]types.AssetNode, error) {
	ctx, span, t := s.op(ctx, "GetAssetTree")
	v, err := s.inner.GetAssetTree(ctx)
	s.done(ctx, span, t, "GetAssetTree", err)
	return v, err
}

func (s *InstrumentedService) ListAssets(ctx context.Context) ([]types.Asset, error) {
	ctx, span, t := s.op(ctx, "ListAssets")
	v, err := s.inner.ListAssets(ctx)
	s.done(ctx, span, t, "ListAssets", err)
	return v, err
}
