package http

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/freekieb7/myat/http"

type metrics struct {
	connections  metric.Int64Counter
	aborted      metric.Int64Counter
	requests     metric.Int64Counter
	duration     metric.Float64Histogram
	responseSize metric.Int64Counter
}

func newMetrics(mp metric.MeterProvider) (*metrics, error) {
	meter := mp.Meter(instrumentationName)

	var (
		m   metrics
		err error
	)

	m.connections, err = meter.Int64Counter("http.server.connections",
		metric.WithDescription("Connections accepted by the server"),
		metric.WithUnit("{connection}"))
	if err != nil {
		return nil, err
	}

	m.aborted, err = meter.Int64Counter("http.server.connections.aborted",
		metric.WithDescription("Connections closed without a response"),
		metric.WithUnit("{connection}"))
	if err != nil {
		return nil, err
	}

	m.requests, err = meter.Int64Counter("http.server.requests",
		metric.WithDescription("Requests answered, by method and status"),
		metric.WithUnit("{request}"))
	if err != nil {
		return nil, err
	}

	m.duration, err = meter.Float64Histogram("http.server.request.duration",
		metric.WithDescription("Time from the first byte read to the response written"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	m.responseSize, err = meter.Int64Counter("http.server.response.size",
		metric.WithDescription("Bytes written to clients, headers included"),
		metric.WithUnit("By"))
	if err != nil {
		return nil, err
	}

	return &m, nil
}

func (m *metrics) recordResponse(ctx context.Context, method string, status int, written int64, elapsed time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("http.request.method", method),
		attribute.Int("http.response.status_code", status),
	)

	m.requests.Add(ctx, 1, attrs)
	m.duration.Record(ctx, elapsed.Seconds(), attrs)
	m.responseSize.Add(ctx, written, attrs)
}

func (m *metrics) recordAbort(ctx context.Context, reason string) {
	m.aborted.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}
