package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func TestClientRequestsAreTraced(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	defer otel.SetTracerProvider(previous)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	}))
	defer srv.Close()

	client := newClient(5 * time.Second)
	ctx, parent := tp.Tracer("test").Start(context.Background(), "parallel")

	_, errs := parallel(ctx, client, srv.URL, 4, 2)
	parent.End()

	if errs != 0 {
		t.Fatalf("expected no errors, got %d", errs)
	}

	clientSpans := 0
	for _, span := range recorder.Ended() {
		if span.SpanKind() != trace.SpanKindClient {
			continue
		}
		clientSpans++
		if span.Parent().SpanID() != parent.SpanContext().SpanID() {
			t.Errorf("expected client span %q to be a child of the run span", span.Name())
		}
	}
	if clientSpans != 4 {
		t.Errorf("expected 4 client spans, got %d", clientSpans)
	}
}

func TestSequentialCountsErrors(t *testing.T) {
	client := newClient(time.Second)

	_, errs := sequential(context.Background(), client, "http://127.0.0.1:0/", 3)
	if errs != 3 {
		t.Errorf("expected 3 errors, got %d", errs)
	}
}
