package telemetry

import (
	"context"
	"slices"
	"testing"

	"github.com/freekieb7/myat/config"
	"go.opentelemetry.io/otel"
)

func TestSetupDisabled(t *testing.T) {
	shutdown, err := Setup(context.Background(), config.TelemetryConfig{Enabled: false})
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}

	fields := otel.GetTextMapPropagator().Fields()
	if !slices.Contains(fields, "traceparent") {
		t.Errorf("expected traceparent propagation, got %v", fields)
	}
	if !slices.Contains(fields, "baggage") {
		t.Errorf("expected baggage propagation, got %v", fields)
	}

	if err := shutdown(context.Background()); err != nil {
		t.Errorf("expected a clean shutdown, got %v", err)
	}
}

func TestLogger(t *testing.T) {
	logger := Logger("github.com/freekieb7/myat/telemetry")
	if logger == nil {
		t.Fatal("expected a logger")
	}

	// Records go to the global provider, a no-op until Setup installs one.
	logger.Info("hello", "key", "value")
}
