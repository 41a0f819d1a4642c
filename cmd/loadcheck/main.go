// Command loadcheck fires the same GET request sequentially and then from a
// pool of workers, and reports whether the server answered the parallel batch
// noticeably faster.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/freekieb7/myat/config"
	"github.com/freekieb7/myat/telemetry"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
)

const name = "github.com/freekieb7/myat/cmd/loadcheck"

func main() {
	if err := run(context.Background()); err != nil {
		log.Fatalln(err)
	}
}

func run(ctx context.Context) (err error) {
	var (
		url        = flag.String("url", "http://localhost:8080/hello", "URL to request")
		requests   = flag.Int("requests", 200, "total number of requests per run")
		concurrent = flag.Int("concurrent", 50, "number of parallel workers")
		timeout    = flag.Duration("timeout", 10*time.Second, "per-request timeout")
		otelOn     = flag.Bool("otel", false, "export client traces and metrics over OTLP/gRPC")
		endpoint   = flag.String("otel-endpoint", "127.0.0.1:4317", "OTLP/gRPC collector address")
		insecure   = flag.Bool("otel-insecure", true, "connect to the collector without TLS")
	)
	flag.Parse()

	if *requests <= 0 || *concurrent <= 0 {
		return errors.New("requests and concurrent must be positive")
	}

	otelShutdown, err := telemetry.Setup(ctx, config.TelemetryConfig{
		Enabled:     *otelOn,
		ServiceName: "loadcheck",
		Endpoint:    *endpoint,
		Insecure:    *insecure,
	})
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err = errors.Join(err, otelShutdown(shutdownCtx))
	}()

	// Built after Setup so the transport picks up the installed providers.
	client := newClient(*timeout)
	tracer := otel.Tracer(name)

	fmt.Println("Running sequential test...")
	seqCtx, seqSpan := tracer.Start(ctx, "sequential")
	seq, seqErrs := sequential(seqCtx, client, *url, *requests)
	seqSpan.End()
	fmt.Println("Sequential time:", seq, "errors:", seqErrs)

	fmt.Println("Running parallel test...")
	parCtx, parSpan := tracer.Start(ctx, "parallel")
	par, parErrs := parallel(parCtx, client, *url, *requests, *concurrent)
	parSpan.End()
	fmt.Println("Parallel time:  ", par, "errors:", parErrs)

	fmt.Println()

	if par < seq/2 {
		fmt.Println("Result: server handles concurrent requests.")
	} else {
		fmt.Println("Result: server does NOT appear to be concurrent.")
	}
	return nil
}

// newClient returns a client whose requests are traced and measured by the
// global OpenTelemetry providers.
func newClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

func sequential(ctx context.Context, client *http.Client, url string, requests int) (time.Duration, int) {
	errs := 0
	start := time.Now()
	for i := 0; i < requests; i++ {
		if err := get(ctx, client, url); err != nil {
			fmt.Println("error:", err)
			errs++
		}
	}
	return time.Since(start), errs
}

func parallel(ctx context.Context, client *http.Client, url string, requests, concurrent int) (time.Duration, int) {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs int
	)

	sem := make(chan struct{}, concurrent)
	start := time.Now()

	wg.Add(requests)
	for i := 0; i < requests; i++ {
		go func() {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			if err := get(ctx, client, url); err != nil {
				fmt.Println("error:", err)
				mu.Lock()
				errs++
				mu.Unlock()
			}
		}()
	}

	wg.Wait()
	return time.Since(start), errs
}

func get(ctx context.Context, client *http.Client, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	_, err = io.Copy(io.Discard, resp.Body)
	return err
}
