// Command redlock-tracing wires a Coordinator up to a stdout OpenTelemetry
// exporter and a Prometheus /metrics endpoint, following the same setup as
// the teacher's examples/telemetry/main.go.
package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	redis "github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/mirkobrombin/redlock/v1/redlock"
)

func main() {
	ctx := context.Background()

	exp, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		log.Fatal(err)
	}
	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exp))
	defer func() { _ = tp.Shutdown(ctx) }()
	otel.SetTracerProvider(tp)

	reg := prometheus.NewRegistry()

	var instances []*redlock.Instance
	for i := 0; i < 3; i++ {
		mr, err := miniredis.Run()
		if err != nil {
			log.Fatalf("miniredis: %v", err)
		}
		defer mr.Close()
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		inst, err := redlock.NewInstanceFromClient(ctx, client)
		if err != nil {
			log.Fatalf("new instance: %v", err)
		}
		instances = append(instances, inst)
	}

	coord, err := redlock.NewCoordinator(instances, redlock.WithPrometheusRegisterer(reg))
	if err != nil {
		log.Fatalf("new coordinator: %v", err)
	}

	if ok := coord.Run(ctx, "traced-resource", time.Second, func(l *redlock.Lock) {
		log.Printf("acquired %s token=%s validity=%v", l.Resource, l.Value, l.Validity)
	}); !ok {
		log.Fatal("failed to acquire lock")
	}

	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	log.Println("serving /metrics on :2113")
	log.Fatal(http.ListenAndServe(":2113", nil))
}
