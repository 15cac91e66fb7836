package redlock

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

const defaultTracerName = "github.com/mirkobrombin/redlock/v1/redlock"

// tracer mirrors the teacher's package-level `var tracer = otel.Tracer(...)`
// pattern (v1/cache/cache.go).
var tracer = otel.Tracer(defaultTracerName)

func resourceAttr(resource string) attribute.KeyValue { return attribute.String("redlock.resource", resource) }
func grantedAttr(n int) attribute.KeyValue             { return attribute.Int("redlock.granted", n) }
func quorumAttr(n int) attribute.KeyValue              { return attribute.Int("redlock.quorum", n) }
