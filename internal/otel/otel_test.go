package otel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPropagatorFields(t *testing.T) {
	t.Parallel()

	fields := newPropagator().Fields()
	assert.Contains(t, fields, "traceparent")
	assert.Contains(t, fields, "baggage")
	assert.Contains(t, fields, "uber-trace-id")
	assert.Contains(t, fields, "ot-tracer-traceid")
}
