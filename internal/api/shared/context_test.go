package shared_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hekuanga/ImgFactory-sub000/internal/api/shared"
)

func TestTraceIDRoundtrip(t *testing.T) {
	t.Parallel()

	ctx := shared.SetTraceID(context.Background())
	traceID := shared.GetTraceID(ctx)

	assert.Len(t, traceID, 2*shared.TraceIDLength)
	assert.NotEqual(t, traceID, shared.GetTraceID(shared.SetTraceID(context.Background())))
}

func TestGetTraceIDMissing(t *testing.T) {
	t.Parallel()

	assert.Empty(t, shared.GetTraceID(context.Background()))
}
