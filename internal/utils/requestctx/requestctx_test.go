package requestctx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestRequestID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")

	assert.Equal(t, "req-1", RequestID(ctx))
	assert.Empty(t, RequestID(context.Background()))
}

func TestLogFields(t *testing.T) {
	assert.Nil(t, LogFields(context.Background()))
	assert.Equal(t, []zap.Field{zap.String("request_id", "req-1")}, LogFields(WithRequestID(context.Background(), "req-1")))
}
