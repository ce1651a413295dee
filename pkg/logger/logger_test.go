package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wrap "github.com/Temutjin2k/bus-tracker/pkg/logger/wrapper"
)

func TestLoggerInjectsContextFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "bus-tracker", LevelDebug)

	ctx := wrap.WithAction(context.Background(), "ingest")
	ctx = wrap.WithBusID(ctx, "7")
	ctx = wrap.WithRequestID(ctx, "req-1")

	l.Info(ctx, "stored")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "stored", rec["message"])
	assert.Equal(t, "bus-tracker", rec["service"])
	assert.Equal(t, "ingest", rec["action"])
	assert.Equal(t, "7", rec["bus_id"])
	assert.Equal(t, "req-1", rec["request_id"])
	assert.NotContains(t, rec, "route_id")
	assert.Contains(t, rec, "timestamp")
}

func TestLoggerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "svc", LevelWarn)

	l.Info(context.Background(), "hidden")
	assert.Zero(t, buf.Len())

	l.Error(context.Background(), "shown", errors.New("boom"))
	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "shown", rec["message"])
	assert.Equal(t, map[string]any{"msg": "boom"}, rec["error"])
}

func TestErrorCtxRestoresWrappedContext(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "svc", LevelDebug)

	inner := wrap.WithAction(context.Background(), "db_failed")
	err := wrap.Error(inner, errors.New("no rows"))

	l.Error(wrap.ErrorCtx(context.Background(), err), "request failed", err)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "db_failed", rec["action"])
}

func TestValidateLogLevel(t *testing.T) {
	assert.True(t, ValidateLogLevel(LevelInfo))
	assert.False(t, ValidateLogLevel("TRACE"))
}
