package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_ProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("production", &buf)

	log.GeocodeRequest("Kihei", 3, 12, false)
	assert.Zero(t, buf.Len(), "debug records are dropped outside development")

	log.GeocodeFailure("Kihei", assert.AnError)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "geocode_failure", record["msg"])
	assert.Equal(t, "Kihei", record["query"])
}

func TestWithContext_AddsRequestAndSessionIDs(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("production", &buf)

	ctx := context.WithValue(context.Background(), RequestIDKey, "req-1")
	ctx = context.WithValue(ctx, SessionIDKey, "sess-1")
	log.WithContext(ctx).Info("hello")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "req-1", record["request_id"])
	assert.Equal(t, "sess-1", record["session_id"])
}

func TestNewWithWriter_DevelopmentWritesText(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("development", &buf)

	log.GeocodeRequest("Kihei", 3, 12, true)

	assert.Contains(t, buf.String(), "msg=geocode_request")
	assert.Contains(t, buf.String(), "cached=true")
}
