package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, l)
	l, err = ParseLevel(" WARN ")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, l)
	_, err = ParseLevel("loud")
	assert.Error(t, err)
}

func TestQuietRaisesLevel(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewFromFlags(&buf, "text", "info", true)
	require.NoError(t, err)
	l.Info("hidden")
	l.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestJSONFormatAndSequenceField(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewFromFlags(&buf, "json", "info", false)
	require.NoError(t, err)
	l.LogSequenceDone(context.Background(), "chr2", 1234, 0, errors.New("boom"))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "chr2", rec["sequence"])
	assert.Equal(t, "1,234", rec["pairs"])
	assert.Equal(t, "boom", rec["error"])
}

func TestBadFormat(t *testing.T) {
	_, err := NewFromFlags(&bytes.Buffer{}, "xml", "info", false)
	assert.Error(t, err)
}

func TestOrNoop(t *testing.T) {
	assert.NotNil(t, OrNoop(nil))
	l := Noop()
	assert.Same(t, l, OrNoop(l))
}
