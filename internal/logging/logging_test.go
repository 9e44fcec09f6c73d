package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/safar/ekart/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithOutput(config.LogConfig{Level: "debug", Format: "json"}, &buf)
	require.NoError(t, err)

	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())

	logger.WithField("order_id", 7).Info("order created")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "order created", entry["msg"])
	assert.Equal(t, "info", entry["level"])
	assert.EqualValues(t, 7, entry["order_id"])
}

func TestNewTextRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithOutput(config.LogConfig{Level: "warn", Format: "text"}, &buf)
	require.NoError(t, err)

	logger.Info("hidden")
	assert.Empty(t, buf.String())

	logger.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestNewRejectsBadConfig(t *testing.T) {
	_, err := NewWithOutput(config.LogConfig{Level: "loud", Format: "text"}, &bytes.Buffer{})
	assert.Error(t, err)

	_, err = NewWithOutput(config.LogConfig{Level: "info", Format: "xml"}, &bytes.Buffer{})
	assert.Error(t, err)
}
