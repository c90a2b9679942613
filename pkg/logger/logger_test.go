package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	logger := newLogger()

	assert.Equal(t, os.Stderr, logger.Out)
	assert.Equal(t, logrus.WarnLevel, logger.GetLevel())

	formatter, ok := logger.Formatter.(*logrus.TextFormatter)
	require.True(t, ok)
	assert.Equal(t, time.RFC3339Nano, formatter.TimestampFormat)
	assert.True(t, formatter.FullTimestamp)
}

func TestGetLogger_WithContextLogger(t *testing.T) {
	customLogger := logrus.NewEntry(logrus.New()).WithField("test", "value")
	ctx := WithLogger(context.Background(), customLogger)

	retrieved := G(ctx)
	assert.Equal(t, "value", retrieved.Data["test"])
}

func TestGetLogger_WithoutContextLogger(t *testing.T) {
	retrieved := G(context.Background())
	assert.Equal(t, L.Logger, retrieved.Logger)
}

func TestWithFields(t *testing.T) {
	base := logrus.NewEntry(logrus.New()).WithField("service", "smoothie")
	ctx := WithLogger(context.Background(), base)

	ctx = WithFields(ctx, logrus.Fields{"run_id": "abc", "editor": "vscode"})

	entry := G(ctx)
	assert.Equal(t, "smoothie", entry.Data["service"])
	assert.Equal(t, "abc", entry.Data["run_id"])
	assert.Equal(t, "vscode", entry.Data["editor"])
}

func TestConfigure(t *testing.T) {
	originalLevel := L.Logger.GetLevel()
	originalFormatter := L.Logger.Formatter
	defer func() {
		L.Logger.SetLevel(originalLevel)
		L.Logger.Formatter = originalFormatter
	}()

	require.NoError(t, Configure("debug", "json"))
	assert.Equal(t, logrus.DebugLevel, L.Logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, L.Logger.Formatter)

	require.NoError(t, Configure("", "text"))
	assert.Equal(t, logrus.DebugLevel, L.Logger.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, L.Logger.Formatter)

	err := Configure("loud", "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer

	logger := logrus.New()
	logger.SetOutput(&buf)
	setLoggerFormat(logger, "json")

	ctx := WithLogger(context.Background(), logrus.NewEntry(logger))
	G(ctx).WithField("skill", "forms").Info("installed")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["logLevel"])
	assert.Equal(t, "installed", entry["message"])
	assert.Equal(t, "forms", entry["skill"])

	timestamp, ok := entry["timestamp"].(string)
	require.True(t, ok)
	_, err := time.Parse(time.RFC3339Nano, timestamp)
	assert.NoError(t, err)
}

func TestSetLogOutput(t *testing.T) {
	var buf bytes.Buffer
	originalOut := L.Logger.Out
	originalLevel := L.Logger.GetLevel()
	defer func() {
		L.Logger.SetOutput(originalOut)
		L.Logger.SetLevel(originalLevel)
	}()

	SetLogOutput(&buf)
	require.NoError(t, SetLogLevel("warn"))

	G(context.Background()).Debug("hidden")
	G(context.Background()).Warn("visible")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "visible")
}
