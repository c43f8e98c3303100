// Package logger 日志模块单元测试
package logger

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/dumeirei/shopping-app-backend/internal/common/config"
)

func TestInit_ConsoleFormat(t *testing.T) {
	err := Init(&config.LoggerConfig{Level: "debug", Format: "console", Output: "stdout", Caller: true})
	require.NoError(t, err)
	assert.NotNil(t, GetLogger())
	assert.NotNil(t, GetSugar())
}

func TestInit_FileOutputJSON(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "app.log")
	err := Init(&config.LoggerConfig{
		Level:    "info",
		Format:   "json",
		Output:   "file",
		FilePath: logFile,
		MaxSize:  1,
	})
	require.NoError(t, err)

	Info("order created", OrderNumber("ORD1700000000000ABCD"), UserID("u-1"), Module("order"))
	_ = Sync()

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)

	line := strings.TrimSpace(string(data))
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(line), &entry))
	assert.Equal(t, "order created", entry["msg"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "ORD1700000000000ABCD", entry["order_number"])
	assert.Equal(t, "u-1", entry["user_id"])
	assert.Equal(t, "order", entry["module"])
}

func TestGetLogLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"info":    zapcore.InfoLevel,
		"warn":    zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"unknown": zapcore.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, getLogLevel(in), in)
	}
}

func TestFieldHelpers(t *testing.T) {
	assert.Equal(t, "request_id", RequestID("r").Key)
	assert.Equal(t, "collection", Collection("orders").Key)
	assert.Equal(t, "orders", Collection("orders").String)
	assert.Equal(t, "latency", Latency(time.Second).Key)
	assert.Equal(t, int64(404), StatusCode(404).Integer)
	assert.Equal(t, "GET", Method("GET").String)
	assert.Equal(t, "/api", Path("/api").String)
	assert.Equal(t, "127.0.0.1", IP("127.0.0.1").String)
	assert.Equal(t, "claim", Action("claim").String)
	assert.Equal(t, "error", Err(errors.New("boom")).Key)
}

func TestNamed(t *testing.T) {
	require.NoError(t, Init(&config.LoggerConfig{Level: "warn", Output: "stdout"}))
	l := Named("chat")
	assert.NotNil(t, l)
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))
}
