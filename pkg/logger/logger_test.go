package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func hijack() *bytes.Buffer {
	buffer := &bytes.Buffer{}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.MessageKey = "msg"

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(buffer), // 写入 buffer 而不是控制台
		zap.InfoLevel,
	)
	Log = zap.New(core)
	return buffer
}

func TestLogger_Info_WithRequestID(t *testing.T) {
	buffer := hijack()

	rid := "req-test-12345"
	ctx := context.WithValue(context.Background(), RequestIdKey, rid)

	Info(ctx, "提交订单", zap.String("side", "buy"), zap.Int64("qty", 100))

	var logEntry map[string]interface{}
	err := json.Unmarshal(buffer.Bytes(), &logEntry)
	assert.NoError(t, err, "日志输出必须是合法的 JSON")

	assert.Equal(t, "info", logEntry["level"])
	assert.Equal(t, "提交订单", logEntry["msg"])
	assert.Equal(t, "buy", logEntry["side"])
	assert.Equal(t, float64(100), logEntry["qty"])

	// 核心验证：request_id 被自动注入
	assert.Equal(t, rid, logEntry["request_id"])
}

func TestLogger_Error_NoRequestID(t *testing.T) {
	buffer := hijack()

	Error(context.Background(), "撮合引擎过载", zap.String("reason", "mailbox full"))

	var logEntry map[string]interface{}
	_ = json.Unmarshal(buffer.Bytes(), &logEntry)

	_, exists := logEntry["request_id"]
	assert.False(t, exists, "没有请求 ID 的 Context 不应该输出 request_id 字段")
	assert.Equal(t, "error", logEntry["level"])
}
