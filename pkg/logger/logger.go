package logger

import (
	"context"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RequestIdKey 是 Context 中请求 ID 的 Key（HTTP 层的中间件负责写入）
const RequestIdKey = "request_id"

// 全局 Logger 实例
var Log *zap.Logger

// Init 初始化日志组件
// serviceName: 服务名（例如 "matchd"）
// level: 日志级别 (debug, info, warn, error)
func Init(serviceName string, level string) {
	InitWithFile(serviceName, level, "")
}

// InitWithFile 初始化日志组件，支持指定日志文件路径
// logFile 为空则使用默认路径 logs/{serviceName}.log
func InitWithFile(serviceName string, level string, logFile string) {
	// 1. 日志级别
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zap.InfoLevel // 默认 Info
	}

	// 2. 编码器（生产环境强制 JSON）
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderConfig.MessageKey = "msg"

	// 3. 写入目标：控制台 + 文件
	writeSyncers := []zapcore.WriteSyncer{
		zapcore.AddSync(os.Stdout), // 容器化标准输出
	}

	if logFile == "" {
		logFile = filepath.Join("logs", serviceName+".log")
	}

	logDir := filepath.Dir(logFile)
	if err := os.MkdirAll(logDir, 0755); err == nil {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err == nil {
			writeSyncers = append(writeSyncers, zapcore.AddSync(file))
		}
		// 打不开文件就只写控制台，不中断程序
	}

	multiWriter := zapcore.NewMultiWriteSyncer(writeSyncers...)

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig), // JSON 方便采集
		multiWriter,
		zapLevel,
	)

	// AddCallerSkip: 封装了一层，不 Skip 的话行号永远指向 logger.go
	Log = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	Log = Log.With(zap.String("service", serviceName))
}

// ---------------------------------------------------------
// 带 Context 的日志方法
// ---------------------------------------------------------

func Info(ctx context.Context, msg string, fields ...zap.Field) {
	extractRequestID(ctx, &fields)
	Log.Info(msg, fields...)
}

func Error(ctx context.Context, msg string, fields ...zap.Field) {
	extractRequestID(ctx, &fields)
	Log.Error(msg, fields...)
}

func Warn(ctx context.Context, msg string, fields ...zap.Field) {
	extractRequestID(ctx, &fields)
	Log.Warn(msg, fields...)
}

func Debug(ctx context.Context, msg string, fields ...zap.Field) {
	extractRequestID(ctx, &fields)
	Log.Debug(msg, fields...)
}

// Fatal 会调用 os.Exit
func Fatal(ctx context.Context, msg string, fields ...zap.Field) {
	extractRequestID(ctx, &fields)
	Log.Fatal(msg, fields...)
}

// extractRequestID 从 Context 中取请求 ID 追加到 fields
func extractRequestID(ctx context.Context, fields *[]zap.Field) {
	if ctx == nil {
		return
	}
	if rid, ok := ctx.Value(RequestIdKey).(string); ok && rid != "" {
		*fields = append(*fields, zap.String("request_id", rid))
	}
}

// Sync 刷新缓冲区（建议在 main 的 defer 里调用）
func Sync() {
	if Log != nil {
		_ = Log.Sync()
	}
}
