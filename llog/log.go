package llog

import (
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger zap.SugaredLogger 满足该接口, 也满足 collection.Logger
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

var (
	log      = zap.NewNop().Sugar()
	logLevel = zap.NewAtomicLevel()
)

const (
	logTimeFormat = "2006-01-02 15:04:05.000"
)

// config 日志配置
type config struct {
	// 日志级别 (debug, info, warn, error, dpanic, panic, fatal)
	level string
	// 日志输出类型 (console, json)
	encoding string
	// 文件输出路径（为空则不写文件）
	filename string
	// 是否启用 caller（记录调用位置）
	enableCaller bool

	serviceName string

	// 控制台输出, 默认 os.Stdout
	output io.Writer

	// 日期格式化器
	timeEncoder zapcore.TimeEncoder
}

func (c *config) init() {
	if c.level == "" {
		c.level = "info"
	}

	if c.encoding == "" {
		c.encoding = "json"
	}

	if c.output == nil {
		c.output = os.Stdout
	}

	if c.timeEncoder == nil {
		c.timeEncoder = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
			enc.AppendString(t.Format(logTimeFormat))
		}
	}
}

func SetLevel(level string) error {
	return logLevel.UnmarshalText([]byte(level))
}

type LoggerOption func(cfg *config)

func WithLevel(level string) LoggerOption {
	return func(cfg *config) {
		cfg.level = level
	}
}

func WithEncoding(encoding string) LoggerOption {
	return func(cfg *config) {
		cfg.encoding = encoding
	}
}

func WithFilename(filename string) LoggerOption {
	return func(cfg *config) {
		cfg.filename = filename
	}
}

func WithEnableCaller(enableCaller bool) LoggerOption {
	return func(cfg *config) {
		cfg.enableCaller = enableCaller
	}
}

func WithServiceName(serviceName string) LoggerOption {
	return func(cfg *config) {
		cfg.serviceName = serviceName
	}
}

func WithOutput(w io.Writer) LoggerOption {
	return func(cfg *config) {
		cfg.output = w
	}
}

func WithTimeEncoder(enc zapcore.TimeEncoder) LoggerOption {
	return func(cfg *config) {
		cfg.timeEncoder = enc
	}
}

// InitLogger 初始化全局日志实例, 返回的函数用于退出前刷新缓冲
func InitLogger(opts ...LoggerOption) (*zap.SugaredLogger, func(), error) {
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.init()

	// 1. 解析日志级别
	if err := logLevel.UnmarshalText([]byte(cfg.level)); err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", cfg.level, err)
	}

	// 2. 配置编码器
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.EncodeTime = cfg.timeEncoder
	encoderConfig.StacktraceKey = ""

	var consoleEncoder zapcore.Encoder
	switch cfg.encoding {
	case "console":
		consoleEncoder = zapcore.NewConsoleEncoder(encoderConfig)
	case "json":
		consoleEncoder = zapcore.NewJSONEncoder(encoderConfig)
	default:
		return nil, nil, fmt.Errorf("invalid log encoding %q", cfg.encoding)
	}

	// 3. 构建写入器, 控制台始终输出
	cores := []zapcore.Core{
		zapcore.NewCore(consoleEncoder, zapcore.AddSync(cfg.output), logLevel),
	}
	if cfg.filename != "" {
		// 文件输出（带轮转）
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(encoderConfig),
			zapcore.AddSync(&lumberjack.Logger{
				Filename:   cfg.filename,
				MaxSize:    10, // MB
				MaxBackups: 7,
				MaxAge:     30, // days
				Compress:   true,
			}),
			logLevel,
		))
	}

	// 4. 构建 logger
	zapLogger := zap.New(zapcore.NewTee(cores...))
	if cfg.enableCaller {
		zapLogger = zapLogger.WithOptions(zap.AddCaller())
	}
	if cfg.serviceName != "" {
		zapLogger = zapLogger.With(zap.String("service", cfg.serviceName))
	}

	log = zapLogger.Sugar()

	return log, func() {
		_ = log.Sync()
	}, nil
}

// GetLogger 未初始化时返回不输出任何内容的 logger
func GetLogger() *zap.SugaredLogger {
	return log
}
