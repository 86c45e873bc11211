package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

const (
	FormatPretty  = "pretty"
	FormatConsole = "console"
	BooleanTrue   = "true"
)

// Logger wraps zerolog.Logger with additional context.
type Logger struct {
	logger    zerolog.Logger
	component string
}

// Init initializes the global logger from config and drops any named
// loggers created before it.
func Init(cfg Config) {
	cfg.ApplyDefaults()
	globalLogger = New(&cfg, "")
	resetNamed()
}

// New creates a new logger instance with configuration.
func New(cfg *Config, component string) *Logger {
	return NewWithWriter(cfg, outputWriter(cfg.Output), component)
}

// NewWithWriter creates a logger writing to w. Tests use it to capture output.
func NewWithWriter(cfg *Config, w io.Writer, component string) *Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var zl zerolog.Logger
	switch strings.ToLower(cfg.Format) {
	case FormatConsole, FormatPretty:
		zl = newConsoleLogger(cfg, w)
	default:
		zl = zerolog.New(w)
	}
	zl = zl.Level(level)

	if cfg.Timestamp {
		zl = zl.With().Timestamp().Logger()
	}
	if cfg.Caller {
		zl = zl.With().Caller().Logger()
	}
	if component != "" {
		zl = zl.With().Str(FieldComponent, component).Logger()
	}

	return &Logger{
		logger:    zl,
		component: component,
	}
}

// NewDefault creates a logger with default configuration.
func NewDefault(component string) *Logger {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return New(cfg, component)
}

// NewFromEnv creates a logger configured from environment variables.
func NewFromEnv(component string) *Logger {
	cfg := &Config{
		Level:     getEnvOrDefault("UNITRACK_LOG_LEVEL", "warn"),
		Format:    getEnvOrDefault("UNITRACK_LOG_FORMAT", FormatConsole),
		Output:    getEnvOrDefault("UNITRACK_LOG_OUTPUT", "stderr"),
		NoColor:   getEnvOrDefault("NO_COLOR", "") != "",
		Timestamp: getEnvOrDefault("UNITRACK_LOG_TIMESTAMP", "false") == BooleanTrue,
	}
	return New(cfg, component)
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{logger: zerolog.Nop()}
}

type contextKey string

const requestIDKey contextKey = "request_id"

// ContextWithRequestID stores a request ID for WithContext to pick up.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext returns the request ID stored in ctx, if any.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey).(string)
	return id, ok && id != ""
}

// WithContext returns a logger enriched with the request ID from context.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	id, ok := RequestIDFromContext(ctx)
	if !ok {
		return l
	}
	return &Logger{
		logger:    l.logger.With().Str(FieldRequestID, id).Logger(),
		component: l.component,
	}
}

// WithComponent returns a logger tagged with a component name.
func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{
		logger:    l.logger.With().Str(FieldComponent, name).Logger(),
		component: name,
	}
}

// WithFields returns a logger with additional fields.
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	zc := l.logger.With()
	for k, v := range fields {
		zc = zc.Interface(k, v)
	}
	return &Logger{logger: zc.Logger(), component: l.component}
}

// WithError returns a logger with an error field.
func (l *Logger) WithError(err error) *Logger {
	return &Logger{
		logger:    l.logger.With().Err(err).Logger(),
		component: l.component,
	}
}

// Component returns the component name the logger is tagged with.
func (l *Logger) Component() string {
	return l.component
}

// GetLogger returns the underlying zerolog.Logger.
func (l *Logger) GetLogger() zerolog.Logger {
	return l.logger
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, fields ...map[string]interface{}) {
	event := l.logger.Debug()
	addFields(event, fields...)
	event.Msg(msg)
}

// Info logs an info message.
func (l *Logger) Info(msg string, fields ...map[string]interface{}) {
	event := l.logger.Info()
	addFields(event, fields...)
	event.Msg(msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, fields ...map[string]interface{}) {
	event := l.logger.Warn()
	addFields(event, fields...)
	event.Msg(msg)
}

// Error logs an error message.
func (l *Logger) Error(msg string, fields ...map[string]interface{}) {
	event := l.logger.Error()
	addFields(event, fields...)
	event.Msg(msg)
}

// --- Global logger ---

var globalLogger *Logger

// SetGlobalLogger sets the global logger instance.
func SetGlobalLogger(l *Logger) { globalLogger = l }

// GetGlobalLogger returns the global logger, creating a default one if needed.
func GetGlobalLogger() *Logger {
	if globalLogger == nil {
		globalLogger = NewDefault("")
	}
	return globalLogger
}

func Debug(msg string, fields ...map[string]interface{}) {
	GetGlobalLogger().Debug(msg, fields...)
}

func Info(msg string, fields ...map[string]interface{}) {
	GetGlobalLogger().Info(msg, fields...)
}

func Warn(msg string, fields ...map[string]interface{}) {
	GetGlobalLogger().Warn(msg, fields...)
}

func Error(msg string, fields ...map[string]interface{}) {
	GetGlobalLogger().Error(msg, fields...)
}

// WithComponent returns a component-tagged logger from the global logger.
func WithComponent(name string) *Logger {
	return GetGlobalLogger().WithComponent(name)
}

// --- internal helpers ---

func addFields(event *zerolog.Event, fields ...map[string]interface{}) {
	for _, fm := range fields {
		for k, v := range fm {
			event.Interface(k, v)
		}
	}
}

func outputWriter(output string) io.Writer {
	switch strings.ToLower(output) {
	case "stdout":
		return os.Stdout
	default:
		return os.Stderr
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func newConsoleLogger(cfg *Config, w io.Writer) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "15:04:05",
		NoColor:    cfg.NoColor,
		FormatLevel: func(i interface{}) string {
			lvl := strings.ToUpper(fmt.Sprintf("%s", i))
			tag := "[" + lvl + "]"
			switch lvl {
			case "TRACE":
				tag = "[TRC]"
			case "DEBUG":
				tag = "[DBG]"
			case "INFO":
				tag = "[INF]"
			case "WARN":
				tag = "[WRN]"
			case "ERROR":
				tag = "[ERR]"
			}
			if cfg.NoColor {
				return tag
			}
			switch lvl {
			case "DEBUG", "TRACE":
				return "\033[36m" + tag + "\033[0m"
			case "INFO":
				return "\033[32m" + tag + "\033[0m"
			case "WARN":
				return "\033[33m" + tag + "\033[0m"
			case "ERROR":
				return "\033[31m" + tag + "\033[0m"
			}
			return tag
		},
		FormatFieldName: func(i interface{}) string {
			return fmt.Sprintf("%s:", i)
		},
	})
}
