package infra

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/tnqbao/gau-cloudlet-service/config"
	"go.opentelemetry.io/contrib/bridges/otelslog"
)

type LoggerClient struct {
	logger *slog.Logger
}

// InitLoggerClient ships records through the OpenTelemetry log bridge when an OTLP
// endpoint is configured outside development, and prints JSON to stdout otherwise.
// InitTelemetry must run first so the bridge picks up the global logger provider.
func InitLoggerClient(cfg *config.EnvConfig) *LoggerClient {
	var handler slog.Handler
	if cfg.Grafana.OTLPEndpoint != "" && !cfg.IsDevelopment() {
		handler = otelslog.NewHandler(cfg.Grafana.ServiceName)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}

	return NewLoggerClient(slog.New(handler).With(
		slog.String("service", cfg.Grafana.ServiceName),
		slog.String("env", cfg.Environment.Mode),
	))
}

func NewLoggerClient(logger *slog.Logger) *LoggerClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggerClient{logger: logger}
}

func (l *LoggerClient) DebugWithContextf(ctx context.Context, format string, args ...interface{}) {
	l.logger.DebugContext(ctx, fmt.Sprintf(format, args...))
}

func (l *LoggerClient) InfoWithContextf(ctx context.Context, format string, args ...interface{}) {
	l.logger.InfoContext(ctx, fmt.Sprintf(format, args...))
}

func (l *LoggerClient) WarningWithContextf(ctx context.Context, format string, args ...interface{}) {
	l.logger.WarnContext(ctx, fmt.Sprintf(format, args...))
}

func (l *LoggerClient) ErrorWithContextf(ctx context.Context, err error, format string, args ...interface{}) {
	if err != nil {
		l.logger.ErrorContext(ctx, fmt.Sprintf(format, args...), slog.String("error", err.Error()))
		return
	}
	l.logger.ErrorContext(ctx, fmt.Sprintf(format, args...))
}
