package logger

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

var base = zerolog.New(os.Stdout).With().Timestamp().Logger()

// Init 初始化全局日志器，所有日志都会带上 service 字段。
// 应该在每个服务的 main 中尽早调用。
func Init(serviceName string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	base = zerolog.New(os.Stdout).With().
		Timestamp().
		Str("service", serviceName).
		Logger()
	log.Logger = base
}

// Ctx 返回一个与追踪上下文关联的日志器。
// 如果 ctx 中存在有效的 Span，日志会自动带上 trace_id，方便在 Jaeger 中互查。
func Ctx(ctx context.Context) *zerolog.Logger {
	sc := trace.SpanContextFromContext(ctx)
	if sc.HasTraceID() {
		l := base.With().Str("trace_id", sc.TraceID().String()).Logger()
		return &l
	}
	return &base
}
