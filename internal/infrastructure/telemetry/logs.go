package telemetry

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/log/global"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogsConfig holds OTLP log export configuration
type LogsConfig struct {
	Enabled   bool
	Collector Collector
	// RedactKeys lists field keys whose values never leave the process.
	// Empty means DefaultRedactKeys.
	RedactKeys []string
}

// DefaultRedactKeys are masked before records are exported
var DefaultRedactKeys = []string{
	"password", "cvv", "card_number", "token", "refresh_token", "authorization",
}

const redactedValue = "[REDACTED]"

// LoggerProvider owns the OTLP log pipeline that zap loggers are bridged into
type LoggerProvider struct {
	provider *sdklog.LoggerProvider
	logger   *zap.Logger
	config   LogsConfig
}

// NewLoggerProvider creates and registers a batching OTLP LoggerProvider.
// When cfg.Enabled is false the returned provider is inert.
func NewLoggerProvider(ctx context.Context, cfg LogsConfig, logger *zap.Logger) (*LoggerProvider, error) {
	if len(cfg.RedactKeys) == 0 {
		cfg.RedactKeys = DefaultRedactKeys
	}
	lp := &LoggerProvider{logger: logger, config: cfg}
	if !cfg.Enabled {
		logger.Info("OTLP log export disabled")
		return lp, nil
	}

	opts := []otlploggrpc.Option{otlploggrpc.WithEndpoint(cfg.Collector.Endpoint)}
	if cfg.Collector.Insecure {
		opts = append(opts, otlploggrpc.WithInsecure())
	}
	exporter, err := otlploggrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP log exporter: %w", err)
	}

	res, err := cfg.Collector.Service.resource()
	if err != nil {
		return nil, err
	}

	lp.provider = sdklog.NewLoggerProvider(
		sdklog.WithResource(res),
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter)),
	)
	global.SetLoggerProvider(lp.provider)

	logger.Info("OTLP log export enabled",
		append(cfg.Collector.fields(), zap.Strings("redact_keys", cfg.RedactKeys))...)
	return lp, nil
}

// Shutdown flushes buffered records
func (lp *LoggerProvider) Shutdown(ctx context.Context) error {
	if !lp.IsEnabled() {
		return nil
	}
	return shutdown(ctx, "logger", lp.logger, lp.provider.Shutdown)
}

// IsEnabled reports whether records are being exported
func (lp *LoggerProvider) IsEnabled() bool {
	return lp != nil && lp.provider != nil
}

// Bridge tees base into the exporter. Only entries at or above minLevel are
// exported and the configured keys are masked on the exported copy; base
// itself still sees the original fields. With export disabled base is
// returned unchanged.
func (lp *LoggerProvider) Bridge(base *zap.Logger, minLevel zapcore.Level) *zap.Logger {
	if !lp.IsEnabled() {
		return base
	}
	export := newExportCore(
		otelzap.NewCore(lp.config.Collector.Service.Name, otelzap.WithLoggerProvider(lp.provider)),
		minLevel,
		lp.config.RedactKeys,
	)
	return base.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return zapcore.NewTee(core, export)
	}))
}

// exportCore filters by level and masks sensitive fields before handing
// entries to the wrapped core.
type exportCore struct {
	zapcore.Core
	minLevel zapcore.Level
	redact   map[string]struct{}
}

func newExportCore(core zapcore.Core, minLevel zapcore.Level, keys []string) *exportCore {
	redact := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		redact[strings.ToLower(k)] = struct{}{}
	}
	return &exportCore{Core: core, minLevel: minLevel, redact: redact}
}

func (c *exportCore) Enabled(lvl zapcore.Level) bool {
	return lvl >= c.minLevel && c.Core.Enabled(lvl)
}

func (c *exportCore) With(fields []zapcore.Field) zapcore.Core {
	return &exportCore{
		Core:     c.Core.With(c.scrub(fields)),
		minLevel: c.minLevel,
		redact:   c.redact,
	}
}

func (c *exportCore) Check(entry zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.Enabled(entry.Level) {
		return ce
	}
	return ce.AddCore(entry, c)
}

func (c *exportCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	return c.Core.Write(entry, c.scrub(fields))
}

// scrub returns fields with redacted values, copying only when a key matches
func (c *exportCore) scrub(fields []zapcore.Field) []zapcore.Field {
	var out []zapcore.Field
	for i, f := range fields {
		if _, ok := c.redact[strings.ToLower(f.Key)]; !ok {
			continue
		}
		if out == nil {
			out = append([]zapcore.Field(nil), fields...)
		}
		out[i] = zap.String(f.Key, redactedValue)
	}
	if out == nil {
		return fields
	}
	return out
}
