package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// Service identifies the process on every exported span, metric and record
type Service struct {
	Name        string
	Version     string
	Environment string
}

// Collector is the OTLP/gRPC endpoint the traces, metrics and logs
// pipelines export to
type Collector struct {
	Endpoint string
	// Insecure disables TLS; for local collectors only
	Insecure bool
	Service  Service
}

func (c Collector) fields() []zap.Field {
	return []zap.Field{
		zap.String("collector_endpoint", c.Endpoint),
		zap.Bool("insecure", c.Insecure),
		zap.String("service_name", c.Service.Name),
	}
}

func (s Service) resource() (*resource.Resource, error) {
	attrs := []attribute.KeyValue{semconv.ServiceName(s.Name)}
	if s.Version != "" {
		attrs = append(attrs, semconv.ServiceVersion(s.Version))
	}
	if s.Environment != "" {
		attrs = append(attrs, attribute.String("deployment.environment.name", s.Environment))
	}

	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(semconv.SchemaURL, attrs...))
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}
	return res, nil
}

// shutdown stops one signal pipeline, bounded by shutdownTimeout
func shutdown(ctx context.Context, signal string, logger *zap.Logger, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := fn(ctx); err != nil {
		return fmt.Errorf("failed to shutdown %s provider: %w", signal, err)
	}
	logger.Info("Telemetry pipeline stopped", zap.String("signal", signal))
	return nil
}
