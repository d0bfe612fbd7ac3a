package blob

import (
	"context"

	"github.com/hexfrost/frozenkit/internal/telemetry"
	"go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// WithTelemetry returns a [Store] that adds telemetry to s.
func WithTelemetry(
	s Store,
	p trace.TracerProvider,
	m metric.MeterProvider,
	l log.LoggerProvider,
) Store {
	telem := (&telemetry.Provider{
		TracerProvider: p,
		MeterProvider:  m,
		LoggerProvider: l,
	}).Recorder(
		"github.com/hexfrost/frozenkit/blob",
		telemetry.Type("blob.store", s),
		telemetry.String("blob.handle", telemetry.HandleID()),
	)

	return &instrumentedStore{
		Next:      s,
		Telemetry: telem,
		BlobIO:    telem.Counter("blob.io", "By", "The cumulative size of the blobs that have been read and written."),
		BlobSize:  telem.Histogram("blob.size", "By", "The sizes of the blobs that have been read and written."),
	}
}

// instrumentedStore is a decorator that adds instrumentation to a [Store].
type instrumentedStore struct {
	Next      Store
	Telemetry *telemetry.Recorder

	BlobIO   telemetry.Instrument[int64]
	BlobSize telemetry.Instrument[int64]
}

func (s *instrumentedStore) Read(ctx context.Context, name string) ([]byte, error) {
	ctx, span := s.Telemetry.StartSpan(
		ctx,
		"blob.read",
		telemetry.String("blob.name", name),
	)
	defer span.End()

	data, err := s.Next.Read(ctx, name)
	if err != nil {
		s.Telemetry.Error(ctx, "blob.read.error", err)
		return nil, err
	}

	size := int64(len(data))

	span.SetAttributes(telemetry.Int("blob_size", size))

	s.BlobIO(ctx, size, telemetry.ReadDirection)
	s.BlobSize(ctx, size, telemetry.ReadDirection)

	s.Telemetry.Info(
		ctx,
		"blob.read.ok",
		"read blob",
		telemetry.Int("blob_size", size),
	)

	return data, nil
}

func (s *instrumentedStore) Write(ctx context.Context, name string, data []byte) error {
	size := int64(len(data))

	ctx, span := s.Telemetry.StartSpan(
		ctx,
		"blob.write",
		telemetry.String("blob.name", name),
		telemetry.Int("blob_size", size),
	)
	defer span.End()

	s.BlobIO(ctx, size, telemetry.WriteDirection)
	s.BlobSize(ctx, size, telemetry.WriteDirection)

	if err := s.Next.Write(ctx, name, data); err != nil {
		s.Telemetry.Error(ctx, "blob.write.error", err)
		return err
	}

	s.Telemetry.Info(ctx, "blob.write.ok", "wrote blob")

	return nil
}
