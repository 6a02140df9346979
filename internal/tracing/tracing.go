package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("github.com/Fareedh-7/airquality-go")

// TraceFetch wraps a single client operation in a span. The endpoint name
// becomes part of the span name; attrs describe the request (city, live
// flag). Errors are recorded on the span before being returned unchanged.
func TraceFetch[T any](
	ctx context.Context,
	endpoint string,
	attrs []attribute.KeyValue,
	fn func(context.Context) (*T, error),
) (*T, error) {
	ctx, span := tracer.Start(ctx, "airquality."+endpoint)
	defer span.End()

	span.SetAttributes(attribute.String("airquality.endpoint", endpoint))
	span.SetAttributes(attrs...)

	result, err := fn(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	return result, nil
}
