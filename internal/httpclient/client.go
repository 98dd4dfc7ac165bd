package httpclient

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultTransport is the base transport used by instrumented clients.
var DefaultTransport = http.DefaultTransport

// UserAgent is sent on every outbound request that does not set its own.
const UserAgent = "chefvision-server"

type contextKey string

const upstreamKey contextKey = "httpclient.upstream"

// WithUpstream names the upstream service a request is bound for, for spans.
func WithUpstream(ctx context.Context, upstream string) context.Context {
	return context.WithValue(ctx, upstreamKey, upstream)
}

// UpstreamFromContext returns the name set by WithUpstream.
func UpstreamFromContext(ctx context.Context) string {
	upstream, _ := ctx.Value(upstreamKey).(string)
	return upstream
}

// upstreamTransport tags the active span with the upstream name and marks failures.
type upstreamTransport struct {
	base http.RoundTripper
}

func (t *upstreamTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	span := trace.SpanFromContext(req.Context())
	if upstream := UpstreamFromContext(req.Context()); upstream != "" {
		span.SetAttributes(attribute.String("upstream", upstream))
	}
	if req.Header.Get("User-Agent") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", UserAgent)
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if resp.StatusCode >= 400 {
		span.SetStatus(codes.Error, fmt.Sprintf("HTTP status %d", resp.StatusCode))
	}
	return resp, nil
}

func newOtelTransport(base http.RoundTripper) http.RoundTripper {
	return otelhttp.NewTransport(&upstreamTransport{base: base},
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			if upstream := UpstreamFromContext(r.Context()); upstream != "" {
				return fmt.Sprintf("%s: %s %s", upstream, r.Method, r.URL.Path)
			}
			return fmt.Sprintf("%s %s", r.Method, r.URL.Path)
		}),
	)
}

// New returns an http.Client with OpenTelemetry instrumentation and the given timeout.
// A zero timeout leaves deadlines to the request context.
func New(timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: newOtelTransport(DefaultTransport),
		Timeout:   timeout,
	}
}
