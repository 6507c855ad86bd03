package template

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/halolabs/httptemplate/throttle"
	"github.com/halolabs/httptemplate/transport"
)

// Option is a functional option for configuring a [Template] via [Build].
//
// WithRoundTripper, WithTimeout, WithUserAgent and WithThrottle configure
// the default resty factory and are ignored when WithTransport is given.
type Option func(*options) error
type options struct {
	factory        transport.Factory
	rt             http.RoundTripper
	timeout        *time.Duration
	userAgent      string
	throttle       *throttle.Config
	logger         *slog.Logger
	tracerProvider trace.TracerProvider
	progress       bool
}

// WithTransport replaces the default resty-backed [transport.Factory].
func WithTransport(f transport.Factory) Option {
	return func(o *options) error {
		if f == nil {
			return errors.New("transport factory must not be nil")
		}
		o.factory = f
		return nil
	}
}

// WithRoundTripper sets the [http.RoundTripper] used by every per-call client.
func WithRoundTripper(rt http.RoundTripper) Option {
	return func(o *options) error {
		if rt == nil {
			return errors.New("round tripper must not be nil")
		}
		o.rt = rt
		return nil
	}
}

// WithTimeout bounds each request. Without it requests have no timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *options) error {
		if d < 0 {
			return errors.New("timeout must not be negative")
		}
		o.timeout = &d
		return nil
	}
}

// WithUserAgent sets the User-Agent header on all outgoing requests.
func WithUserAgent(header string) Option {
	return func(o *options) error {
		o.userAgent = header
		return nil
	}
}

// WithThrottle enables token-bucket rate limiting shared by all calls on the Template.
func WithThrottle(rps, burst int) Option {
	return func(o *options) error {
		if rps <= 0 || burst <= 0 {
			return fmt.Errorf("rps[%d] and burst[%d] %w", rps, burst, throttle.ErrMustNotBeZero)
		}
		o.throttle = &throttle.Config{RPS: rps, Burst: burst}
		return nil
	}
}

// WithLogger injects a custom [slog.Logger] into the [Template].
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) error {
		if logger == nil {
			return errors.New("logger must not be nil")
		}
		o.logger = logger
		return nil
	}
}

// WithTracerProvider sets the provider used to start a span per call.
// Defaults to the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) error {
		if tp == nil {
			return errors.New("tracer provider must not be nil")
		}
		o.tracerProvider = tp
		return nil
	}
}

// WithProgress logs download progress at most once per second.
func WithProgress() Option {
	return func(o *options) error {
		o.progress = true
		return nil
	}
}
