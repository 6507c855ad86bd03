package transport

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/halolabs/httptemplate/throttle"
)

// RestyConfig customises the resty clients produced by a [Resty] factory.
type RestyConfig struct {
	// Timeout bounds each request. Zero means no timeout.
	Timeout time.Duration

	// UserAgent, when set, replaces resty's default User-Agent header.
	UserAgent string

	// Base overrides the round tripper of every client. When nil each
	// client gets its own transport from resty.
	Base http.RoundTripper

	// Limiter, when set, throttles every client from a shared bucket.
	Limiter *throttle.Limiter

	// Logger receives resty's diagnostics. Defaults to slog.Default.
	Logger func() *slog.Logger
}

// Resty is a Factory producing a fresh resty.Client per call.
type Resty struct {
	cfg RestyConfig
}

// NewResty returns a Factory configured by cfg.
func NewResty(cfg RestyConfig) *Resty {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default
	}

	return &Resty{cfg: cfg}
}

// NewClient builds an independent resty.Client.
func (r *Resty) NewClient() (Client, error) {
	c := resty.New().
		SetLogger(restyLogger{logFn: r.cfg.Logger}).
		SetTimeout(r.cfg.Timeout)

	if r.cfg.UserAgent != "" {
		c.SetHeader("User-Agent", r.cfg.UserAgent)
	}

	if r.cfg.Base != nil {
		c.SetTransport(r.cfg.Base)
	}

	if r.cfg.Limiter != nil {
		c.SetTransport(r.cfg.Limiter.Wrap(c.GetClient().Transport))
	}

	return &restyClient{c: c}, nil
}

type restyClient struct {
	c *resty.Client
}

// Do executes req without letting resty buffer the response, so the
// entity can be streamed by the caller.
func (rc *restyClient) Do(ctx context.Context, req *Request) (*Response, error) {
	rr := rc.c.R().
		SetContext(ctx).
		SetDoNotParseResponse(true)

	if req.Body != nil {
		rr.SetBody(*req.Body)
	}

	if req.ContentType != "" {
		rr.SetHeader("Content-Type", req.ContentType)
	}

	injectTrace(ctx, rr.Header)

	resp, err := rr.Execute(req.Method, req.URL)
	if err != nil {
		if resp != nil && resp.RawResponse != nil && resp.RawResponse.Body != nil {
			resp.RawResponse.Body.Close()
		}
		return nil, fmt.Errorf("executing %s request: %w", req.Method, err)
	}

	raw := resp.RawResponse
	out := Response{
		StatusCode:    raw.StatusCode,
		ContentLength: raw.ContentLength,
	}

	if raw.Body != nil && raw.Body != http.NoBody {
		out.Body = raw.Body
	}

	return &out, nil
}

// Close releases the client's idle connections. Resty keeps no other
// per-client resources.
func (rc *restyClient) Close() error {
	rc.c.GetClient().CloseIdleConnections()
	return nil
}

// restyLogger routes resty's printf-style diagnostics into slog.
type restyLogger struct {
	logFn func() *slog.Logger
}

func (l restyLogger) Errorf(format string, v ...any) {
	l.logFn().Error("resty", "msg", fmt.Sprintf(format, v...))
}

func (l restyLogger) Warnf(format string, v ...any) {
	l.logFn().Warn("resty", "msg", fmt.Sprintf(format, v...))
}

func (l restyLogger) Debugf(format string, v ...any) {
	l.logFn().Debug("resty", "msg", fmt.Sprintf(format, v...))
}
