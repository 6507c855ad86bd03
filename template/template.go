package template

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/halolabs/httptemplate/throttle"
	"github.com/halolabs/httptemplate/transport"
)

// Template issues one-shot HTTP calls. Every call builds its own
// transport client and closes it before returning, so a Template
// holds no connection state and is safe for concurrent use.
type Template struct {
	factory  transport.Factory
	logger   *slog.Logger
	tracer   trace.Tracer
	progress bool
	nameFn   func() string
}

// Build creates a Template with the given options.
func Build(optFns ...Option) (*Template, error) {
	t := &Template{
		logger: slog.Default(),
		nameFn: downloadName,
	}

	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying template option: %w", err)
		}
	}

	if opts.logger != nil {
		t.logger = opts.logger
	}

	tp := otel.GetTracerProvider()
	if opts.tracerProvider != nil {
		tp = opts.tracerProvider
	}
	t.tracer = tp.Tracer(tracerName)

	t.progress = opts.progress

	if opts.factory != nil {
		t.factory = opts.factory
		return t, nil
	}

	cfg := transport.RestyConfig{
		UserAgent: opts.userAgent,
		Base:      opts.rt,
		Logger:    func() *slog.Logger { return t.logger },
	}
	if opts.timeout != nil {
		cfg.Timeout = *opts.timeout
	}
	if opts.throttle != nil {
		lim, err := throttle.New(opts.throttle.RPS, opts.throttle.Burst, func() *slog.Logger { return t.logger })
		if err != nil {
			return nil, fmt.Errorf("configuring throttle: %w", err)
		}
		cfg.Limiter = lim
	}
	t.factory = transport.NewResty(cfg)

	return t, nil
}

// Get issues a GET to rawURL with params as the query string and returns
// the response entity as text. ok is false, with a nil error, when a 2xx
// response carried no entity.
func (t *Template) Get(ctx context.Context, rawURL string, params map[string]string) (body string, ok bool, err error) {
	u, err := BuildQueryString(rawURL, params)
	if err != nil {
		return "", false, withOp("get from "+rawURL, KindEncoding, err)
	}

	req := transport.Request{Method: http.MethodGet, URL: u}

	res, err := exec(ctx, t, "get", "get from "+u, &req, func(resp *transport.Response) (text, error) {
		return readText(resp.StatusCode, resp.Body)
	})

	return res.body, res.ok, err
}

// Post issues a POST carrying requestBody as UTF-8 text. contentType is set
// on the entity when non-empty, otherwise the transport default applies.
// Results follow Get.
func (t *Template) Post(ctx context.Context, rawURL string, params map[string]string, requestBody, contentType string) (body string, ok bool, err error) {
	u, err := BuildQueryString(rawURL, params)
	if err != nil {
		return "", false, withOp("post to "+rawURL, KindEncoding, err)
	}

	req := transport.Request{
		Method:      http.MethodPost,
		URL:         u,
		Body:        &requestBody,
		ContentType: contentType,
	}

	res, err := exec(ctx, t, "post", "post to "+u, &req, func(resp *transport.Response) (text, error) {
		return readText(resp.StatusCode, resp.Body)
	})

	return res.body, res.ok, err
}

// Download issues a GET and streams the entity into a new "<uuid>.dld"
// file in the working directory, returning its path.
//
// The file is never removed by the Template: the caller owns it, including
// any partial file left behind by a failed copy. A 2xx response without an
// entity fails with KindNoContent.
func (t *Template) Download(ctx context.Context, rawURL string, params map[string]string) (string, error) {
	return t.download(ctx, rawURL, params, transport.Request{Method: http.MethodGet})
}

// DownloadUsePost is Download issued as a POST carrying requestBody,
// with contentType handled as in Post.
func (t *Template) DownloadUsePost(ctx context.Context, rawURL string, params map[string]string, requestBody, contentType string) (string, error) {
	return t.download(ctx, rawURL, params, transport.Request{
		Method:      http.MethodPost,
		Body:        &requestBody,
		ContentType: contentType,
	})
}

func (t *Template) download(ctx context.Context, rawURL string, params map[string]string, req transport.Request) (string, error) {
	u, err := BuildQueryString(rawURL, params)
	if err != nil {
		return "", withOp("download from "+rawURL, KindEncoding, err)
	}
	req.URL = u

	return exec(ctx, t, "download", "download from "+u, &req, func(resp *transport.Response) (string, error) {
		path := t.nameFn()
		return saveToFile(resp.StatusCode, resp.Body, path, t.progressFn(path, resp.ContentLength))
	})
}

func (t *Template) progressFn(path string, total int64) func(io.Writer) io.Writer {
	if !t.progress {
		return nil
	}

	return func(w io.Writer) io.Writer {
		return &progressWriter{
			w:         w,
			logger:    t.logger,
			path:      path,
			total:     total,
			startTime: time.Now(),
		}
	}
}

// handler interprets a response. It must not close the body.
type handler[T any] func(resp *transport.Response) (T, error)

// exec runs req on a fresh transport client and hands the response to fn.
// The response body and the client are released on every path.
func exec[T any](ctx context.Context, t *Template, name, op string, req *transport.Request, fn handler[T]) (res T, err error) {
	ctx, span := t.tracer.Start(ctx, "httptemplate."+name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", req.Method),
			attribute.String("url.full", req.URL),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, KindOf(err).String())
		}
		span.End()
	}()

	hc, err := t.factory.NewClient()
	if err != nil {
		return res, &Error{Op: op, Kind: KindTransport, Err: fmt.Errorf("creating http client: %w", err)}
	}

	defer func() {
		cerr := hc.Close()
		if cerr == nil {
			return
		}

		if err != nil {
			t.logger.Error("failed to close http client", "op", op, "error", cerr)
			return
		}

		var zero T
		res, err = zero, &Error{Op: op, Kind: KindClose, Err: cerr}
	}()

	resp, err := hc.Do(ctx, req)
	if err != nil {
		return res, &Error{Op: op, Kind: KindTransport, Err: err}
	}
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	discardBody := true
	if resp.Body != nil {
		defer func() {
			if discardBody {
				if _, derr := io.Copy(io.Discard, resp.Body); derr != nil {
					t.logger.Error("failed to discard unused body", "op", op, "error", derr)
				}
			}
			if berr := resp.Body.Close(); berr != nil {
				t.logger.Error("failed to close response body", "op", op, "error", berr)
			}
		}()
	}

	res, err = fn(resp)
	if err != nil {
		discardBody = KindOf(err) == KindStatus
		return res, withOp(op, KindTransport, err)
	}

	return res, nil
}
