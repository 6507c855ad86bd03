// Package transport defines the outbound HTTP contract used by
// httptemplate and a resty-backed implementation of it.
//
// A [Factory] hands out one short-lived [Client] per operation. The
// caller issues exactly one request on it and must Close it afterwards.
package transport

import (
	"context"
	"io"
)

// Request describes a single outbound call.
type Request struct {
	Method string
	URL    string

	// Body is the text entity to send. Nil means no entity.
	Body *string

	// ContentType is set on the entity when non-empty, otherwise the
	// transport default applies.
	ContentType string
}

// Response is the status and entity of a completed call.
type Response struct {
	StatusCode int

	// ContentLength is -1 when unknown.
	ContentLength int64

	// Body is nil when the response carries no entity. Callers must
	// close a non-nil Body.
	Body io.ReadCloser
}

// Client issues requests. Implementations are used for a single call
// and then closed.
type Client interface {
	Do(ctx context.Context, req *Request) (*Response, error)
	Close() error
}

// Factory constructs a new Client for each call.
type Factory interface {
	NewClient() (Client, error)
}

// FactoryFunc adapts a function into a Factory.
type FactoryFunc func() (Client, error)

func (f FactoryFunc) NewClient() (Client, error) {
	return f()
}
