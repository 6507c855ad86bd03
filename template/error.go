package template

import (
	"errors"
	"fmt"
)

// Kind classifies a failure.
type Kind int

const (
	KindEncoding Kind = iota + 1
	KindTransport
	KindStatus
	KindNoContent
	KindFile
	KindClose
	KindCodec
)

var (
	// ErrEncoding reports a query value that could not be URL encoded.
	ErrEncoding = errors.New("url encode error")
	// ErrTransport reports a failure sending the request or receiving the response.
	ErrTransport = errors.New("transport error")
	// ErrUnexpectedStatusCode reports a response outside the 2xx range.
	ErrUnexpectedStatusCode = errors.New("unexpected response status")
	// ErrNoContent reports a download whose response carried no entity.
	ErrNoContent = errors.New("no content in http response")
	// ErrFile reports a failure creating, writing or closing the download file.
	ErrFile = errors.New("download file error")
	// ErrClose reports a failure closing the transport client.
	ErrClose = errors.New("close http client error")
	// ErrCodec reports a JSON marshal or unmarshal failure.
	ErrCodec = errors.New("json codec error")
)

var kindErrs = map[Kind]error{
	KindEncoding:  ErrEncoding,
	KindTransport: ErrTransport,
	KindStatus:    ErrUnexpectedStatusCode,
	KindNoContent: ErrNoContent,
	KindFile:      ErrFile,
	KindClose:     ErrClose,
	KindCodec:     ErrCodec,
}

func (k Kind) String() string {
	if err, ok := kindErrs[k]; ok {
		return err.Error()
	}

	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is returned by every Template operation.
type Error struct {
	// Op names the failed operation and its URL, e.g. "get from http://x/api".
	Op   string
	Kind Kind

	// StatusCode and Body are set for KindStatus. Body is capped at 4KB.
	StatusCode int
	Body       string

	Err error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Kind == KindStatus {
		msg = fmt.Sprintf("%s: %d", msg, e.StatusCode)
		if e.Body != "" {
			msg += ", body: " + e.Body
		}
	}

	if e.Op != "" {
		msg = e.Op + ": " + msg
	}

	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

// Unwrap exposes both the Kind's sentinel and the underlying cause.
func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if sentinel, ok := kindErrs[e.Kind]; ok {
		errs = append(errs, sentinel)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}

	return errs
}

// KindOf reports the Kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return 0
}

// withOp stamps op onto err, wrapping foreign errors as kind.
func withOp(op string, kind Kind, err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		if e.Op == "" {
			e.Op = op
		}
		return e
	}

	return &Error{Op: op, Kind: kind, Err: err}
}
