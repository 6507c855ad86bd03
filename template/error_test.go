package template

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func TestError_Message(t *testing.T) {
	testCases := []struct {
		name string
		err  *Error
		exp  string
	}{
		{
			name: "status",
			err:  &Error{Op: "get from http://x/api", Kind: KindStatus, StatusCode: 404},
			exp:  "get from http://x/api: unexpected response status: 404",
		},
		{
			name: "status with body",
			err:  &Error{Op: "post to http://x", Kind: KindStatus, StatusCode: 500, Body: "boom"},
			exp:  "post to http://x: unexpected response status: 500, body: boom",
		},
		{
			name: "no content",
			err:  &Error{Op: "download from http://x/f", Kind: KindNoContent},
			exp:  "download from http://x/f: no content in http response",
		},
		{
			name: "cause",
			err:  &Error{Op: "get from http://x", Kind: KindTransport, Err: io.ErrUnexpectedEOF},
			exp:  "get from http://x: transport error: unexpected EOF",
		},
		{
			name: "no op",
			err:  &Error{Kind: KindClose},
			exp:  "close http client error",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.err.Error(); got != tc.exp {
				t.Errorf("exp %q, got %q", tc.exp, got)
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	err := error(&Error{Kind: KindFile, Err: io.ErrShortWrite})

	if !errors.Is(err, ErrFile) {
		t.Error("exp errors.Is to match kind sentinel")
	}
	if !errors.Is(err, io.ErrShortWrite) {
		t.Error("exp errors.Is to match cause")
	}
	if errors.Is(err, ErrNoContent) {
		t.Error("exp no match for another kind")
	}
}

func TestKindOf(t *testing.T) {
	wrapped := errors.Join(errors.New("outer"), &Error{Kind: KindCodec})

	if got := KindOf(wrapped); got != KindCodec {
		t.Errorf("exp KindCodec, got %v", got)
	}
	if got := KindOf(errors.New("plain")); got != 0 {
		t.Errorf("exp 0, got %v", got)
	}
	if got := Kind(99).String(); !strings.Contains(got, "99") {
		t.Errorf("exp unknown kind to include its value, got %q", got)
	}
}

func TestWithOp(t *testing.T) {
	e := withOp("get from http://x", KindTransport, &Error{Kind: KindStatus, StatusCode: 418})
	if e.Op != "get from http://x" || e.Kind != KindStatus {
		t.Errorf("exp op stamped on existing error, got %+v", e)
	}

	e = withOp("get from http://x", KindTransport, io.EOF)
	if e.Kind != KindTransport || !errors.Is(e, io.EOF) {
		t.Errorf("exp foreign error wrapped as KindTransport, got %+v", e)
	}
}
