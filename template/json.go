package template

import (
	"context"

	"github.com/halolabs/httptemplate/codec"
)

// JSONPost marshals payload with enc, posts it as application/json and
// unmarshals the response entity with dec. A 2xx response without an
// entity yields the zero R and a nil error.
func JSONPost[P, R any](ctx context.Context, t *Template, rawURL string, params map[string]string, enc codec.Codec[P], payload P, dec codec.Codec[R]) (R, error) {
	var zero R

	reqBody, err := enc.Marshal(payload)
	if err != nil {
		return zero, &Error{Op: "post to " + rawURL, Kind: KindCodec, Err: err}
	}

	body, ok, err := t.Post(ctx, rawURL, params, reqBody, jsonContentType)
	if err != nil || !ok {
		return zero, err
	}

	result, err := dec.Unmarshal(body)
	if err != nil {
		return zero, &Error{Op: "post to " + rawURL, Kind: KindCodec, Err: err}
	}

	return result, nil
}
