// Package codec converts values to and from JSON text for
// [github.com/halolabs/httptemplate/template.JSONPost].
package codec

import (
	"fmt"

	"github.com/bytedance/sonic"
)

// Codec converts values of type T to and from a JSON string.
type Codec[T any] interface {
	Marshal(v T) (string, error)
	Unmarshal(s string) (T, error)
}

// JSON returns a Codec backed by sonic's encoding/json compatible config.
func JSON[T any]() Codec[T] {
	return sonicCodec[T]{api: sonic.ConfigStd}
}

type sonicCodec[T any] struct {
	api sonic.API
}

func (c sonicCodec[T]) Marshal(v T) (string, error) {
	s, err := c.api.MarshalToString(v)
	if err != nil {
		return "", fmt.Errorf("marshal %T: %w", v, err)
	}

	return s, nil
}

func (c sonicCodec[T]) Unmarshal(s string) (T, error) {
	var v T
	if err := c.api.UnmarshalFromString(s, &v); err != nil {
		return v, fmt.Errorf("unmarshal into %T: %w", v, err)
	}

	return v, nil
}

// Funcs adapts a pair of functions into a Codec.
type Funcs[T any] struct {
	MarshalFn   func(T) (string, error)
	UnmarshalFn func(string) (T, error)
}

func (f Funcs[T]) Marshal(v T) (string, error) {
	return f.MarshalFn(v)
}

func (f Funcs[T]) Unmarshal(s string) (T, error) {
	return f.UnmarshalFn(s)
}
