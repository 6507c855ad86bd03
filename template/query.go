package template

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
	"unicode/utf8"
)

// BuildQueryString appends params to base as "?k1=v1&k2=v2".
// Values are percent-encoded with spaces as %20; keys are written as given,
// in sorted order. An empty params returns base unchanged.
func BuildQueryString(base string, params map[string]string) (string, error) {
	if len(params) == 0 {
		return base, nil
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var b strings.Builder
	b.WriteString(base)
	b.WriteByte('?')

	for i, k := range keys {
		v := params[k]
		if !utf8.ValidString(v) {
			return "", &Error{Kind: KindEncoding, Err: fmt.Errorf("value of %q is not valid UTF-8", k)}
		}

		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(escape(v))
	}

	return b.String(), nil
}

// escape is url.QueryEscape with %20 for spaces. QueryEscape already turns
// a literal '+' into %2B, so every remaining '+' stands for a space.
func escape(v string) string {
	return strings.ReplaceAll(url.QueryEscape(v), "+", "%20")
}
