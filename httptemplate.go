// Package httptemplate exposes the template builder.
package httptemplate

import (
	"github.com/halolabs/httptemplate/template"
)

// New instantiates a new *template.Template with the provided options.
// If not specified, each call runs on a fresh default resty client.
func New(opts ...template.Option) (*template.Template, error) {
	return template.Build(opts...)
}
