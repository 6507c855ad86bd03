// Package template implements one-shot HTTP helpers: GET and POST
// returning the response text, file downloads, and a JSON POST built
// on a pluggable [codec.Codec].
//
// # Building a Template
//
// Use [Build] to create a [Template] with functional options:
//
//	t, err := template.Build(
//		template.WithUserAgent("myapp/1.0"),
//		template.WithThrottle(10, 5),
//	)
//
// # Text Requests
//
// Query parameters are percent-encoded onto the URL by [BuildQueryString]:
//
//	body, ok, err := t.Get(ctx, "http://x/api", map[string]string{"name": "a b"})
//	// GET http://x/api?name=a%20b
//
// ok is false when a 2xx response carried no entity. Any other status
// fails with an [*Error] of kind [KindStatus].
//
// # Downloading Files
//
// [Template.Download] and [Template.DownloadUsePost] stream the entity to
// a "<uuid>.dld" file in the working directory and return its path:
//
//	path, err := t.Download(ctx, "http://x/report", nil)
//	defer os.Remove(path)
//
// The caller owns the file. Failed downloads may leave a partial file.
//
// # JSON
//
//	out, err := template.JSONPost(ctx, t, "http://x/users", nil,
//		codec.JSON[User](), User{Name: "alice"}, codec.JSON[Created]())
//
// # Errors
//
// Every failure is an [*Error]. Match its kind with [errors.Is] against the
// sentinels ([ErrUnexpectedStatusCode], [ErrNoContent], ...) or with [KindOf].
package template
