// Package throttle provides a token-bucket [Limiter] from
// [golang.org/x/time/rate] that can be shared by any number of
// [http.RoundTripper] values.
//
// # Usage
//
// Build one Limiter and wrap each transport that should draw from it:
//
//	lim, err := throttle.New(
//		10, // requests per second
//		5,  // burst capacity
//		func() *slog.Logger { return slog.Default() },
//	)
//	httpClient := &http.Client{Transport: lim.Wrap(http.DefaultTransport)}
//
// Because httptemplate builds a fresh transport client for every call, the
// limiter lives outside the transport and is re-applied to each new one.
// When the rate limit is exceeded, outbound requests block until a token
// becomes available or the request context is cancelled.
package throttle
