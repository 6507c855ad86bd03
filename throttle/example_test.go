package throttle_test

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/halolabs/httptemplate/throttle"
)

func ExampleLimiter_Wrap() {
	lim, err := throttle.New(
		10, // requests per second
		5,  // burst capacity
		func() *slog.Logger { return slog.Default() },
	)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	_ = &http.Client{Transport: lim.Wrap(http.DefaultTransport)}
	fmt.Println("throttled transport created")
	// Output: throttled transport created
}
