package throttle

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestNew_Validation(t *testing.T) {
	testCases := []struct {
		name   string
		rps    int
		burst  int
		expErr error
	}{
		{
			name:   "Invalid RPS (zero)",
			rps:    0,
			burst:  10,
			expErr: ErrMustNotBeZero,
		},
		{
			name:   "Invalid RPS (negative)",
			rps:    -5,
			burst:  10,
			expErr: ErrMustNotBeZero,
		},
		{
			name:   "Invalid Burst (zero)",
			rps:    10,
			burst:  0,
			expErr: ErrMustNotBeZero,
		},
		{
			name:   "Invalid Burst (negative)",
			rps:    10,
			burst:  -5,
			expErr: ErrMustNotBeZero,
		},
		{
			name:  "Valid input",
			rps:   10,
			burst: 20,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			lim, err := New(tc.rps, tc.burst, nil)
			if tc.expErr != nil {
				if !errors.Is(err, tc.expErr) {
					t.Errorf("exp err %v; got: %v", tc.expErr, err)
				}
				return
			}

			if err != nil {
				t.Errorf("exp nil err, got: %v", err)
			}
			if lim == nil {
				t.Fatal("exp non-nil Limiter")
			}
			if lim.Wrap(nil) == nil {
				t.Error("exp non-nil RoundTripper")
			}
		})
	}
}

// TestLimiter_SharedAcrossTransports checks that separately wrapped
// transports draw from the same bucket.
func TestLimiter_SharedAcrossTransports(t *testing.T) {
	var callCount int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&callCount, 1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	const rps, burst, calls = 10, 2, 5

	lim, err := New(rps, burst, nil)
	if err != nil {
		t.Fatal(err)
	}

	start := time.Now()
	for i := 0; i < calls; i++ {
		// A new client per call, as httptemplate does.
		client := &http.Client{Transport: lim.Wrap(&http.Transport{})}

		req, err := http.NewRequestWithContext(t.Context(), http.MethodGet, server.URL, nil)
		if err != nil {
			t.Fatal(err)
		}

		resp, err := client.Do(req)
		if err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
		resp.Body.Close()
		client.CloseIdleConnections()
	}
	elapsed := time.Since(start)

	// (5-2) calls / 10 RPS = 300ms
	minDuration := time.Duration(float64(time.Second) * float64(calls-burst) / float64(rps))
	if elapsed < minDuration {
		t.Errorf("exp shared limiter to slow calls to >= %v; took %v", minDuration, elapsed)
	}

	if got := atomic.LoadInt32(&callCount); got != calls {
		t.Errorf("exp %d server calls, got %d", calls, got)
	}
}

func TestLimiter_LogsExhaustion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	lim, err := New(50, 1, func() *slog.Logger { return logger })
	if err != nil {
		t.Fatal(err)
	}
	client := &http.Client{Transport: lim.Wrap(http.DefaultTransport)}

	for i := 0; i < 3; i++ {
		resp, err := client.Get(server.URL)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
	}

	if !strings.Contains(buf.String(), "throttle tokens exhausted") {
		t.Errorf("exp exhaustion to be logged, got: %s", buf.String())
	}
	if !strings.Contains(buf.String(), "throttle wait complete") {
		t.Errorf("exp wait completion to be logged, got: %s", buf.String())
	}
}

// idleCloser records CloseIdleConnections calls on the wrapped transport.
type idleCloser struct {
	http.RoundTripper
	closed atomic.Int32
}

func (c *idleCloser) CloseIdleConnections() { c.closed.Add(1) }

func TestLimiter_WrapForwardsCloseIdleConnections(t *testing.T) {
	lim, err := New(10, 1, nil)
	if err != nil {
		t.Fatal(err)
	}

	next := &idleCloser{RoundTripper: http.DefaultTransport}
	client := &http.Client{Transport: lim.Wrap(next)}
	client.CloseIdleConnections()

	if got := next.closed.Load(); got != 1 {
		t.Errorf("exp wrapped transport to be closed once, got %d", got)
	}

	// A transport without the method is left alone.
	plain := &http.Client{Transport: lim.Wrap(roundTripFunc(func(*http.Request) (*http.Response, error) {
		return nil, errors.New("unused")
	}))}
	plain.CloseIdleConnections()
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

// TestLimiter_PerCallClients drives one shared Limiter from concurrent
// callers that each build and close their own transport.
func TestLimiter_PerCallClients(t *testing.T) {
	testCases := []struct {
		name       string
		rps        int
		burst      int
		callers    int
		reqTimeout time.Duration
		cancelled  bool
		expFailed  int
		expErr     error
		minElapsed time.Duration
		maxElapsed time.Duration
	}{
		{
			name:       "burst covers every caller",
			rps:        10000,
			burst:      100,
			callers:    40,
			maxElapsed: 500 * time.Millisecond,
		},
		{
			name:       "callers beyond burst time out waiting",
			rps:        5,
			burst:      2,
			callers:    5,
			reqTimeout: 50 * time.Millisecond,
			expFailed:  3,
			expErr:     ErrWaitingFailed,
		},
		{
			name:       "callers beyond burst are spread out",
			rps:        10,
			burst:      4,
			callers:    7,
			reqTimeout: 2 * time.Second,
			minElapsed: 300 * time.Millisecond,
		},
		{
			name:       "cancelled callers never reach the server",
			rps:        20,
			burst:      10,
			callers:    3,
			cancelled:  true,
			expFailed:  3,
			expErr:     ErrContextEnded,
			maxElapsed: 100 * time.Millisecond,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var served atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				served.Add(1)
				w.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			lim, err := New(tc.rps, tc.burst, nil)
			if err != nil {
				t.Fatal(err)
			}

			errs := make([]error, tc.callers)
			var wg sync.WaitGroup

			start := time.Now()
			for i := range tc.callers {
				wg.Add(1)
				go func() {
					defer wg.Done()
					errs[i] = call(t.Context(), lim, server.URL, tc.reqTimeout, tc.cancelled)
				}()
			}
			wg.Wait()
			elapsed := time.Since(start)

			var failed int
			for i, err := range errs {
				if err == nil {
					continue
				}
				failed++
				if tc.expErr == nil || !errors.Is(err, tc.expErr) {
					t.Errorf("caller %d: exp %v, got %v", i, tc.expErr, err)
				}
			}

			if failed != tc.expFailed {
				t.Errorf("exp %d failed callers, got %d", tc.expFailed, failed)
			}
			if exp, got := int32(tc.callers-failed), served.Load(); exp != got {
				t.Errorf("exp %d requests served, got %d", exp, got)
			}
			if tc.minElapsed > 0 && elapsed < tc.minElapsed {
				t.Errorf("exp throttling to take >= %v, took %v", tc.minElapsed, elapsed)
			}
			if tc.maxElapsed > 0 && elapsed > tc.maxElapsed {
				t.Errorf("exp callers to finish within %v, took %v", tc.maxElapsed, elapsed)
			}
		})
	}
}

// call sends one GET on a fresh client wrapped by lim and releases it.
func call(ctx context.Context, lim *Limiter, url string, timeout time.Duration, cancelled bool) error {
	var cancel context.CancelFunc = func() {}
	switch {
	case cancelled:
		ctx, cancel = context.WithCancel(ctx)
		cancel()
	case timeout > 0:
		ctx, cancel = context.WithTimeout(ctx, timeout)
	}
	defer cancel()

	client := &http.Client{Transport: lim.Wrap(&http.Transport{})}
	defer client.CloseIdleConnections()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}

	return resp.Body.Close()
}
