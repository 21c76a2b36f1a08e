package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/cenk/backoff"
	"github.com/rs/dnscache"
	circuit "github.com/rubyist/circuitbreaker"
	logger "github.com/sirupsen/logrus"

	"github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/entities"
)

const (
	userAgent        = "upgrade-dependencies"
	dialTimeout      = 30 * time.Second
	keepAlive        = 30 * time.Second
	idleConnTimeout  = 90 * time.Second
	maxIdlePerHost   = 10
	retryBaseDelay   = 500 * time.Millisecond
	retryMaxDelay    = 5 * time.Second
	breakerThreshold = 5
	breakerCoolDown  = 30 * time.Second
	maxErrorBodySize = 1024
)

var (
	// ErrUpstreamDown is returned when a host keeps refusing connections.
	ErrUpstreamDown = errors.New("upstream unavailable")
	errServerStatus = errors.New("server error")
)

// Options configures a Client.
type Options struct {
	Timeout    time.Duration
	MaxRetries int
}

// Client is the HTTP client shared by every remote source. Server errors and
// network failures are retried with exponential backoff, and each host has a
// circuit breaker that opens after consecutive connection failures.
type Client struct {
	http       *http.Client
	timeout    time.Duration
	maxRetries int
	breakers   map[string]*circuit.Breaker
	mu         sync.RWMutex
}

// NewClient creates a client using a caching DNS resolver.
func NewClient(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = entities.DefaultHTTPTimeout
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}

	resolver := &dnscache.Resolver{}
	dialer := &net.Dialer{
		Timeout:   dialTimeout,
		KeepAlive: keepAlive,
	}

	//nolint:exhaustruct // only the tuned fields
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			host, port, err := net.SplitHostPort(addr)
			if err != nil {
				return nil, err
			}
			ips, err := resolver.LookupHost(ctx, host)
			if err != nil {
				return nil, err
			}
			var lastErr error
			for _, ip := range ips {
				conn, dialErr := dialer.DialContext(ctx, network, net.JoinHostPort(ip, port))
				if dialErr == nil {
					return conn, nil
				}
				lastErr = dialErr
			}
			return nil, fmt.Errorf("failed to dial any resolved IP of %s: %w", host, lastErr)
		},
		MaxIdleConnsPerHost: maxIdlePerHost,
		IdleConnTimeout:     idleConnTimeout,
	}

	return &Client{
		http:       &http.Client{Timeout: opts.Timeout, Transport: transport},
		timeout:    opts.Timeout,
		maxRetries: opts.MaxRetries,
		breakers:   make(map[string]*circuit.Breaker),
	}
}

// NewClientFromSettings creates a client with the configured timeout and retries.
func NewClientFromSettings(settings *entities.Settings) *Client {
	return NewClient(Options{Timeout: settings.HTTPTimeout, MaxRetries: settings.MaxRetries})
}

// Get performs a GET request. Every response below 500 is returned to the
// caller as is; a 5xx response is returned once the retries are exhausted.
// Only connection failures count against the host's circuit breaker, since
// a status answer is about one resource and the host itself is reachable.
// The caller must close the response body.
func (it *Client) Get(ctx context.Context, rawURL string, header http.Header) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid request URL %q: %w", rawURL, err)
	}
	for key, values := range header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	req.Header.Set("User-Agent", userAgent)

	host := req.URL.Host
	breaker := it.breaker(host)
	if !breaker.Ready() {
		return nil, fmt.Errorf("circuit breaker open for %s: %w", host, ErrUpstreamDown)
	}

	var resp *http.Response
	err = breaker.CallContext(ctx, func() error {
		var callErr error
		resp, callErr = it.getWithRetry(ctx, req)
		return callErr
	}, 0)

	if errors.Is(err, circuit.ErrBreakerOpen) {
		return nil, fmt.Errorf("circuit breaker open for %s: %w", host, ErrUpstreamDown)
	}
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// retryPolicy allows maxRetries retries after the first attempt, never longer
// than the time the attempts themselves may take.
func (it *Client) retryPolicy(ctx context.Context) backoff.BackOff {
	if it.maxRetries == 0 {
		return backoff.WithContext(&backoff.StopBackOff{}, ctx)
	}
	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = retryBaseDelay
	expBackoff.MaxInterval = retryMaxDelay
	expBackoff.MaxElapsedTime = it.timeout * time.Duration(it.maxRetries+1)
	expBackoff.Reset()
	return backoff.WithContext(backoff.WithMaxRetries(expBackoff, uint64(it.maxRetries)), ctx)
}

// getWithRetry sends req until it gets an answer below 500 or the policy
// gives up. A final 5xx answer is returned without error.
func (it *Client) getWithRetry(ctx context.Context, req *http.Request) (*http.Response, error) {
	var resp *http.Response
	attempt := 0
	err := backoff.Retry(func() error {
		attempt++
		current, doErr := it.http.Do(req.Clone(ctx))
		if doErr != nil {
			resp = nil
			logger.Debugf("[http] GET %s failed (attempt %d): %v", req.URL, attempt, doErr)
			return doErr
		}
		if current.StatusCode >= http.StatusInternalServerError {
			resp = bufferBody(current)
			logger.Debugf("[http] GET %s returned %d (attempt %d)", req.URL, current.StatusCode, attempt)
			return errServerStatus
		}
		resp = current
		return nil
	}, it.retryPolicy(ctx))

	if err != nil && !(errors.Is(err, errServerStatus) && resp != nil) {
		return nil, err
	}
	return resp, nil
}

func (it *Client) breaker(host string) *circuit.Breaker {
	it.mu.RLock()
	breaker, exists := it.breakers[host]
	it.mu.RUnlock()
	if exists {
		return breaker
	}

	it.mu.Lock()
	defer it.mu.Unlock()
	if breaker, exists = it.breakers[host]; exists {
		return breaker
	}

	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = breakerCoolDown
	expBackoff.Reset()
	breaker = circuit.NewBreakerWithOptions(&circuit.Options{
		BackOff:    expBackoff,
		ShouldTrip: circuit.ConsecutiveTripFunc(breakerThreshold),
	})
	it.breakers[host] = breaker
	return breaker
}

// bufferBody replaces the body of a response that is about to be retried so
// the connection is released while the last response stays readable.
func bufferBody(resp *http.Response) *http.Response {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	_ = resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(body))
	return resp
}
