package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// RetryConfig holds retry configuration for provider calls.
type RetryConfig struct {
	MaxRetries        int           // Maximum number of retries (default: 3)
	InitialBackoff    time.Duration // Initial backoff duration (default: 1s)
	MaxBackoff        time.Duration // Maximum backoff duration (default: 30s)
	BackoffMultiplier float64       // Backoff multiplier (default: 2.0)
	Timeout           time.Duration // Per-request timeout (default: 90s)

	// Circuit breaker settings
	FailureThreshold int           // Failures before opening circuit (default: 5)
	SuccessThreshold int           // Successes in half-open before closing (default: 2)
	OpenTimeout      time.Duration // How long to keep circuit open (default: 30s)

	// MaxConcurrentCalls caps in-flight provider calls (default: 3, 0 = unlimited).
	MaxConcurrentCalls int

	// RequestsPerMinute rate-limits outbound calls (0 = unlimited).
	RequestsPerMinute int
}

// DefaultRetryConfig returns the default retry configuration.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:         3,
		InitialBackoff:     1 * time.Second,
		MaxBackoff:         30 * time.Second,
		BackoffMultiplier:  2.0,
		Timeout:            90 * time.Second,
		FailureThreshold:   5,
		SuccessThreshold:   2,
		OpenTimeout:        30 * time.Second,
		MaxConcurrentCalls: 3,
		RequestsPerMinute:  0,
	}
}

// CircuitState represents the state of a circuit breaker.
type CircuitState int

const (
	CircuitClosed   CircuitState = iota // Normal operation, requests pass through
	CircuitOpen                         // Too many failures, block requests (fail fast)
	CircuitHalfOpen                     // Testing recovery, allow limited requests
)

func (s CircuitState) String() string {
	switch s {
	case CircuitClosed:
		return "CLOSED"
	case CircuitOpen:
		return "OPEN"
	case CircuitHalfOpen:
		return "HALF_OPEN"
	default:
		return "UNKNOWN"
	}
}

// ErrCircuitOpen is returned when the circuit breaker is open.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitBreaker blocks calls to a failing provider until it recovers.
type CircuitBreaker struct {
	mu sync.Mutex

	state            CircuitState
	failureCount     int
	successCount     int
	lastFailureTime  time.Time
	failureThreshold int
	successThreshold int
	openTimeout      time.Duration
}

// NewCircuitBreaker creates a breaker with the given thresholds.
func NewCircuitBreaker(failureThreshold, successThreshold int, openTimeout time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		state:            CircuitClosed,
		failureThreshold: failureThreshold,
		successThreshold: successThreshold,
		openTimeout:      openTimeout,
	}
}

// Allow reports whether a request may proceed. An open circuit transitions to
// half-open once its timeout elapses.
func (cb *CircuitBreaker) Allow() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case CircuitClosed:
		return nil
	case CircuitOpen:
		if time.Since(cb.lastFailureTime) > cb.openTimeout {
			cb.transition(CircuitHalfOpen)
			return nil
		}
		return ErrCircuitOpen
	case CircuitHalfOpen:
		return nil
	default:
		return ErrCircuitOpen
	}
}

// RecordSuccess records a successful request.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case CircuitClosed:
		cb.failureCount = 0
	case CircuitHalfOpen:
		cb.successCount++
		if cb.successCount >= cb.successThreshold {
			cb.transition(CircuitClosed)
		}
	}
}

// RecordFailure records a failed request. Any failure in half-open
// immediately reopens the circuit.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.lastFailureTime = time.Now()

	switch cb.state {
	case CircuitClosed:
		cb.failureCount++
		if cb.failureCount >= cb.failureThreshold {
			cb.transition(CircuitOpen)
		}
	case CircuitHalfOpen:
		cb.transition(CircuitOpen)
	}
}

// State returns the current state (for testing and monitoring).
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// transition must be called with the lock held.
func (cb *CircuitBreaker) transition(to CircuitState) {
	from := cb.state
	cb.state = to
	cb.successCount = 0
	if to == CircuitClosed {
		cb.failureCount = 0
	}
	slog.Info("circuit breaker state transition",
		"from", from.String(), "to", to.String(), "failures", cb.failureCount)
}

// retryingClient wraps a Client with exponential backoff, a circuit breaker,
// a concurrency semaphore, and an optional outbound rate limiter.
type retryingClient struct {
	inner   Client
	cfg     RetryConfig
	breaker *CircuitBreaker
	sem     *semaphore.Weighted
	limiter *rate.Limiter
	log     *slog.Logger
}

// WithRetry decorates client with the retry policy in cfg.
func WithRetry(client Client, cfg RetryConfig, log *slog.Logger) Client {
	if log == nil {
		log = slog.Default()
	}
	rc := &retryingClient{
		inner:   client,
		cfg:     cfg,
		breaker: NewCircuitBreaker(cfg.FailureThreshold, cfg.SuccessThreshold, cfg.OpenTimeout),
		log:     log,
	}
	if cfg.MaxConcurrentCalls > 0 {
		rc.sem = semaphore.NewWeighted(int64(cfg.MaxConcurrentCalls))
	}
	if cfg.RequestsPerMinute > 0 {
		rc.limiter = rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), 1)
	}
	return rc
}

func (rc *retryingClient) Model() string { return rc.inner.Model() }

func (rc *retryingClient) Complete(ctx context.Context, req Request) (*Response, error) {
	if rc.sem != nil {
		if err := rc.sem.Acquire(ctx, 1); err != nil {
			return nil, fmt.Errorf("acquiring concurrency slot: %w", err)
		}
		defer rc.sem.Release(1)
	}

	var lastErr error
	backoff := rc.cfg.InitialBackoff

	for attempt := 0; attempt <= rc.cfg.MaxRetries; attempt++ {
		if err := rc.breaker.Allow(); err != nil {
			rc.log.Warn("provider call blocked by circuit breaker",
				"model", rc.inner.Model(), "state", rc.breaker.State().String())
			return nil, err
		}

		if rc.limiter != nil {
			if err := rc.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("waiting for rate limiter: %w", err)
			}
		}

		attemptCtx := ctx
		var cancel context.CancelFunc
		if rc.cfg.Timeout > 0 {
			attemptCtx, cancel = context.WithTimeout(ctx, rc.cfg.Timeout)
		}
		resp, err := rc.inner.Complete(attemptCtx, req)
		if cancel != nil {
			cancel()
		}

		if err == nil {
			rc.breaker.RecordSuccess()
			if attempt > 0 {
				rc.log.Info("provider call succeeded after retries",
					"model", rc.inner.Model(), "retries", attempt)
			}
			return resp, nil
		}

		lastErr = err
		if IsTransient(err) {
			rc.breaker.RecordFailure()
		} else {
			rc.log.Error("provider call failed with fatal error",
				"model", rc.inner.Model(), "error", err)
			return nil, err
		}

		if attempt == rc.cfg.MaxRetries {
			break
		}
		if ctx.Err() != nil {
			return nil, fmt.Errorf("provider call canceled: %w", ctx.Err())
		}

		rc.log.Warn("provider call failed, retrying",
			"model", rc.inner.Model(),
			"attempt", attempt+1,
			"max_attempts", rc.cfg.MaxRetries+1,
			"backoff", backoff,
			"error", err)

		select {
		case <-time.After(backoff):
			backoff = time.Duration(float64(backoff) * rc.cfg.BackoffMultiplier)
			if backoff > rc.cfg.MaxBackoff {
				backoff = rc.cfg.MaxBackoff
			}
		case <-ctx.Done():
			return nil, fmt.Errorf("provider call canceled during backoff: %w", ctx.Err())
		}
	}

	return nil, fmt.Errorf("provider call failed after %d attempts: %w", rc.cfg.MaxRetries+1, lastErr)
}
