package httpstore

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastRetryConfig(attempts int) RetryConfig {
	return RetryConfig{
		MaxAttempts:       attempts,
		InitialBackoff:    time.Millisecond,
		MaxBackoff:        5 * time.Millisecond,
		BackoffMultiplier: 2.0,
	}
}

func TestRetryConfigForErrorClass(t *testing.T) {
	tests := []struct {
		errorClass  ErrorClass
		wantInitial time.Duration
		wantMax     time.Duration
	}{
		{ErrorClassServer, 500 * time.Millisecond, 10 * time.Second},
		{ErrorClassRateLimit, 2 * time.Second, 60 * time.Second},
		{ErrorClassNetwork, 1 * time.Second, 30 * time.Second},
		{ErrorClassClient, 1 * time.Second, 30 * time.Second}, // default
	}

	for _, tt := range tests {
		t.Run(string(tt.errorClass), func(t *testing.T) {
			config := RetryConfigForErrorClass(tt.errorClass)
			if config.InitialBackoff != tt.wantInitial {
				t.Errorf("InitialBackoff = %v, want %v", config.InitialBackoff, tt.wantInitial)
			}
			if config.MaxBackoff != tt.wantMax {
				t.Errorf("MaxBackoff = %v, want %v", config.MaxBackoff, tt.wantMax)
			}
			if config.MaxAttempts != 3 {
				t.Errorf("MaxAttempts = %d, want 3", config.MaxAttempts)
			}
		})
	}
}

func TestRetryWithBackoff_SuccessFirstAttempt(t *testing.T) {
	calls := 0
	err := retryWithBackoff(context.Background(), fastRetryConfig(3), func() error {
		calls++
		return nil
	}, func(error) ErrorClass { return ErrorClassServer })

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("fn called %d times, want 1", calls)
	}
}

func TestRetryWithBackoff_SuccessAfterRetry(t *testing.T) {
	calls := 0
	err := retryWithBackoff(context.Background(), fastRetryConfig(3), func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	}, func(error) ErrorClass { return ErrorClassServer })

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("fn called %d times, want 3", calls)
	}
}

func TestRetryWithBackoff_ClientErrorNotRetried(t *testing.T) {
	calls := 0
	wantErr := errors.New("bad request")
	err := retryWithBackoff(context.Background(), fastRetryConfig(3), func() error {
		calls++
		return wantErr
	}, func(error) ErrorClass { return ErrorClassClient })

	if !errors.Is(err, wantErr) {
		t.Fatalf("error %v, want %v", err, wantErr)
	}
	if calls != 1 {
		t.Errorf("fn called %d times, want 1 (client errors are not retried)", calls)
	}
}

func TestRetryWithBackoff_Exhaustion(t *testing.T) {
	calls := 0
	err := retryWithBackoff(context.Background(), fastRetryConfig(3), func() error {
		calls++
		return errors.New("still broken")
	}, func(error) ErrorClass { return ErrorClassNetwork })

	if !errors.Is(err, ErrRetryExhausted) {
		t.Fatalf("error %v should wrap ErrRetryExhausted", err)
	}
	if calls != 3 {
		t.Errorf("fn called %d times, want 3", calls)
	}
}

func TestRetryWithBackoff_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	cfg := RetryConfig{
		MaxAttempts:       3,
		InitialBackoff:    time.Second,
		MaxBackoff:        time.Second,
		BackoffMultiplier: 2.0,
	}

	calls := 0
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	err := retryWithBackoff(ctx, cfg, func() error {
		calls++
		return errors.New("transient")
	}, func(error) ErrorClass { return ErrorClassServer })

	if !errors.Is(err, ErrContextCancelled) {
		t.Fatalf("error %v should wrap ErrContextCancelled", err)
	}
	if calls != 1 {
		t.Errorf("fn called %d times, want 1", calls)
	}
}
