package httpstore

import (
	"errors"
	"strings"
	"testing"

	"github.com/photogrid/gallery-loader/pkg/store"
)

func TestStoreError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *StoreError
		want string
	}{
		{
			name: "without wrapped error",
			err: &StoreError{
				StatusCode: 500,
				ErrorClass: ErrorClassServer,
				Message:    "500 Internal Server Error",
			},
			want: "store server error (status 500)",
		},
		{
			name: "with wrapped error",
			err: &StoreError{
				StatusCode: 404,
				ErrorClass: ErrorClassClient,
				Message:    "404 Not Found",
				Err:        store.ErrNotFound,
			},
			want: "store client error (status 404)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); !strings.Contains(got, tt.want) {
				t.Errorf("Error() = %q, want substring %q", got, tt.want)
			}
		})
	}
}

func TestStoreError_Unwrap(t *testing.T) {
	err := &StoreError{
		StatusCode: 404,
		ErrorClass: ErrorClassClient,
		Message:    "404 Not Found",
		Err:        store.ErrNotFound,
	}

	if !errors.Is(err, store.ErrNotFound) {
		t.Error("errors.Is should find the wrapped sentinel")
	}
}

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		status int
		want   ErrorClass
	}{
		{429, ErrorClassRateLimit},
		{400, ErrorClassClient},
		{404, ErrorClassClient},
		{499, ErrorClassClient},
		{500, ErrorClassServer},
		{503, ErrorClassServer},
		{200, ""},
	}

	for _, tt := range tests {
		if got := classifyStatus(tt.status); got != tt.want {
			t.Errorf("classifyStatus(%d) = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestShouldRetry(t *testing.T) {
	tests := []struct {
		class ErrorClass
		want  bool
	}{
		{ErrorClassClient, false},
		{ErrorClassServer, true},
		{ErrorClassRateLimit, true},
		{ErrorClassNetwork, true},
		{ErrorClass("unknown"), false},
	}

	for _, tt := range tests {
		if got := shouldRetry(tt.class); got != tt.want {
			t.Errorf("shouldRetry(%q) = %v, want %v", tt.class, got, tt.want)
		}
	}
}
