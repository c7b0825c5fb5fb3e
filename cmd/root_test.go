package cmd

import (
	"errors"
	"fmt"
	"testing"

	"jose/internal/oauth"

	"github.com/stretchr/testify/assert"
)

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{
			name: "auth required",
			err:  oauth.ErrAuthRequired,
			want: ExitCodeAuthRequired,
		},
		{
			name: "wrapped auth required",
			err:  fmt.Errorf("not authenticated: %w", oauth.ErrAuthRequired),
			want: ExitCodeAuthRequired,
		},
		{
			name: "refresh failure",
			err:  &oauth.TokenRefreshError{StatusCode: 401, Err: errors.New("invalid_grant")},
			want: ExitCodeAuthRequired,
		},
		{
			name: "port in use",
			err:  &oauth.PortInUseError{Port: 1455, Err: errors.New("bind")},
			want: ExitCodeAuthFailed,
		},
		{
			name: "exchange failure",
			err:  &oauth.TokenExchangeError{StatusCode: 400, Err: errors.New("invalid_request")},
			want: ExitCodeAuthFailed,
		},
		{
			name: "missing code",
			err:  oauth.ErrMissingCode,
			want: ExitCodeAuthFailed,
		},
		{
			name: "state mismatch",
			err:  oauth.ErrStateMismatch,
			want: ExitCodeAuthFailed,
		},
		{
			name: "generic error",
			err:  errors.New("something else"),
			want: ExitCodeError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, getExitCode(tt.err))
		})
	}
}
