package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/potatoland/potatoland/shared/domain"
	"github.com/potatoland/potatoland/shared/middleware/ratelimiter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimit(t *testing.T) {
	rl := ratelimiter.New(0.0001, 2, time.Minute)
	defer rl.Stop()

	handler := RateLimit(rl, GetIP)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodGet, "/api/board/confirm", nil)
		req.RemoteAddr = "203.0.113.50:12345"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// another client has its own bucket
	req := httptest.NewRequest(http.MethodGet, "/api/board/confirm", nil)
	req.RemoteAddr = "203.0.113.51:12345"
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestGetIP(t *testing.T) {
	tests := []struct {
		remoteAddr string
		expected   string
		wantErr    bool
	}{
		{remoteAddr: "192.168.1.100:54321", expected: "192.168.1.100"},
		{remoteAddr: "[2001:db8::1]:8080", expected: "2001:db8::1"},
		{remoteAddr: "127.0.0.1", expected: "127.0.0.1"},
		{remoteAddr: "not-an-ip:80", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.remoteAddr, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/test", nil)
			req.RemoteAddr = tt.remoteAddr
			req.Header.Set("X-Forwarded-For", "10.0.0.2")

			ip, err := GetIP(req)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ip)
		})
	}
}

func TestGetUserIDFromContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/test", nil)
	_, err := GetUserIDFromContext(req)
	assert.Error(t, err)

	ctx := context.WithValue(req.Context(), UserClaimsKey, &domain.User{Id: 12})
	id, err := GetUserIDFromContext(req.WithContext(ctx))
	require.NoError(t, err)
	assert.Equal(t, "user_12", id)
}
