package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type MockHealthChecker struct {
	PingFunc func(ctx context.Context) error
}

func (m *MockHealthChecker) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}

func TestHealth(t *testing.T) {
	t.Run("database reachable", func(t *testing.T) {
		h := New(nil, &MockHealthChecker{})
		rr := httptest.NewRecorder()

		h.Health(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "ok", rr.Body.String())
	})

	t.Run("database down", func(t *testing.T) {
		h := New(nil, &MockHealthChecker{PingFunc: func(ctx context.Context) error {
			return errors.New("connection refused")
		}})
		rr := httptest.NewRecorder()

		h.Health(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	})

	t.Run("ping has a deadline", func(t *testing.T) {
		h := New(nil, &MockHealthChecker{PingFunc: func(ctx context.Context) error {
			_, ok := ctx.Deadline()
			assert.True(t, ok)
			return nil
		}})
		h.Health(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	})
}
