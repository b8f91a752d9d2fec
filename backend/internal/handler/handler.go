package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/potatoland/potatoland/backend/internal/service"
	"github.com/potatoland/potatoland/shared/logger"
)

// HealthChecker reports whether the database answers.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	board  service.BoardService
	health HealthChecker
}

func New(board service.BoardService, health HealthChecker) *Handler {
	return &Handler{board: board, health: health}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("failed to write response", "error", err)
	}
}
