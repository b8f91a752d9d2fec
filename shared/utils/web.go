package utils

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/potatoland/potatoland/shared/errors"
	"github.com/potatoland/potatoland/shared/logger"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type errorBody struct {
	Error string `json:"error"`
}

// WriteErrorAndStatusCode writes err as {"error": msg} with the status it carries.
// Untyped errors are logged and reported as 500 without leaking details.
func WriteErrorAndStatusCode(w http.ResponseWriter, err error) {
	status := errors.StatusCode(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		logger.Log.Error("internal error", "error", err)
		msg = "Internal error"
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encErr := json.NewEncoder(w).Encode(errorBody{Error: msg}); encErr != nil {
		logger.Log.Error("failed to write error body", "error", encErr)
	}
}

func DecodeValidate(r io.ReadCloser, body any) error {
	if err := json.NewDecoder(r).Decode(body); err != nil {
		logger.Log.Debug("invalid json body", "error", err)
		return errors.BadRequest("Body is invalid json")
	}
	if err := validate.Struct(body); err != nil {
		logger.Log.Debug("body validation failed", "error", err)
		return errors.BadRequest("Required fields missing or invalid")
	}
	return nil
}

// ParseId parses a positive numeric identifier taken from the URL.
func ParseId(raw, name string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.BadRequest("Invalid " + name + ": must be a positive integer")
	}
	return id, nil
}
