// Package http holds the transport helpers shared by the bridge HTTP surfaces:
// error-returning handlers, JSON bodies and graceful serving.
package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	apperrors "github.com/chainsafe/cascoin-bridge/pkg/app/errors"
)

// maxBodySize caps request bodies read by DecodeJSON
const maxBodySize = 1 << 20

// HandlerFunc is an http handler that reports failures by returning them
type HandlerFunc func(http.ResponseWriter, *http.Request) error

// ErrorResponse is the body written for every failed request
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

// HandleError adapts a HandlerFunc for chi:
//
//	r.Post("/deposits", apphttp.HandleError(h.createDeposit))
func HandleError(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			DefaultErrorHandler(w, err)
		}
	}
}

// DefaultErrorHandler writes err as an ErrorResponse. Only ServiceError
// messages reach the client.
func DefaultErrorHandler(w http.ResponseWriter, err error) {
	var svcErr *apperrors.ServiceError
	if errors.As(err, &svcErr) {
		WriteJSON(w, svcErr.StatusCode(), &ErrorResponse{Error: svcErr.Message, Code: svcErr.StatusCode()})
		return
	}
	WriteJSON(w, http.StatusInternalServerError, &ErrorResponse{
		Error: "Unexpected Service Error",
		Code:  http.StatusInternalServerError,
	})
}

// DecodeJSON reads a size-limited JSON body into dst
func DecodeJSON(r *http.Request, dst any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return apperrors.BadRequestError(err, "failed to read request")
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return apperrors.BadRequestError(err, "invalid JSON")
	}
	return nil
}

// WriteJSON writes data with the given status
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
