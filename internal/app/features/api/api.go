// internal/app/features/api/api.go
//
// Shared JSON plumbing for the API features: response encoding, the
// error taxonomy, and request-body decoding with size limits.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Error kinds. Every non-2xx response body is {"error": kind, "message": …}.
const (
	KindInvalid       = "invalid"
	KindUnauthorized  = "unauthorized"
	KindForbidden     = "forbidden"
	KindNotFound      = "not_found"
	KindConflict      = "conflict"
	KindInvalidState  = "invalid_state"
	KindUnprocessable = "unprocessable"
	KindInternal      = "internal"
)

const maxBodyBytes = 1 << 20 // 1 MiB

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// JSON writes v with the given status. Encoding failures are logged by
// the caller's middleware; by then the status line is already gone.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Fail writes a taxonomy error response.
func Fail(w http.ResponseWriter, status int, kind, message string) {
	JSON(w, status, errorBody{Error: kind, Message: message})
}

func NotFound(w http.ResponseWriter, message string) {
	Fail(w, http.StatusNotFound, KindNotFound, message)
}

func Forbidden(w http.ResponseWriter, message string) {
	Fail(w, http.StatusForbidden, KindForbidden, message)
}

func Conflict(w http.ResponseWriter, message string) {
	Fail(w, http.StatusConflict, KindConflict, message)
}

func Invalid(w http.ResponseWriter, message string) {
	Fail(w, http.StatusBadRequest, KindInvalid, message)
}

func Unprocessable(w http.ResponseWriter, message string) {
	Fail(w, http.StatusUnprocessableEntity, KindUnprocessable, message)
}

// Internal logs the underlying error and hides it from the client.
func Internal(w http.ResponseWriter, log *zap.Logger, what string, err error) {
	log.Error(what, zap.Error(err))
	Fail(w, http.StatusInternalServerError, KindInternal, "internal error")
}

// Decode reads the request body into dst, rejecting oversized or
// malformed payloads.
func Decode(r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	// Trailing garbage after the JSON document is an error too.
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}

// PathID parses a hex ObjectID from a chi URL parameter value.
func PathID(raw string) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(raw)
}
