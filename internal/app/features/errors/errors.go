// internal/app/features/errors/errors.go
package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/dalemusser/studyhub/internal/domain/studyerr"
	"go.uber.org/zap"
)

// Body is the JSON shape of every failed API call.
type Body struct {
	Kind      string `json:"kind"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable,omitempty"`
}

// Status maps a failure kind to its HTTP status. Each kind keeps its own
// message; the status only groups them.
func Status(k studyerr.Kind) int {
	switch k {
	case studyerr.KindMissingRequiredField,
		studyerr.KindOutOfScheduleWindow:
		return http.StatusBadRequest
	case studyerr.KindMalformedSchedule:
		return http.StatusUnprocessableEntity
	case studyerr.KindAlreadyMember,
		studyerr.KindNotAMember,
		studyerr.KindGroupFull,
		studyerr.KindCreatorCannotLeave:
		return http.StatusConflict
	case studyerr.KindGroupNotFound,
		studyerr.KindSessionNotFound:
		return http.StatusNotFound
	case studyerr.KindNotGroupCreator:
		return http.StatusForbidden
	case studyerr.KindUnauthenticated:
		return http.StatusUnauthorized
	case studyerr.KindTransportFailure:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Writer renders errors as JSON and logs the ones that are not the caller's
// fault.
type Writer struct {
	Log *zap.Logger
}

// NewWriter constructs a Writer.
func NewWriter(logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{Log: logger}
}

// Write sends err to the client as {kind, message}.
func (wr *Writer) Write(w http.ResponseWriter, r *http.Request, err error) {
	k := studyerr.KindOf(err)
	status := Status(k)

	if status >= http.StatusInternalServerError {
		wr.Log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("kind", k.String()),
			zap.Error(err))
	} else {
		wr.Log.Debug("request rejected",
			zap.String("path", r.URL.Path),
			zap.String("kind", k.String()),
			zap.Error(err))
	}

	if k == studyerr.KindTransportFailure {
		w.Header().Set("Retry-After", "1")
	}
	WriteJSON(w, status, Body{
		Kind:      k.String(),
		Message:   k.Message(),
		Retryable: studyerr.Retryable(err),
	})
}

// BadRequest reports an unreadable request body.
func (wr *Writer) BadRequest(w http.ResponseWriter, r *http.Request, err error) {
	var se *studyerr.Error
	if stderrors.As(err, &se) {
		wr.Write(w, r, err)
		return
	}
	wr.Write(w, r, studyerr.New(studyerr.KindMissingRequiredField, "bad request body: %v", err))
}

// TooManyRequests is the response for rate-limited membership changes.
func (wr *Writer) TooManyRequests(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusTooManyRequests, Body{
		Kind:      "RateLimited",
		Message:   "Too many requests. Please wait a moment and try again.",
		Retryable: true,
	})
}

// NotFound is the router's fallback for unknown paths.
func (wr *Writer) NotFound(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusNotFound, Body{Kind: "NotFound", Message: "No such endpoint."})
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
