package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Sl0thC0der/yt-download-ng/internal/scheduler"
	"github.com/Sl0thC0der/yt-download-ng/internal/store"
)

// apiResponse is the uniform envelope for every HTTP response.
type apiResponse struct {
	Success bool    `json:"success"`
	Data    any     `json:"data"`
	Error   *string `json:"error"`
}

func writeData(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(apiResponse{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(apiResponse{Success: false, Error: &msg})
}

// writeDomainError maps domain errors to status codes. Anything unexpected
// becomes a generic 500 without leaking internal detail.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, scheduler.ErrNotCancellable), errors.Is(err, scheduler.ErrNotRetryable):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, scheduler.ErrUnknownProfile),
		errors.Is(err, scheduler.ErrEmptyURL),
		errors.Is(err, scheduler.ErrBadSettings):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
