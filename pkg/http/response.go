package http

import (
	"encoding/json"
	"net/http"

	apperrors "laptoploan/pkg/errors"
	"laptoploan/pkg/locale"
)

type ErrorResponse struct {
	Code    string         `json:"code"`
	Error   string         `json:"error"`
	Details map[string]any `json:"details,omitempty"`
}

type SuccessResponse struct {
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

type PaginatedResponse struct {
	Data       any   `json:"data"`
	TotalCount int64 `json:"total_count"`
	Limit      int   `json:"limit"`
	Offset     int64 `json:"offset"`
}

func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// WriteError renders err in the request's negotiated language. Internal
// errors are reduced to a generic message; their cause is never written.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperrors.AsAppError(err)
	tag := locale.FromContext(r.Context())

	resp := ErrorResponse{
		Code:    appErr.Code,
		Error:   appErr.Message,
		Details: appErr.Details,
	}

	switch {
	case appErr.Code == apperrors.CodeInternal:
		resp.Error = locale.Translate(tag, locale.KeyServerError)
		resp.Details = nil
	case appErr.MessageKey != "":
		resp.Error = locale.Translate(tag, appErr.MessageKey, appErr.Args...)
	}

	status := appErr.StatusCode()
	if status == 0 {
		status = http.StatusInternalServerError
	}
	_ = WriteJSON(w, status, resp)
}

func WriteSuccess(w http.ResponseWriter, data any) error {
	return WriteJSON(w, http.StatusOK, SuccessResponse{Data: data})
}

func WriteCreated(w http.ResponseWriter, data any) error {
	return WriteJSON(w, http.StatusCreated, SuccessResponse{Data: data})
}

// WriteMessage writes a localized confirmation message alongside data.
func WriteMessage(w http.ResponseWriter, r *http.Request, statusCode int, key string, data any) error {
	return WriteJSON(w, statusCode, SuccessResponse{
		Data:    data,
		Message: locale.Translate(locale.FromContext(r.Context()), key),
	})
}

func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func WritePaginated(w http.ResponseWriter, data any, totalCount int64, limit int, offset int64) error {
	return WriteJSON(w, http.StatusOK, PaginatedResponse{
		Data:       data,
		TotalCount: totalCount,
		Limit:      limit,
		Offset:     offset,
	})
}
