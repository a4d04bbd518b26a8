// AngelaMos | 2026
// respond.go

package core

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

// Envelope is the uniform response body: {success, message, data}.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type PaginatedData struct {
	Items      any `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

func writeJSON(w http.ResponseWriter, status int, body Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // best-effort response write
	_ = json.NewEncoder(w).Encode(body)
}

func OK(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, Envelope{Success: true, Message: "Success", Data: data})
}

func OKMessage(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, Envelope{Success: true, Message: message})
}

func Created(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusCreated, Envelope{Success: true, Message: "Success", Data: data})
}

func CreatedMessage(w http.ResponseWriter, message string, data any) {
	writeJSON(w, http.StatusCreated, Envelope{Success: true, Message: message, Data: data})
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func Paginated(w http.ResponseWriter, items any, page, pageSize, total int) {
	totalPages := 0
	if pageSize > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}

	writeJSON(w, http.StatusOK, Envelope{
		Success: true,
		Message: "Success",
		Data: PaginatedData{
			Items:      items,
			Page:       page,
			PageSize:   pageSize,
			TotalItems: total,
			TotalPages: totalPages,
		},
	})
}

func BadRequest(w http.ResponseWriter, message string) {
	if message == "" {
		message = MsgBadInput
	}
	writeJSON(w, http.StatusBadRequest, Envelope{Success: false, Message: message})
}

func Unauthorized(w http.ResponseWriter, message string) {
	if message == "" {
		message = MsgAccessDenied
	}
	writeJSON(w, http.StatusUnauthorized, Envelope{Success: false, Message: message})
}

func Forbidden(w http.ResponseWriter, message string) {
	if message == "" {
		message = MsgAccessDenied
	}
	writeJSON(w, http.StatusForbidden, Envelope{Success: false, Message: message})
}

func NotFound(w http.ResponseWriter, resource string) {
	writeJSON(w, http.StatusNotFound, Envelope{
		Success: false,
		Message: resource + " not found",
	})
}

// InternalServerError logs the underlying error and surfaces a generic
// message so backend details never leak to the client.
func InternalServerError(w http.ResponseWriter, err error) {
	slog.Error("internal error", "error", err)
	writeJSON(w, http.StatusInternalServerError, Envelope{
		Success: false,
		Message: MsgInternal,
	})
}

func JSONError(w http.ResponseWriter, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		writeJSON(w, appErr.Status, Envelope{
			Success: false,
			Message: appErr.Message,
		})
		return
	}

	InternalServerError(w, err)
}
