package rest

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"rentledger/internal/domain"
)

type APIResponse struct {
	ErrorCode int         `json:"error_code"`
	Status    string      `json:"status"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data"`
}

func Response(w http.ResponseWriter, message string, data interface{}, errorCode int, status string, httpStatus int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)

	response := APIResponse{
		ErrorCode: errorCode,
		Status:    status,
		Message:   message,
		Data:      data,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("[HTTP] write response error: %v", err)
	}
}

func Success(w http.ResponseWriter, message string, data interface{}) {
	Response(w, message, data, 0, "success", http.StatusOK)
}

func SuccessCreated(w http.ResponseWriter, message string, data interface{}) {
	Response(w, message, data, 0, "success", http.StatusCreated)
}

func SuccessAccepted(w http.ResponseWriter, message string, data interface{}) {
	Response(w, message, data, 0, "success", http.StatusAccepted)
}

func Error(w http.ResponseWriter, message string, errorCode int, httpStatus int) {
	Response(w, message, nil, errorCode, "error", httpStatus)
}

func ErrorBadRequest(w http.ResponseWriter, message string) {
	Error(w, message, 400, http.StatusBadRequest)
}

func ErrorNotFound(w http.ResponseWriter, message string) {
	Error(w, message, 404, http.StatusNotFound)
}

func ErrorInternal(w http.ResponseWriter, message string) {
	Error(w, message, 500, http.StatusInternalServerError)
}

// ServiceError maps the service layer's error taxonomy onto HTTP:
// validation failures are the caller's fault, missing documents are
// 404, everything else is a 500 with the detail kept in the log.
func ServiceError(w http.ResponseWriter, op string, err error) {
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		ErrorBadRequest(w, vErr.Message)
		return
	}
	if errors.Is(err, domain.ErrNotFound) {
		ErrorNotFound(w, "not found")
		return
	}
	log.Printf("[HTTP] %s error: %v", op, err)
	ErrorInternal(w, "internal error")
}
