package httputil

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

type envelope map[string]any

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("write json response failed", slog.Any("err", err))
	}
}

// Error writes {"message": msg} with optional field details under "errors".
func Error(w http.ResponseWriter, status int, msg string, details any) {
	payload := envelope{"message": msg}
	if details != nil {
		payload["errors"] = details
	}
	JSON(w, status, payload)
}
