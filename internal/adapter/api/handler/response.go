package handler

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
)

// respondWithJSON encodes payload before writing so an encoding failure can
// still produce a clean response.
func respondWithJSON(w http.ResponseWriter, logger *slog.Logger, status int, payload any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		logger.Error("failed to encode JSON response", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func respondWithError(w http.ResponseWriter, logger *slog.Logger, status int, message string) {
	respondWithJSON(w, logger, status, map[string]string{"error": message})
}
