package handlers

import (
	"net/http"
	"time"

	"finsentinel-server/src/util"
)

func Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		util.WriteJSON(w, http.StatusOK, util.Envelope{
			"success":   true,
			"message":   "FinSentinel API is running",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}
