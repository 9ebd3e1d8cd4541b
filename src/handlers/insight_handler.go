package handlers

import (
	"net/http"

	"finsentinel-server/src/logger"
	"finsentinel-server/src/services"
	"finsentinel-server/src/util"
)

// GetInsights regenerates and returns the caller's insights.
func GetInsights(svc *services.InsightService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		insights, err := svc.Refresh(r.Context(), userID)
		if err != nil {
			log := logger.FromContext(r.Context())
			log.Error().Err(err).Msg("failed to refresh insights")
			util.WriteError(w, http.StatusInternalServerError, "Error fetching expenses")
			return
		}
		util.WriteSuccess(w, http.StatusOK, insights)
	}
}
