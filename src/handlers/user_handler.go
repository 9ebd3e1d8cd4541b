package handlers

import (
	"errors"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"finsentinel-server/src/db"
	"finsentinel-server/src/logger"
	"finsentinel-server/src/models"
	"finsentinel-server/src/util"
)

// GetCurrentUser returns the profile of the token's owner.
func GetCurrentUser(store UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		user, err := store.GetUserByID(r.Context(), userID)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				util.WriteError(w, http.StatusNotFound, "User not found")
				return
			}
			log := logger.FromContext(r.Context())
			log.Error().Err(err).Msg("failed to get user")
			util.WriteError(w, http.StatusInternalServerError, "Database error")
			return
		}

		util.WriteSuccess(w, http.StatusOK, models.UserResponse{ID: user.ID, Name: user.Name, Email: user.Email})
	}
}

func ChangePassword(store UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}
		log := logger.FromContext(r.Context())

		var req struct {
			CurrentPassword string `json:"current_password"`
			NewPassword     string `json:"new_password"`
		}
		if err := decodeBody(r, &req); err != nil {
			log.Warn().Err(err).Msg("failed to decode change password request")
			util.WriteError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		user, err := store.GetUserByID(r.Context(), userID)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				util.WriteError(w, http.StatusNotFound, "User not found")
				return
			}
			log.Error().Err(err).Msg("failed to get user for password change")
			util.WriteError(w, http.StatusInternalServerError, "Database error")
			return
		}

		if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(req.CurrentPassword)); err != nil {
			log.Info().Msg("invalid current password on password change")
			util.WriteError(w, http.StatusUnauthorized, "Current password is incorrect")
			return
		}

		if !util.ValidatePassword(req.NewPassword) {
			util.WriteError(w, http.StatusBadRequest, "Password must be at least 6 characters")
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			log.Error().Err(err).Msg("failed to hash new password")
			util.WriteError(w, http.StatusInternalServerError, "Server error")
			return
		}

		if err := store.UpdateUserPassword(r.Context(), userID, hash); err != nil {
			log.Error().Err(err).Msg("failed to update password")
			util.WriteError(w, http.StatusInternalServerError, "Server error")
			return
		}

		log.Info().Msg("user password changed")
		util.WriteMessage(w, http.StatusOK, "Password changed successfully")
	}
}

// DeleteAccount removes the user together with all of their data.
func DeleteAccount(store UserStore, cache *db.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		if err := store.DeleteUser(r.Context(), userID); err != nil {
			if errors.Is(err, models.ErrNotFound) {
				util.WriteError(w, http.StatusNotFound, "User not found")
				return
			}
			log := logger.FromContext(r.Context())
			log.Error().Err(err).Msg("failed to delete user")
			util.WriteError(w, http.StatusInternalServerError, "Server error")
			return
		}

		cache.DelSummary(userID)
		util.WriteMessage(w, http.StatusOK, "Account deleted successfully")
	}
}
