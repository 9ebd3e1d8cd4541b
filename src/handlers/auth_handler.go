package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"finsentinel-server/src/logger"
	"finsentinel-server/src/models"
	"finsentinel-server/src/util"
)

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func Signup(store UserStore, secret string, ttl time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req signupRequest
		if err := decodeBody(r, &req); err != nil {
			log.Warn().Err(err).Msg("failed to decode signup request")
			util.WriteError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		req.Name = strings.TrimSpace(req.Name)
		req.Email = util.NormalizeEmail(req.Email)

		if req.Name == "" || req.Email == "" || req.Password == "" {
			util.WriteError(w, http.StatusBadRequest, "Please provide all required fields")
			return
		}
		if !util.ValidatePassword(req.Password) {
			util.WriteError(w, http.StatusBadRequest, "Password must be at least 6 characters")
			return
		}
		if !util.ValidateEmail(req.Email) {
			util.WriteError(w, http.StatusBadRequest, "Invalid email format")
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Error().Err(err).Msg("failed to hash password")
			util.WriteError(w, http.StatusInternalServerError, "Server error")
			return
		}

		user, err := store.CreateUser(r.Context(), req.Name, req.Email, hash)
		if err != nil {
			if errors.Is(err, models.ErrDuplicate) {
				util.WriteError(w, http.StatusBadRequest, "Email already registered")
				return
			}
			log.Error().Err(err).Str("email", req.Email).Msg("failed to create user")
			util.WriteError(w, http.StatusInternalServerError, "Error creating user")
			return
		}

		token, err := util.GenerateToken(user.ID, secret, ttl)
		if err != nil {
			log.Error().Err(err).Int64("user_id", user.ID).Msg("failed to generate token")
			util.WriteError(w, http.StatusInternalServerError, "Error generating token")
			return
		}

		log.Info().Int64("user_id", user.ID).Msg("user signed up")
		util.WriteJSON(w, http.StatusCreated, newAuthResponse(token, user))
	}
}

func Login(store UserStore, secret string, ttl time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req loginRequest
		if err := decodeBody(r, &req); err != nil {
			log.Warn().Err(err).Msg("failed to decode login request")
			util.WriteError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		req.Email = util.NormalizeEmail(req.Email)
		if req.Email == "" || req.Password == "" {
			util.WriteError(w, http.StatusBadRequest, "Please provide email and password")
			return
		}

		user, err := store.GetUserByEmail(r.Context(), req.Email)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				util.WriteError(w, http.StatusUnauthorized, "Invalid credentials")
				return
			}
			log.Error().Err(err).Msg("failed to look up user")
			util.WriteError(w, http.StatusInternalServerError, "Database error")
			return
		}

		if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(req.Password)); err != nil {
			log.Info().Int64("user_id", user.ID).Msg("failed login attempt")
			util.WriteError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}

		token, err := util.GenerateToken(user.ID, secret, ttl)
		if err != nil {
			log.Error().Err(err).Int64("user_id", user.ID).Msg("failed to generate token")
			util.WriteError(w, http.StatusInternalServerError, "Error generating token")
			return
		}

		util.WriteJSON(w, http.StatusOK, newAuthResponse(token, user))
	}
}

func newAuthResponse(token string, user *models.User) models.AuthResponse {
	return models.AuthResponse{
		Success: true,
		Token:   token,
		User: models.UserResponse{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
		},
	}
}
