package http

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/matchpoint-club/matchpoint/internal/auth"
	"github.com/matchpoint-club/matchpoint/internal/player"
)

func (s *Server) RegisterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email    string `json:"email"`
			Name     string `json:"name"`
			Password string `json:"password"`
			LadderID string `json:"ladder_id"`
		}
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json", "could not parse request body")
			return
		}
		if req.Email == "" || req.Name == "" || req.Password == "" || req.LadderID == "" {
			writeError(w, http.StatusBadRequest, "missing_fields", "email, name, password and ladder_id are required")
			return
		}

		user, token, err := s.Players.Register(req.Email, req.Name, req.Password, req.LadderID)
		if errors.Is(err, player.ErrEmailTaken) {
			writeError(w, http.StatusConflict, "email_taken", "email already registered")
			return
		}
		if err != nil {
			log.Error("Failed to register player", "error", err)
			writeError(w, http.StatusInternalServerError, "internal", "failed to register")
			return
		}

		link := fmt.Sprintf("%s/verify?token=%s", s.Cfg.BaseURL, token)
		if err := s.Notifier.SendVerificationEmail(user.Name, user.Email, link, isDryRunFromContext(r)); err != nil {
			// Delivery is best-effort; the account exists either way.
			log.Error("Failed to send verification email", "error", err, "email", user.Email)
		}

		writeJSON(w, http.StatusCreated, user)
	}
}

func (s *Server) VerifyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Token string `json:"token"`
		}
		if err := readJSON(r, &req); err != nil || req.Token == "" {
			writeError(w, http.StatusBadRequest, "missing_token", "token is required")
			return
		}

		user, err := s.Players.Verify(req.Token)
		if errors.Is(err, player.ErrNotFound) {
			writeError(w, http.StatusBadRequest, "invalid_token", "unknown verification token")
			return
		}
		if err != nil {
			log.Error("Failed to verify player", "error", err)
			writeError(w, http.StatusInternalServerError, "internal", "failed to verify")
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}

func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json", "could not parse request body")
			return
		}

		user, err := s.Players.GetByEmail(req.Email)
		if errors.Is(err, player.ErrNotFound) || (err == nil && !player.CheckPassword(user, req.Password)) {
			writeError(w, http.StatusUnauthorized, "invalid_credentials", "wrong email or password")
			return
		}
		if err != nil {
			log.Error("Failed to look up player", "error", err)
			writeError(w, http.StatusInternalServerError, "internal", "failed to log in")
			return
		}
		if !user.Verified {
			writeError(w, http.StatusForbidden, "not_verified", "email address not verified")
			return
		}

		token, err := s.Sessions.Create(user.ID)
		if err != nil {
			log.Error("Failed to create session", "error", err)
			writeError(w, http.StatusInternalServerError, "internal", "failed to log in")
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     auth.CookieName,
			Value:    token,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   s.Cfg.Session.TTLHours * int(time.Hour/time.Second),
		})
		writeJSON(w, http.StatusOK, user)
	}
}

func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(auth.CookieName); err == nil && cookie.Value != "" {
			if err := s.Sessions.Destroy(cookie.Value); err != nil {
				log.Error("Failed to destroy session", "error", err)
			}
		}
		http.SetCookie(w, &http.Cookie{
			Name:     auth.CookieName,
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			MaxAge:   -1,
		})
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) PasswordResetRequestHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email string `json:"email"`
		}
		if err := readJSON(r, &req); err != nil || req.Email == "" {
			writeError(w, http.StatusBadRequest, "missing_email", "email is required")
			return
		}

		user, otp, err := s.Players.RequestPasswordReset(req.Email)
		if err != nil {
			// Whether the address exists is not disclosed.
			if !errors.Is(err, player.ErrNotFound) {
				log.Error("Failed to create reset code", "error", err)
			}
			w.WriteHeader(http.StatusAccepted)
			return
		}

		if err := s.Notifier.SendPasswordResetOTP(user.Name, user.Email, otp, isDryRunFromContext(r)); err != nil {
			log.Error("Failed to send reset code", "error", err, "email", user.Email)
		}
		w.WriteHeader(http.StatusAccepted)
	}
}

func (s *Server) PasswordResetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email       string `json:"email"`
			OTP         string `json:"otp"`
			NewPassword string `json:"new_password"`
		}
		if err := readJSON(r, &req); err != nil || req.Email == "" || req.OTP == "" || req.NewPassword == "" {
			writeError(w, http.StatusBadRequest, "missing_fields", "email, otp and new_password are required")
			return
		}

		err := s.Players.ResetPassword(req.Email, req.OTP, req.NewPassword)
		if errors.Is(err, player.ErrInvalidOTP) || errors.Is(err, player.ErrNotFound) {
			writeError(w, http.StatusBadRequest, "invalid_otp", "invalid or expired reset code")
			return
		}
		if err != nil {
			log.Error("Failed to reset password", "error", err)
			writeError(w, http.StatusInternalServerError, "internal", "failed to reset password")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) GetProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal := auth.PrincipalFromContext(r.Context())
		user, err := s.Players.GetByID(principal.UserID)
		if err != nil {
			log.Error("Failed to load profile", "error", err, "userID", principal.UserID)
			writeError(w, http.StatusInternalServerError, "internal", "failed to load profile")
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}

func (s *Server) UpdateProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal := auth.PrincipalFromContext(r.Context())

		var upd player.ProfileUpdate
		if err := readJSON(r, &upd); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json", "could not parse request body")
			return
		}

		user, err := s.Players.UpdateProfile(principal.UserID, upd)
		if err != nil {
			log.Error("Failed to update profile", "error", err, "userID", principal.UserID)
			writeError(w, http.StatusInternalServerError, "internal", "failed to update profile")
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}

func (s *Server) DeleteProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal := auth.PrincipalFromContext(r.Context())

		if err := s.Players.Delete(principal.UserID); err != nil {
			log.Error("Failed to delete account", "error", err, "userID", principal.UserID)
			writeError(w, http.StatusInternalServerError, "internal", "failed to delete account")
			return
		}
		log.Info("Account deleted", "userID", principal.UserID)
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) PartnerLinkHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal := auth.PrincipalFromContext(r.Context())

		var req struct {
			PartnerEmail string `json:"partner_email"`
		}
		if err := readJSON(r, &req); err != nil || req.PartnerEmail == "" {
			writeError(w, http.StatusBadRequest, "missing_email", "partner_email is required")
			return
		}

		user, err := s.Players.LinkPartner(principal.UserID, req.PartnerEmail)
		if errors.Is(err, player.ErrNotFound) {
			writeError(w, http.StatusNotFound, "partner_not_found", "no player with that email")
			return
		}
		if errors.Is(err, player.ErrHasPartner) {
			writeError(w, http.StatusConflict, "has_partner", "one of the players already has a partner")
			return
		}
		if err != nil {
			log.Error("Failed to link partner", "error", err, "userID", principal.UserID)
			writeError(w, http.StatusInternalServerError, "internal", "failed to link partner")
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}

func (s *Server) PartnerUnlinkHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal := auth.PrincipalFromContext(r.Context())

		if err := s.Players.UnlinkPartner(principal.UserID); err != nil {
			log.Error("Failed to unlink partner", "error", err, "userID", principal.UserID)
			writeError(w, http.StatusInternalServerError, "internal", "failed to unlink partner")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
