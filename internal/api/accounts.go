package api

import (
	"errors"
	"net/http"

	"github.com/nerrad567/devicekeeper/internal/audit"
	"github.com/nerrad567/devicekeeper/internal/auth"
)

// whoamiPath is where register and login redirect after setting the cookie.
const whoamiPath = "/users/me"

// userResponse is the body of GET /users/me.
type userResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// handleRegister creates an account, logs it in and redirects to /users/me.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	body, err := parseBody(r)
	if err != nil {
		writeBodyError(w, err)
		return
	}

	fields, ok := body.require("name", "email", "password")
	if !ok {
		writeBadRequest(w, msgMissingFields)
		return
	}
	name, email, password := fields[0], fields[1], fields[2]

	hash, err := s.hasher.Hash(r.Context(), password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			writeBadRequest(w, msgPasswordTooLong)
			return
		}
		s.logger.Error("hashing password", "error", err)
		writeInternalError(w)
		return
	}

	user := &auth.User{Name: name, Email: email, Password: hash}
	if err := s.users.Create(r.Context(), user); err != nil {
		if errors.Is(err, auth.ErrEmailExists) {
			writeError(w, http.StatusConflict, msgEmailExists)
			return
		}
		s.logger.Error("creating user", "error", err)
		writeInternalError(w)
		return
	}

	s.logger.Info("user registered", "user_id", user.ID)
	s.recordAudit(audit.ActionRegistered, audit.EntityUser, user.ID, user.ID)
	s.signIn(w, r, user.ID)
}

// handleLogin checks credentials and redirects to /users/me with a fresh
// cookie. Unknown email and wrong password get the same answer.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	body, err := parseBody(r)
	if err != nil {
		writeBodyError(w, err)
		return
	}

	fields, ok := body.require("email", "password")
	if !ok {
		writeBadRequest(w, msgMissingFields)
		return
	}
	email, password := fields[0], fields[1]

	user, err := s.users.GetByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			s.hasher.VerifyDummy(r.Context(), password)
			writeUnauthorized(w, msgInvalidCredentials)
			return
		}
		s.logger.Error("looking up user", "error", err)
		writeInternalError(w)
		return
	}

	match, err := s.hasher.Verify(r.Context(), user.Password, password)
	if err != nil {
		if !errors.Is(err, auth.ErrMalformedHash) {
			s.logger.Error("verifying password", "user_id", user.ID, "error", err)
			writeInternalError(w)
			return
		}
		s.logger.Warn("stored password hash is malformed", "user_id", user.ID)
	}
	if !match {
		writeUnauthorized(w, msgInvalidCredentials)
		return
	}

	s.logger.Info("user logged in", "user_id", user.ID)
	s.recordAudit(audit.ActionLogin, audit.EntityUser, user.ID, user.ID)
	s.signIn(w, r, user.ID)
}

// handleWhoami returns the authenticated user's profile.
func (s *Server) handleWhoami(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, msgAuthMissing)
		return
	}

	user, err := s.users.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			writeNotFound(w, msgUserNotFound)
			return
		}
		s.logger.Error("loading user", "user_id", userID, "error", err)
		writeInternalError(w)
		return
	}

	writeJSON(w, http.StatusOK, userResponse{ID: user.ID, Name: user.Name, Email: user.Email})
}

// signIn issues a token, stores it in the auth cookie and redirects to
// /users/me.
func (s *Server) signIn(w http.ResponseWriter, r *http.Request, userID int64) {
	token, err := s.tokens.Issue(userID)
	if err != nil {
		s.logger.Error("issuing token", "user_id", userID, "error", err)
		writeInternalError(w)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.secCfg.Cookie.Name,
		Value:    bearerPrefix + token,
		Path:     "/",
		MaxAge:   int(s.tokens.TTL().Seconds()),
		HttpOnly: true,
		Secure:   s.secCfg.Cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, whoamiPath, http.StatusFound)
}
