// ABOUTME: Login endpoint that exchanges credentials for a bearer token
// ABOUTME: All credential failures collapse into one generic 401 response

package api

import (
	"encoding/json"
	"net/http"
	"strings"
)

// TokenResponse is the successful login payload.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// loginRequest is the JSON form of the login body. Form-encoded bodies with
// username/password fields are accepted as well.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// handleLogin handles POST /login.
// On success it returns {"access_token": ..., "token_type": "bearer"}.
// Every failure (unknown user, wrong password, disabled account) produces the
// same generic message; the classification is only logged.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	username, password, ok := parseLoginCredentials(r)
	if !ok {
		s.loginUnauthorized(w)
		return
	}

	user, err := s.authenticator.Authenticate(r.Context(), username, password)
	if err != nil {
		// Authenticate already logged the classified reason
		s.loginUnauthorized(w)
		return
	}

	token, err := s.verifier.Generate(user.Username, s.cfg.Auth.TokenTTL)
	if err != nil {
		s.logger.Error("failed to generate token", "username", user.Username, "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	s.logger.Info("login successful", "username", user.Username)
	s.sendJSON(w, http.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

// parseLoginCredentials extracts username/password from a form-encoded or
// JSON request body.
func parseLoginCredentials(r *http.Request) (username, password string, ok bool) {
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "application/json") {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return "", "", false
		}
		username, password = req.Username, req.Password
	} else {
		if err := r.ParseForm(); err != nil {
			return "", "", false
		}
		username = r.PostFormValue("username")
		password = r.PostFormValue("password")
	}

	if username == "" || password == "" {
		return "", "", false
	}
	return username, password, true
}

// loginUnauthorized writes the generic login failure response.
func (s *Server) loginUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"incorrect username or password"}`))
}
