package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gov-dx-sandbox/home-inventory/shared/monitoring"
	"github.com/gov-dx-sandbox/home-inventory/shared/utils"
	"github.com/gov-dx-sandbox/home-inventory/v1/models"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

const (
	stateCookieName   = "oauth_state"
	stateCookieMaxAge = 600

	// GoogleUserInfoURL is the OpenID Connect userinfo endpoint
	GoogleUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"
)

// UserUpserter creates or refreshes the user record on sign-in
type UserUpserter interface {
	UpsertOnSignIn(ctx context.Context, email, name string, image *string) (*models.User, error)
}

// OAuthConfig holds the identity provider settings
type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Endpoint     oauth2.Endpoint
	UserInfoURL  string
	Scopes       []string
}

// NewOAuthConfigFromEnv reads Google OAuth settings from the environment
func NewOAuthConfigFromEnv() OAuthConfig {
	return OAuthConfig{
		ClientID:     utils.GetEnvOrDefault("GOOGLE_CLIENT_ID", ""),
		ClientSecret: utils.GetEnvOrDefault("GOOGLE_CLIENT_SECRET", ""),
		RedirectURL:  utils.GetEnvOrDefault("OAUTH_REDIRECT_URL", "http://localhost:3000/auth/callback"),
		Endpoint:     endpoints.Google,
		UserInfoURL:  GoogleUserInfoURL,
		Scopes:       []string{"openid", "email", "profile"},
	}
}

// Validate checks that the client credentials are present
func (c OAuthConfig) Validate() error {
	if c.ClientID == "" || c.ClientSecret == "" {
		return fmt.Errorf("missing required OAuth configuration (GOOGLE_CLIENT_ID, GOOGLE_CLIENT_SECRET)")
	}
	if c.RedirectURL == "" {
		return fmt.Errorf("OAUTH_REDIRECT_URL must not be empty")
	}
	return nil
}

type userInfo struct {
	Email         string `json:"email"`
	EmailVerified *bool  `json:"email_verified,omitempty"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// OAuthHandler serves the login, callback and logout endpoints
type OAuthHandler struct {
	config      *oauth2.Config
	userInfoURL string
	sessions    *SessionManager
	users       UserUpserter
	httpClient  *http.Client
}

// NewOAuthHandler creates the sign-in flow handler
func NewOAuthHandler(cfg OAuthConfig, sessions *SessionManager, users UserUpserter) *OAuthHandler {
	return &OAuthHandler{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     cfg.Endpoint,
			Scopes:       cfg.Scopes,
		},
		userInfoURL: cfg.UserInfoURL,
		sessions:    sessions,
		users:       users,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}
}

func newState() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Login redirects the browser to the provider consent screen
func (h *OAuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	state, err := newState()
	if err != nil {
		slog.Error("Failed to generate OAuth state", "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/auth",
		MaxAge:   stateCookieMaxAge,
		HttpOnly: true,
		Secure:   h.sessions.secure,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.config.AuthCodeURL(state, oauth2.AccessTypeOnline), http.StatusFound)
}

// Callback exchanges the authorization code, upserts the user and starts a session
func (h *OAuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	if errParam := r.URL.Query().Get("error"); errParam != "" {
		slog.Warn("OAuth provider returned an error", "error", errParam)
		utils.RespondWithError(w, http.StatusUnauthorized, "Sign-in was cancelled")
		return
	}

	stateCookie, err := r.Cookie(stateCookieName)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != r.URL.Query().Get("state") {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid OAuth state")
		return
	}
	http.SetCookie(w, &http.Cookie{Name: stateCookieName, Value: "", Path: "/auth", MaxAge: -1})

	code := r.URL.Query().Get("code")
	if code == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing authorization code")
		return
	}

	ctx := context.WithValue(r.Context(), oauth2.HTTPClient, h.httpClient)
	start := time.Now()
	token, err := h.config.Exchange(ctx, code)
	monitoring.RecordExternalCall("oauth", "exchange", time.Since(start), err)
	if err != nil {
		slog.Warn("OAuth code exchange failed", "error", err)
		utils.RespondWithError(w, http.StatusUnauthorized, "Sign-in failed")
		return
	}

	info, err := h.fetchUserInfo(ctx, token)
	if err != nil {
		slog.Warn("Failed to fetch user info", "error", err)
		utils.RespondWithError(w, http.StatusUnauthorized, "Sign-in failed")
		return
	}

	var image *string
	if info.Picture != "" {
		image = &info.Picture
	}
	user, err := h.users.UpsertOnSignIn(r.Context(), info.Email, info.Name, image)
	if err != nil {
		slog.Error("Failed to upsert user on sign-in", "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	session, err := h.sessions.Issue(user)
	if err != nil {
		slog.Error("Failed to issue session", "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	h.sessions.SetCookie(w, session)
	monitoring.RecordBusinessEvent("sign_in", "success")
	slog.Info("User signed in", "userId", user.UserID)

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *OAuthHandler) fetchUserInfo(ctx context.Context, token *oauth2.Token) (*userInfo, error) {
	client := h.config.Client(ctx, token)
	start := time.Now()
	resp, err := client.Get(h.userInfoURL)
	monitoring.RecordExternalCall("oauth", "userinfo", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("userinfo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo endpoint returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read userinfo response: %w", err)
	}

	var info userInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("failed to unmarshal userinfo: %w", err)
	}
	info.Email = strings.TrimSpace(info.Email)
	if info.Email == "" {
		return nil, fmt.Errorf("userinfo response has no email")
	}
	if info.EmailVerified != nil && !*info.EmailVerified {
		return nil, fmt.Errorf("email %s is not verified", info.Email)
	}
	return &info, nil
}

// Logout clears the session cookie
func (h *OAuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.ClearCookie(w)
	if strings.Contains(r.Header.Get("Accept"), "text/html") {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
