package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"emilock-admin/internal/config"
	"emilock-admin/internal/session"
	appErrors "emilock-admin/pkg/errors"
	"emilock-admin/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	loginPath  = "/admin/login"
	verifyPath = "/admin/verify/"

	previewLimit = 100
)

// statuses that indicate the primary path prefix is wrong rather than the
// credentials or the server. Only these trigger the fallback URL.
func isPathStatus(status int) bool {
	return status == http.StatusNotFound ||
		status == http.StatusUnauthorized ||
		status == http.StatusForbidden
}

// Service authenticates an administrator against a backend whose reachable
// path prefix is not guaranteed uniform across deployments: a builder-derived
// primary URL is tried first, with at most one retry against a concatenated
// fallback URL per failure mode.
type Service struct {
	httpClient   *http.Client
	primaryBase  string
	fallbackBase string
}

func NewService(cfg *config.Config) *Service {
	return &Service{
		httpClient:   &http.Client{Timeout: cfg.HTTP.Timeout},
		primaryBase:  cfg.Backend.PrimaryBaseURL(),
		fallbackBase: cfg.Backend.FallbackBaseURL(),
	}
}

// attempt captures one login POST: the URL used, the raw body text, and the
// parsed body (nil when the body was not valid JSON - tolerated, because a
// misconfigured proxy may answer with an HTML page).
type attempt struct {
	url    string
	status int
	raw    string
	body   map[string]interface{}
}

func (a *attempt) ok() bool {
	return a.status >= 200 && a.status < 300
}

// Login runs the full submit flow and returns the session to persist. Every
// failure path yields a single human-readable error; nothing is retried more
// than once per fallback trigger.
func (s *Service) Login(ctx context.Context, username, password string, staySignedIn bool) (*session.AdminSession, error) {
	req := LoginRequest{Username: username, Password: password}
	if err := utils.ValidateStruct(&req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation,
			"Please enter both username and password", appErrors.ErrEmptyCredentials)
	}

	primaryURL := s.primaryBase + loginPath
	fallbackURL := s.fallbackBase + loginPath

	att, err := s.postLogin(ctx, primaryURL, &req)
	if err != nil {
		return nil, err
	}

	fallbackTried := false

	// Fallback trigger 1: a path-shaped HTTP error on the primary URL.
	if !att.ok() && isPathStatus(att.status) && fallbackURL != primaryURL {
		zap.L().Debug("login retrying against fallback endpoint",
			zap.Int("status", att.status), zap.String("url", fallbackURL))
		att, err = s.postLogin(ctx, fallbackURL, &req)
		if err != nil {
			return nil, err
		}
		fallbackTried = true
	}

	if !att.ok() {
		return nil, composedError(att)
	}

	if att.body == nil {
		return nil, unparsableError(att)
	}

	// Fallback trigger 2: an OK-looking body with no recognizable token,
	// orthogonal to the status trigger above.
	if extractToken(att.body) == "" && !fallbackTried && fallbackURL != primaryURL {
		zap.L().Debug("login response had no token, retrying against fallback endpoint",
			zap.String("url", fallbackURL))
		att, err = s.postLogin(ctx, fallbackURL, &req)
		if err != nil {
			return nil, err
		}
		if !att.ok() {
			return nil, composedError(att)
		}
		if att.body == nil {
			return nil, unparsableError(att)
		}
	}

	token := extractToken(att.body)
	if token == "" {
		return nil, composedError(att)
	}

	adminID := stringField(att.body, "id")
	adminUsername := stringField(att.body, "username")
	if adminID == "" || adminUsername == "" {
		return nil, appErrors.NewAppError(appErrors.CodeMissingFields,
			fmt.Sprintf("Login succeeded but the response is missing required fields (via %s)", att.url),
			appErrors.ErrMissingFields)
	}

	role := stringField(att.body, "role")
	if role == "" {
		role = "user"
	}

	sess := &session.AdminSession{
		Token:        token,
		AdminID:      adminID,
		Username:     adminUsername,
		Role:         role,
		IsSuperAdmin: boolField(att.body, "is_super_admin"),
		FirstName:    stringField(att.body, "first_name"),
		LastName:     stringField(att.body, "last_name"),
		StaySignedIn: staySignedIn,
	}

	return sess, nil
}

// Verify checks a stored token against the verification endpoint. A transport
// failure is reported as an error too: the caller treats any failure here as
// "cannot verify" and falls back to the login form.
func (s *Service) Verify(ctx context.Context, token string) error {
	verifyURL := s.primaryBase + verifyPath + token

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, verifyURL, nil)
	if err != nil {
		return appErrors.NewAppError(appErrors.CodeNetwork, "Could not build verify request", err)
	}
	httpReq.Header.Set("X-Request-ID", uuid.New().String())

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return appErrors.NewAppError(appErrors.CodeNetwork,
			"Could not reach the server to verify the session", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return appErrors.NewAppError(appErrors.CodeSession,
			"Stored session was rejected by the server", appErrors.ErrSessionExpired)
	}

	return nil
}

// Restore implements the startup path: with stay-signed-in set and a stored
// token, verify best-effort and either resume the session or clear it. Never
// returns a verification error - failure just means the login form is shown.
func (s *Service) Restore(ctx context.Context, store *session.Store) (*session.AdminSession, error) {
	sess, err := store.LoadSession()
	if err != nil {
		return nil, err
	}
	if sess == nil || !sess.StaySignedIn {
		return nil, nil
	}

	if err := s.Verify(ctx, sess.Token); err != nil {
		zap.L().Info("stored session could not be verified, clearing it", zap.Error(err))
		if clearErr := store.ClearSession(); clearErr != nil {
			return nil, clearErr
		}
		return nil, nil
	}

	return sess, nil
}

func (s *Service) postLogin(ctx context.Context, url string, req *LoginRequest) (*attempt, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeNetwork, "Could not encode login request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeNetwork, "Could not build login request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Request-ID", uuid.New().String())

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		// Transport failure, not an HTTP error: surface immediately, the
		// fallback URL would sit behind the same unreachable network.
		return nil, appErrors.NewAppError(appErrors.CodeNetwork,
			fmt.Sprintf("Could not reach the server at %s. Check your connection and the configured API host", url),
			err)
	}
	defer resp.Body.Close()

	rawBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeNetwork,
			"Connection dropped while reading the login response", err)
	}

	att := &attempt{url: url, status: resp.StatusCode, raw: string(rawBytes)}

	var parsed map[string]interface{}
	if err := json.Unmarshal(rawBytes, &parsed); err == nil {
		att.body = parsed
	}

	return att, nil
}

// composedError assembles the user-facing message for a failed attempt, in
// priority order: server detail field, raw response text, generic fallback.
// The HTTP status and URL actually used are always appended, plus any
// alternate endpoint the server suggested in the body.
func composedError(att *attempt) error {
	message := stringField(att.body, "detail")
	if message == "" {
		message = strings.TrimSpace(att.raw)
	}
	if message == "" {
		message = "Authentication failed"
	}

	message = fmt.Sprintf("%s (HTTP %d via %s)", message, att.status, att.url)
	if alt := suggestedEndpoint(att.body); alt != "" {
		message = fmt.Sprintf("%s. The server suggests using %s", message, alt)
	}

	return appErrors.NewAppError(appErrors.CodeHTTP, message, nil)
}

// unparsableError diagnoses an OK response whose body did not parse as JSON,
// distinguishing a proxy-served HTML page from arbitrary garbage.
func unparsableError(att *attempt) error {
	preview := att.raw
	if len(preview) > previewLimit {
		preview = preview[:previewLimit]
	}

	lower := strings.ToLower(att.raw)
	if strings.Contains(lower, "<!doctype") || strings.Contains(lower, "<html") {
		return appErrors.NewAppError(appErrors.CodeBadResponse,
			fmt.Sprintf("The server answered with an HTML page instead of JSON - the API address is probably wrong (via %s): %s", att.url, preview),
			nil)
	}

	return appErrors.NewAppError(appErrors.CodeBadResponse,
		fmt.Sprintf("The server returned a non-JSON response (via %s): %s", att.url, preview),
		nil)
}
