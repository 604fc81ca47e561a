package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"emilock-admin/internal/client/model"
	"emilock-admin/internal/config"
	appErrors "emilock-admin/pkg/errors"
	"emilock-admin/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service fetches rosters, locations and stats, and keeps the last known
// state of each so a failed refresh never blanks the screen. Refreshes are
// latest-wins: each fetch gets a monotonic sequence number and a response for
// a superseded fetch is discarded instead of overwriting newer data.
type Service struct {
	httpClient *http.Client
	baseURL    string

	mu           sync.Mutex
	nextSeq      uint64
	clientsSeq   uint64
	locationsSeq uint64
	statsSeq     uint64
	clients      []model.Client
	locations    []model.ClientLocation
	stats        *model.DeviceStats
}

func NewService(cfg *config.Config) *Service {
	return &Service{
		httpClient: &http.Client{Timeout: cfg.HTTP.Timeout},
		baseURL:    cfg.Backend.PrimaryBaseURL(),
	}
}

// Clients returns the last known roster without fetching.
func (s *Service) Clients() []model.Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clients
}

// RefreshClients re-fetches the roster. On error the previous state is
// returned alongside the error so the caller can log and keep rendering.
func (s *Service) RefreshClients(ctx context.Context, adminToken string) ([]model.Client, error) {
	seq := s.beginFetch()

	var fetched []model.Client
	err := s.getJSON(ctx, "/clients", url.Values{"admin_token": {adminToken}}, &fetched)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		zap.L().Warn("client roster refresh failed", zap.Error(err))
		return s.clients, err
	}
	if seq < s.clientsSeq {
		zap.L().Debug("discarding stale client roster response", zap.Uint64("seq", seq))
		return s.clients, nil
	}
	s.clientsSeq = seq
	s.clients = fetched
	return s.clients, nil
}

// RefreshLocations re-fetches per-client last known coordinates.
func (s *Service) RefreshLocations(ctx context.Context, adminToken string) ([]model.ClientLocation, error) {
	seq := s.beginFetch()

	var fetched []model.ClientLocation
	err := s.getJSON(ctx, "/clients/locations", url.Values{"admin_token": {adminToken}}, &fetched)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		zap.L().Warn("location refresh failed", zap.Error(err))
		return s.locations, err
	}
	if seq < s.locationsSeq {
		zap.L().Debug("discarding stale location response", zap.Uint64("seq", seq))
		return s.locations, nil
	}
	s.locationsSeq = seq
	s.locations = fetched
	return s.locations, nil
}

// RefreshStats re-fetches the dashboard aggregates, scoped to an admin when
// an id is given.
func (s *Service) RefreshStats(ctx context.Context, adminID string) (*model.DeviceStats, error) {
	seq := s.beginFetch()

	query := url.Values{}
	if adminID != "" {
		query.Set("admin_id", adminID)
	}

	var fetched model.DeviceStats
	err := s.getJSON(ctx, "/stats", query, &fetched)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		zap.L().Warn("stats refresh failed", zap.Error(err))
		return s.stats, err
	}
	if seq < s.statsSeq {
		zap.L().Debug("discarding stale stats response", zap.Uint64("seq", seq))
		return s.stats, nil
	}
	s.statsSeq = seq
	s.stats = &fetched
	return s.stats, nil
}

// CreateClient registers a new client record. Input is sanitized and
// validated locally first.
func (s *Service) CreateClient(ctx context.Context, adminToken string, req *model.CreateClientRequest) (*model.Client, error) {
	req.Name = utils.SanitizeName(req.Name)
	req.Phone = utils.SanitizePhone(req.Phone)
	req.Email = utils.SanitizeEmail(req.Email)

	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid client details", err)
	}

	var created model.Client
	if err := s.postJSON(ctx, "/clients", url.Values{"admin_token": {adminToken}}, req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// GenerateCode asks the backend for a fresh registration code, resetting the
// client's registered state.
func (s *Service) GenerateCode(ctx context.Context, adminToken, clientID string) (*model.GenerateCodeResponse, error) {
	var resp model.GenerateCodeResponse
	path := fmt.Sprintf("/clients/%s/generate-code", clientID)
	if err := s.postJSON(ctx, path, url.Values{"admin_token": {adminToken}}, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Lock locks a client's device, optionally replacing the lock-screen message.
func (s *Service) Lock(ctx context.Context, adminToken, clientID, message string) error {
	query := url.Values{"admin_token": {adminToken}}
	if message != "" {
		query.Set("message", message)
	}
	path := fmt.Sprintf("/clients/%s/lock", clientID)
	var resp model.ActionResponse
	return s.postJSON(ctx, path, query, nil, &resp)
}

// Unlock unlocks a client's device.
func (s *Service) Unlock(ctx context.Context, adminToken, clientID string) error {
	path := fmt.Sprintf("/clients/%s/unlock", clientID)
	var resp model.ActionResponse
	return s.postJSON(ctx, path, url.Values{"admin_token": {adminToken}}, nil, &resp)
}

func (s *Service) beginFetch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSeq++
	return s.nextSeq
}

func (s *Service) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	return s.doJSON(ctx, http.MethodGet, path, query, nil, out)
}

func (s *Service) postJSON(ctx context.Context, path string, query url.Values, body, out interface{}) error {
	return s.doJSON(ctx, http.MethodPost, path, query, body, out)
}

func (s *Service) doJSON(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	endpoint := s.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return appErrors.NewAppError(appErrors.CodeNetwork, "Could not encode request", err)
		}
		reader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return appErrors.NewAppError(appErrors.CodeNetwork, "Could not build request", err)
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("X-Request-ID", uuid.New().String())

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return appErrors.NewAppError(appErrors.CodeNetwork,
			fmt.Sprintf("Could not reach the server at %s", endpoint), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		message := strings.TrimSpace(string(raw))
		if message == "" {
			message = http.StatusText(resp.StatusCode)
		}
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			return appErrors.NewAppError(appErrors.CodeSession, message, appErrors.ErrSessionExpired)
		}
		return appErrors.NewAppError(appErrors.CodeHTTP,
			fmt.Sprintf("%s (HTTP %d via %s)", message, resp.StatusCode, endpoint), nil)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return appErrors.NewAppError(appErrors.CodeBadResponse,
			fmt.Sprintf("The server returned a malformed response (via %s)", endpoint), err)
	}

	return nil
}
