package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/SscSPs/bank_statements_svc/internal/apperrors"
	"github.com/SscSPs/bank_statements_svc/internal/core/domain"
	portsclients "github.com/SscSPs/bank_statements_svc/internal/core/ports/clients"
	"github.com/SscSPs/bank_statements_svc/internal/platform/config"
)

// HTTPPartnerServices talks to the real accounts, transactions and
// notifications microservices. Every call carries the configured
// seconds-scale timeout through the shared http.Client.
type HTTPPartnerServices struct {
	accountsBase      string
	transactionsBase  string
	notificationsBase string
	client            *http.Client
	logger            *slog.Logger
}

// NewHTTPPartnerServices creates the http strategy from configuration.
func NewHTTPPartnerServices(cfg *config.Config, logger *slog.Logger) *HTTPPartnerServices {
	return &HTTPPartnerServices{
		accountsBase:      cfg.AccountsBaseURL,
		transactionsBase:  cfg.TransactionsBaseURL,
		notificationsBase: cfg.NotificationsBaseURL,
		client:            &http.Client{Timeout: cfg.ClientTimeout},
		logger:            logger,
	}
}

var _ portsclients.PartnerServices = (*HTTPPartnerServices)(nil)

func (s *HTTPPartnerServices) getJSON(ctx context.Context, url string, token string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: building request for %s: %v", apperrors.ErrUpstreamFetch, url, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Warn("Partner request failed", slog.String("url", url), slog.String("error", err.Error()))
		return fmt.Errorf("%w: %s: %v", apperrors.ErrUpstreamFetch, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		s.logger.Warn("Partner request returned non-2xx", slog.String("url", url), slog.Int("status", resp.StatusCode))
		return fmt.Errorf("%w: %s returned status %d", apperrors.ErrUpstreamFetch, url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading response from %s: %v", apperrors.ErrUpstreamFetch, url, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decoding response from %s: %v", apperrors.ErrUpstreamFetch, url, err)
	}
	return nil
}

// GetAccount fetches one account directory record.
func (s *HTTPPartnerServices) GetAccount(ctx context.Context, id string) (*domain.AccountInfo, error) {
	var account domain.AccountInfo
	if err := s.getJSON(ctx, fmt.Sprintf("%s/accounts/%s", s.accountsBase, id), "", &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// GetAllAccounts fetches the whole account directory.
func (s *HTTPPartnerServices) GetAllAccounts(ctx context.Context) ([]domain.AccountInfo, error) {
	var accounts []domain.AccountInfo
	if err := s.getJSON(ctx, s.accountsBase+"/accounts", "", &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// GetTransactions fetches the raw transaction history for an owner,
// forwarding the caller's bearer token when present. The heterogeneous wire
// shape is normalized by domain.RawTransaction's decoder and never leaves
// this boundary.
func (s *HTTPPartnerServices) GetTransactions(ctx context.Context, owner string, token string) ([]domain.RawTransaction, error) {
	var transactions []domain.RawTransaction
	url := fmt.Sprintf("%s/transactions/user/%s", s.transactionsBase, owner)
	if err := s.getJSON(ctx, url, token, &transactions); err != nil {
		return nil, err
	}
	return transactions, nil
}

// SendNotification posts a notification payload. Failures are returned but
// callers treat delivery as best-effort.
func (s *HTTPPartnerServices) SendNotification(ctx context.Context, notification domain.Notification) error {
	payload, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.notificationsBase+"/notifications", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: building notification request: %v", apperrors.ErrUpstreamFetch, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: notifications service: %v", apperrors.ErrUpstreamFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: notifications service returned status %d", apperrors.ErrUpstreamFetch, resp.StatusCode)
	}
	return nil
}
