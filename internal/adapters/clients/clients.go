// Package clients provides the partner microservice strategies. The
// selection (mock vs http) happens once at startup and the chosen
// implementation is injected wherever it is needed.
package clients

import (
	"log/slog"

	portsclients "github.com/SscSPs/bank_statements_svc/internal/core/ports/clients"
	"github.com/SscSPs/bank_statements_svc/internal/platform/config"
)

// NewPartnerServices builds the partner services strategy named by the
// configuration.
func NewPartnerServices(cfg *config.Config, logger *slog.Logger) portsclients.PartnerServices {
	if cfg.ClientStrategy == "http" {
		return NewHTTPPartnerServices(cfg, logger)
	}
	return NewMockPartnerServices(logger)
}
