package services

import (
	portsclients "github.com/SscSPs/bank_statements_svc/internal/core/ports/clients"
	portsrepo "github.com/SscSPs/bank_statements_svc/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bank_statements_svc/internal/core/ports/services"
	"github.com/SscSPs/bank_statements_svc/internal/platform/config"
)

// NewContainer wires the application services together.
func NewContainer(repos *portsrepo.RepositoryProvider, partners portsclients.PartnerServices, cfg *config.Config) *portssvc.ServiceContainer {
	generation := NewGenerationService(repos.Statement, partners, cfg.BulkTargetPreviousMonth, cfg.DefaultCurrency)
	statement := NewStatementService(repos.Statement, generation, cfg.AutoGenerateOnMiss)

	return &portssvc.ServiceContainer{
		Statement:  statement,
		Generation: generation,
	}
}
