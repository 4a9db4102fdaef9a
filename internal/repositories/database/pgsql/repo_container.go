package pgsql

import (
	portsrepo "github.com/SscSPs/bank_statements_svc/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires every pgsql repository off one shared pool.
func NewRepositoryProvider(pool *pgxpool.Pool) *portsrepo.RepositoryProvider {
	return &portsrepo.RepositoryProvider{
		Statement: NewStatementRepository(pool),
	}
}
