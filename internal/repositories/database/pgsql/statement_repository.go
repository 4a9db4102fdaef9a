package pgsql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/SscSPs/bank_statements_svc/internal/apperrors"
	"github.com/SscSPs/bank_statements_svc/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_statements_svc/internal/core/ports/repositories"
	"github.com/SscSPs/bank_statements_svc/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxStatementRepository struct {
	pool *pgxpool.Pool
}

// NewStatementRepository creates a new repository for statement data.
func NewStatementRepository(pool *pgxpool.Pool) portsrepo.StatementRepository {
	return &PgxStatementRepository{pool: pool}
}

// Ensure PgxStatementRepository implements portsrepo.StatementRepository
var _ portsrepo.StatementRepository = (*PgxStatementRepository)(nil)

const statementColumns = `statement_id, account_id, account_iban, account_name, account_email,
	year, month, date_start, date_end, transactions, total_incoming, total_outgoing,
	created_at, last_updated_at`

// toModelStatement converts a domain.Statement for DB storage.
func toModelStatement(d domain.Statement) (models.Statement, error) {
	txns, err := json.Marshal(d.Transactions)
	if err != nil {
		return models.Statement{}, fmt.Errorf("failed to marshal transactions for statement %s: %w", d.StatementID, err)
	}
	return models.Statement{
		StatementID:   d.StatementID,
		AccountID:     d.Account.ID,
		AccountIBAN:   d.Account.IBAN,
		AccountName:   d.Account.Name,
		AccountEmail:  d.Account.Email,
		Year:          d.Year,
		Month:         d.Month,
		DateStart:     d.DateStart,
		DateEnd:       d.DateEnd,
		Transactions:  txns,
		TotalIncoming: d.TotalIncoming,
		TotalOutgoing: d.TotalOutgoing,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			LastUpdatedAt: d.LastUpdatedAt,
		},
	}, nil
}

// toDomainStatement converts a DB row back into a domain.Statement.
func toDomainStatement(m models.Statement) (domain.Statement, error) {
	var txns []domain.StatementTransaction
	if len(m.Transactions) > 0 {
		if err := json.Unmarshal(m.Transactions, &txns); err != nil {
			return domain.Statement{}, fmt.Errorf("failed to unmarshal transactions for statement %s: %w", m.StatementID, err)
		}
	}
	return domain.Statement{
		StatementID: m.StatementID,
		Account: domain.AccountSnapshot{
			ID:    m.AccountID,
			IBAN:  m.AccountIBAN,
			Name:  m.AccountName,
			Email: m.AccountEmail,
		},
		Year:          m.Year,
		Month:         m.Month,
		DateStart:     m.DateStart,
		DateEnd:       m.DateEnd,
		Transactions:  txns,
		TotalIncoming: m.TotalIncoming,
		TotalOutgoing: m.TotalOutgoing,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			LastUpdatedAt: m.LastUpdatedAt,
		},
	}, nil
}

func scanStatement(row pgx.Row) (models.Statement, error) {
	var m models.Statement
	var accountID, accountIBAN sql.NullString
	err := row.Scan(
		&m.StatementID,
		&accountID,
		&accountIBAN,
		&m.AccountName,
		&m.AccountEmail,
		&m.Year,
		&m.Month,
		&m.DateStart,
		&m.DateEnd,
		&m.Transactions,
		&m.TotalIncoming,
		&m.TotalOutgoing,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	)
	if err != nil {
		return models.Statement{}, err
	}
	m.AccountID = accountID.String
	m.AccountIBAN = accountIBAN.String
	return m, nil
}

// nullable maps "" to NULL so the partial unique indexes on the owner columns
// only apply where an identifier is present.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (r *PgxStatementRepository) insertStatement(ctx context.Context, q interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}, statement domain.Statement) error {
	m, err := toModelStatement(statement)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO statements (` + statementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err = q.Exec(ctx, query,
		m.StatementID,
		nullable(m.AccountID),
		nullable(m.AccountIBAN),
		m.AccountName,
		m.AccountEmail,
		m.Year,
		m.Month,
		m.DateStart,
		m.DateEnd,
		m.Transactions,
		m.TotalIncoming,
		m.TotalOutgoing,
		m.CreatedAt,
		m.LastUpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique violation
			return fmt.Errorf("%w: statement for owner %s period %d-%02d already exists",
				apperrors.ErrDuplicate, statement.Account.OwnerIdentifier(), statement.Year, statement.Month)
		}
		return fmt.Errorf("failed to save statement %s: %w", m.StatementID, err)
	}
	return nil
}

// SaveStatement inserts a new statement.
func (r *PgxStatementRepository) SaveStatement(ctx context.Context, statement domain.Statement) error {
	return r.insertStatement(ctx, r.pool, statement)
}

// FindStatementByID retrieves a statement by its id.
func (r *PgxStatementRepository) FindStatementByID(ctx context.Context, statementID string) (*domain.Statement, error) {
	query := `SELECT ` + statementColumns + ` FROM statements WHERE statement_id = $1;`

	m, err := scanStatement(r.pool.QueryRow(ctx, query, statementID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find statement by ID %s: %w", statementID, err)
	}

	d, err := toDomainStatement(m)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// FindByOwnerYearMonth retrieves the statement for one owner and period. The
// owner value matches either the IBAN or the legacy account id column.
func (r *PgxStatementRepository) FindByOwnerYearMonth(ctx context.Context, owner string, period domain.YearMonth) (*domain.Statement, error) {
	query := `
		SELECT ` + statementColumns + `
		FROM statements
		WHERE (account_iban = $1 OR account_id = $1) AND year = $2 AND month = $3;
	`
	m, err := scanStatement(r.pool.QueryRow(ctx, query, owner, period.Year, period.Month))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find statement for owner %s period %d-%02d: %w", owner, period.Year, period.Month, err)
	}

	d, err := toDomainStatement(m)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// FindByAccountNameYearMonth retrieves the statement for one account name and
// period.
func (r *PgxStatementRepository) FindByAccountNameYearMonth(ctx context.Context, accountName string, period domain.YearMonth) (*domain.Statement, error) {
	query := `
		SELECT ` + statementColumns + `
		FROM statements
		WHERE account_name = $1 AND year = $2 AND month = $3;
	`
	m, err := scanStatement(r.pool.QueryRow(ctx, query, accountName, period.Year, period.Month))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find statement for account name %s period %d-%02d: %w", accountName, period.Year, period.Month, err)
	}

	d, err := toDomainStatement(m)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ListByIBAN returns all statements for an IBAN, newest period first, with
// optional inclusive from/to period bounds.
func (r *PgxStatementRepository) ListByIBAN(ctx context.Context, iban string, rng domain.MonthRange) ([]domain.Statement, error) {
	query := `SELECT ` + statementColumns + ` FROM statements WHERE account_iban = $1`
	args := []any{iban}

	if rng.From != nil {
		query += fmt.Sprintf(" AND (year > $%d OR (year = $%d AND month >= $%d))", len(args)+1, len(args)+1, len(args)+2)
		args = append(args, rng.From.Year, rng.From.Month)
	}
	if rng.To != nil {
		query += fmt.Sprintf(" AND (year < $%d OR (year = $%d AND month <= $%d))", len(args)+1, len(args)+1, len(args)+2)
		args = append(args, rng.To.Year, rng.To.Month)
	}
	query += " ORDER BY year DESC, month DESC;"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list statements for IBAN %s: %w", iban, err)
	}
	defer rows.Close()

	var statements []domain.Statement
	for rows.Next() {
		m, err := scanStatement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan statement row for IBAN %s: %w", iban, err)
		}
		d, err := toDomainStatement(m)
		if err != nil {
			return nil, err
		}
		statements = append(statements, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating statements for IBAN %s: %w", iban, err)
	}
	return statements, nil
}

// UpdateStatement replaces the provided fields on an existing statement and
// returns the updated row. Nil update fields keep their stored values.
func (r *PgxStatementRepository) UpdateStatement(ctx context.Context, statementID string, update domain.StatementUpdate) (*domain.Statement, error) {
	var txns []byte
	if update.Transactions != nil {
		var err error
		txns, err = json.Marshal(*update.Transactions)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal transactions for statement %s: %w", statementID, err)
		}
	}

	query := `
		UPDATE statements
		SET transactions = COALESCE($2::jsonb, transactions),
		    total_incoming = COALESCE($3, total_incoming),
		    total_outgoing = COALESCE($4, total_outgoing),
		    last_updated_at = now()
		WHERE statement_id = $1
		RETURNING ` + statementColumns + `;
	`
	m, err := scanStatement(r.pool.QueryRow(ctx, query, statementID, txns, update.TotalIncoming, update.TotalOutgoing))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update statement %s: %w", statementID, err)
	}

	d, err := toDomainStatement(m)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// DeleteStatementByID deletes a statement by id.
func (r *PgxStatementRepository) DeleteStatementByID(ctx context.Context, statementID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM statements WHERE statement_id = $1;`, statementID)
	if err != nil {
		return fmt.Errorf("failed to delete statement %s: %w", statementID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ReplaceStatementsForAccount deletes every statement owned by owner and
// inserts the replacements inside one transaction.
func (r *PgxStatementRepository) ReplaceStatementsForAccount(ctx context.Context, owner string, statements []domain.Statement) ([]domain.Statement, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin replace transaction for owner %s: %w", owner, err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `DELETE FROM statements WHERE account_iban = $1 OR account_id = $1;`, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to clear statements for owner %s: %w", owner, err)
	}

	for _, statement := range statements {
		if err := r.insertStatement(ctx, tx, statement); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit replace transaction for owner %s: %w", owner, err)
	}
	return statements, nil
}
