package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/econsim/clearing/internal/domain"
	"github.com/econsim/clearing/internal/usecase"
)

// JournalRepository archives transfers and their legs in PostgreSQL. The
// in-process ledger stays authoritative; the journal is the durable audit
// trail behind it.
type JournalRepository struct {
	pool    *pgxpool.Pool
	retrier *Retrier
}

// NewJournalRepository creates a new JournalRepository.
func NewJournalRepository(pool *pgxpool.Pool, logger zerolog.Logger) *JournalRepository {
	return &JournalRepository{
		pool:    pool,
		retrier: NewRetrier(logger),
	}
}

// CreateTransfer archives one transfer with all its legs atomically.
func (r *JournalRepository) CreateTransfer(ctx context.Context, transfer *domain.Transfer, legs []*domain.JournalEntry) error {
	return r.retrier.Retry(ctx, func() error {
		tx, err := r.pool.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		_, err = tx.Exec(ctx, `
			INSERT INTO transfers (id, from_account_id, to_account_id, currency, amount, subject, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			transfer.ID,
			transfer.FromAccountID,
			transfer.ToAccountID,
			transfer.Currency,
			transfer.Amount.String(),
			transfer.Subject,
			transfer.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert transfer: %w", err)
		}

		for _, leg := range legs {
			_, err = tx.Exec(ctx, `
				INSERT INTO journal_entries (id, transfer_id, account_id, amount, previous_balance, current_balance, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				leg.ID,
				leg.TransferID,
				leg.AccountID,
				leg.Amount.String(),
				leg.PreviousBalance.String(),
				leg.CurrentBalance.String(),
				leg.CreatedAt,
			)
			if err != nil {
				return fmt.Errorf("insert journal entry: %w", err)
			}
		}

		return tx.Commit(ctx)
	})
}

// GetTransfer retrieves an archived transfer by ID.
func (r *JournalRepository) GetTransfer(ctx context.Context, id string) (*domain.Transfer, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, from_account_id, to_account_id, currency, amount::text, subject, created_at
		FROM transfers WHERE id = $1`, id)

	transfer, err := scanTransfer(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrTransferNotFound
	}
	return transfer, err
}

// ListByAccount lists archived transfers touching one account as endpoint.
func (r *JournalRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Transfer, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, from_account_id, to_account_id, currency, amount::text, subject, created_at
		FROM transfers
		WHERE from_account_id = $1 OR to_account_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, accountID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transfers []*domain.Transfer
	for rows.Next() {
		transfer, err := scanTransfer(rows)
		if err != nil {
			return nil, err
		}
		transfers = append(transfers, transfer)
	}

	return transfers, rows.Err()
}

// ListEntriesByTransfer lists all archived legs of one transfer.
func (r *JournalRepository) ListEntriesByTransfer(ctx context.Context, transferID string) ([]*domain.JournalEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, transfer_id, account_id, amount::text, previous_balance::text, current_balance::text, created_at
		FROM journal_entries
		WHERE transfer_id = $1
		ORDER BY created_at, id`, transferID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.JournalEntry
	for rows.Next() {
		var (
			entry                 domain.JournalEntry
			amount, prev, current string
		)
		if err := rows.Scan(&entry.ID, &entry.TransferID, &entry.AccountID, &amount, &prev, &current, &entry.CreatedAt); err != nil {
			return nil, err
		}
		if entry.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, err
		}
		if entry.PreviousBalance, err = decimal.NewFromString(prev); err != nil {
			return nil, err
		}
		if entry.CurrentBalance, err = decimal.NewFromString(current); err != nil {
			return nil, err
		}
		entries = append(entries, &entry)
	}

	return entries, rows.Err()
}

func scanTransfer(row pgx.Row) (*domain.Transfer, error) {
	var (
		transfer domain.Transfer
		amount   string
	)
	err := row.Scan(
		&transfer.ID,
		&transfer.FromAccountID,
		&transfer.ToAccountID,
		&transfer.Currency,
		&amount,
		&transfer.Subject,
		&transfer.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if transfer.Amount, err = decimal.NewFromString(amount); err != nil {
		return nil, err
	}

	return &transfer, nil
}

var _ usecase.JournalRepository = (*JournalRepository)(nil)
