package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// AccountRepository persists Let's Encrypt accounts.
type AccountRepository interface {
	Create(ctx context.Context, name, email string, staging bool) (Account, error)
	GetByID(ctx context.Context, id int64) (Account, error)
	ListAll(ctx context.Context) ([]Account, error)
}

type accountRepository struct {
	db *sql.DB
}

// NewAccountRepository creates a SQLite-backed account repository.
func NewAccountRepository(db *sql.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(ctx context.Context, name, email string, staging bool) (Account, error) {
	now := time.Now().UTC()

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (name, email, staging, created_at) VALUES (?, ?, ?, ?)`,
		name, email, boolToInt(staging), now.Format(time.RFC3339),
	)
	if err != nil {
		return Account{}, fmt.Errorf("insert account: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return Account{}, fmt.Errorf("account insert id: %w", err)
	}

	return Account{
		ID:        id,
		Name:      name,
		Email:     email,
		Staging:   staging,
		CreatedAt: now,
	}, nil
}

func (r *accountRepository) GetByID(ctx context.Context, id int64) (Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, staging, created_at FROM accounts WHERE id = ?`, id)

	account, err := scanAccount(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Account{}, ErrNotFound
	}
	if err != nil {
		return Account{}, fmt.Errorf("get account %d: %w", id, err)
	}
	return account, nil
}

func (r *accountRepository) ListAll(ctx context.Context) ([]Account, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, email, staging, created_at FROM accounts ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []Account
	for rows.Next() {
		account, err := scanAccount(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}
	return accounts, nil
}

func scanAccount(scan func(dest ...any) error) (Account, error) {
	var (
		account   Account
		staging   int
		createdAt string
	)
	if err := scan(&account.ID, &account.Name, &account.Email, &staging, &createdAt); err != nil {
		return Account{}, err
	}
	account.Staging = staging != 0

	ts, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return Account{}, fmt.Errorf("parse created_at: %w", err)
	}
	account.CreatedAt = ts

	return account, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
