package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// CreateJobParams describes a new job. AccountID and Domains are optional
// and only set for issuance jobs.
type CreateJobParams struct {
	Kind      string
	AccountID *int64
	Domains   *string
}

// JobRepository persists tool invocation records.
type JobRepository interface {
	Create(ctx context.Context, params CreateJobParams) (Job, error)
	Finalize(ctx context.Context, id int64, status string, finishedAt time.Time, stdout, stderr string) error
	GetByID(ctx context.Context, id int64) (Job, error)
	ListRecent(ctx context.Context, limit int) ([]Job, error)
}

type jobRepository struct {
	db *sql.DB
}

// NewJobRepository creates a SQLite-backed job repository.
func NewJobRepository(db *sql.DB) JobRepository {
	return &jobRepository{db: db}
}

func (r *jobRepository) Create(ctx context.Context, params CreateJobParams) (Job, error) {
	now := time.Now().UTC()

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO jobs (account_id, kind, domains, status, created_at) VALUES (?, ?, ?, ?, ?)`,
		params.AccountID, params.Kind, params.Domains, JobStatusRunning, now.Format(time.RFC3339),
	)
	if err != nil {
		return Job{}, fmt.Errorf("insert job: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return Job{}, fmt.Errorf("job insert id: %w", err)
	}

	return Job{
		ID:        id,
		AccountID: params.AccountID,
		Kind:      params.Kind,
		Domains:   params.Domains,
		Status:    JobStatusRunning,
		CreatedAt: now,
	}, nil
}

// Finalize records the job outcome in a single UPDATE so a job never ends
// up with a terminal status but missing output.
func (r *jobRepository) Finalize(ctx context.Context, id int64, status string, finishedAt time.Time, stdout, stderr string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE jobs SET status = ?, finished_at = ?, stdout = ?, stderr = ? WHERE id = ?`,
		status, finishedAt.UTC().Format(time.RFC3339), stdout, stderr, id,
	)
	if err != nil {
		return fmt.Errorf("finalize job %d: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finalize job %d: %w", id, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *jobRepository) GetByID(ctx context.Context, id int64) (Job, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, account_id, kind, domains, status, created_at, finished_at, stdout, stderr
		 FROM jobs WHERE id = ?`, id)

	job, err := scanJob(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Job{}, ErrNotFound
	}
	if err != nil {
		return Job{}, fmt.Errorf("get job %d: %w", id, err)
	}
	return job, nil
}

func (r *jobRepository) ListRecent(ctx context.Context, limit int) ([]Job, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, account_id, kind, domains, status, created_at, finished_at, stdout, stderr
		 FROM jobs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []Job
	for rows.Next() {
		job, err := scanJob(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate jobs: %w", err)
	}
	return jobs, nil
}

func scanJob(scan func(dest ...any) error) (Job, error) {
	var (
		job        Job
		createdAt  string
		finishedAt sql.NullString
	)
	if err := scan(&job.ID, &job.AccountID, &job.Kind, &job.Domains,
		&job.Status, &createdAt, &finishedAt, &job.Stdout, &job.Stderr); err != nil {
		return Job{}, err
	}

	ts, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return Job{}, fmt.Errorf("parse created_at: %w", err)
	}
	job.CreatedAt = ts

	if finishedAt.Valid {
		ts, err := time.Parse(time.RFC3339, finishedAt.String)
		if err != nil {
			return Job{}, fmt.Errorf("parse finished_at: %w", err)
		}
		job.FinishedAt = &ts
	}

	return job, nil
}
