package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"cronwizard/internal/core"
)

var ErrJobNotFound = errors.New("job not found")

// timeLayout is fixed width so created_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Commit validates the job schedule and records the job. It implements core.JobSink.
func (s *Store) Commit(ctx context.Context, job *core.Job) error {
	if _, err := core.ParseCron(job.Cron); err != nil {
		return err
	}
	if job.ID == "" {
		job.ID = core.NewID()
	}
	return s.InsertJob(ctx, job)
}

func (s *Store) InsertJob(ctx context.Context, job *core.Job) error {
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO jobs (id, comment, command, cron, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, job.ID, job.Comment, job.Command, job.Cron, job.CreatedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

func (s *Store) GetJob(ctx context.Context, id string) (*core.Job, error) {
	row := s.DB.QueryRowContext(ctx, `
		SELECT id, comment, command, cron, created_at
		FROM jobs WHERE id = ?
	`, id)
	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return job, nil
}

// ListJobs returns jobs newest first. A non-positive limit returns every job.
func (s *Store) ListJobs(ctx context.Context, limit int) ([]*core.Job, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, comment, command, cron, created_at
		FROM jobs
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}
	defer rows.Close()
	var jobs []*core.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return jobs, nil
}

func (s *Store) DeleteJob(ctx context.Context, id string) error {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM jobs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete job: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrJobNotFound
	}
	return nil
}

func scanJob(scanner interface {
	Scan(dest ...any) error
}) (*core.Job, error) {
	var (
		job       core.Job
		createdAt string
	)
	if err := scanner.Scan(&job.ID, &job.Comment, &job.Command, &job.Cron, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan job: %w", err)
	}
	if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		job.CreatedAt = t
	}
	return &job, nil
}
