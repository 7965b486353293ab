package core

import (
	"context"
	"fmt"
	"time"
)

// Job is a finished schedule paired with the command it runs.
type Job struct {
	ID        string
	Comment   string
	Command   string
	Cron      string
	CreatedAt time.Time
}

// Line renders the job as a crontab entry without its comment.
func (j *Job) Line() string {
	return j.Cron + " " + j.Command
}

// JobSink accepts finished jobs and persists them into a job list.
type JobSink interface {
	Commit(ctx context.Context, job *Job) error
}

// MultiSink commits a job to several sinks in order, stopping at the first failure.
type MultiSink struct {
	sinks []JobSink
}

func NewMultiSink(sinks ...JobSink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

func (m *MultiSink) Commit(ctx context.Context, job *Job) error {
	for i, s := range m.sinks {
		if err := s.Commit(ctx, job); err != nil {
			return fmt.Errorf("sink %d: %w", i, err)
		}
	}
	return nil
}

// NoOpSink accepts and drops every job.
type NoOpSink struct{}

func (n *NoOpSink) Commit(ctx context.Context, job *Job) error {
	return nil
}
