package crontab

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"cronwizard/internal/core"
)

const binary = "crontab"

// Entry is one scheduled line of a crontab and the comment right above it.
type Entry struct {
	Comment  string
	Schedule string
	Command  string
}

// Options configure a Sink.
type Options struct {
	// User selects another user's table with crontab -u.
	User string
	// BackupDir receives the daily copies written by Backup.
	BackupDir string
	Runner    Runner
}

// Sink installs jobs into a crontab.
type Sink struct {
	user      string
	backupDir string
	runner    Runner
	logger    *slog.Logger

	// mu serializes read-append-install so concurrent commits keep every entry.
	mu sync.Mutex
}

// New creates a Sink. A nil Runner uses ExecRunner.
func New(opts Options, logger *slog.Logger) *Sink {
	runner := opts.Runner
	if runner == nil {
		runner = ExecRunner{}
	}
	return &Sink{
		user:      opts.User,
		backupDir: opts.BackupDir,
		runner:    runner,
		logger:    logger,
	}
}

func (s *Sink) args(extra ...string) []string {
	if s.user == "" {
		return extra
	}
	return append([]string{"-u", s.user}, extra...)
}

// Read returns the current table. A user without a table has an empty one.
func (s *Sink) Read(ctx context.Context) (string, error) {
	out, err := s.runner.Run(ctx, nil, binary, s.args("-l")...)
	if err != nil {
		var cmdErr *CommandError
		if errors.As(err, &cmdErr) && strings.Contains(cmdErr.Stderr, "no crontab for") {
			return "", nil
		}
		return "", fmt.Errorf("read crontab: %w", err)
	}
	return string(out), nil
}

// BackupPath returns the backup file used for day.
func (s *Sink) BackupPath(day time.Time) string {
	return filepath.Join(s.backupDir, "crontab."+day.Format("20060102"))
}

// Backup copies the current table to the backup file of day. It leaves an
// existing backup for that day untouched and reports created=false.
func (s *Sink) Backup(ctx context.Context, day time.Time) (path string, created bool, err error) {
	if s.backupDir == "" {
		return "", false, errors.New("backup dir is not configured")
	}
	path = s.BackupPath(day)
	if _, err := os.Stat(path); err == nil {
		return path, false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", false, fmt.Errorf("stat backup: %w", err)
	}
	if err := os.MkdirAll(s.backupDir, 0o755); err != nil {
		return "", false, fmt.Errorf("ensure backup dir: %w", err)
	}
	table, err := s.Read(ctx)
	if err != nil {
		return "", false, err
	}
	if err := os.WriteFile(path, []byte(table), 0o600); err != nil {
		return "", false, fmt.Errorf("write backup: %w", err)
	}
	s.logger.Info("crontab backed up", "path", path)
	return path, true, nil
}

// Commit appends the job to the table and installs it. It implements core.JobSink.
func (s *Sink) Commit(ctx context.Context, job *core.Job) error {
	if _, err := core.ParseCron(job.Cron); err != nil {
		return err
	}
	if strings.ContainsAny(job.Command, "\n\r") || strings.ContainsAny(job.Comment, "\n\r") {
		return errors.New("job command and comment must be single lines")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	table, err := s.Read(ctx)
	if err != nil {
		return err
	}
	updated := appendEntry(table, job)
	if _, err := s.runner.Run(ctx, strings.NewReader(updated), binary, s.args("-")...); err != nil {
		return fmt.Errorf("install crontab: %w", err)
	}
	s.logger.Info("crontab entry installed", "job_id", job.ID, "cron", job.Cron)
	return nil
}

// List parses the current table.
func (s *Sink) List(ctx context.Context) ([]Entry, error) {
	table, err := s.Read(ctx)
	if err != nil {
		return nil, err
	}
	return Parse(table), nil
}

func appendEntry(table string, job *core.Job) string {
	var b strings.Builder
	b.WriteString(table)
	if table != "" && !strings.HasSuffix(table, "\n") {
		b.WriteString("\n")
	}
	if job.Comment != "" {
		b.WriteString("# " + job.Comment + "\n")
	}
	b.WriteString(job.Line() + "\n")
	return b.String()
}

// Parse splits a crontab into entries. Environment assignments and comments
// not followed by a schedule line are skipped.
func Parse(table string) []Entry {
	var (
		entries []Entry
		comment string
	)
	for _, raw := range strings.Split(table, "\n") {
		line := strings.TrimSpace(raw)
		switch {
		case line == "":
			comment = ""
			continue
		case strings.HasPrefix(line, "#"):
			comment = strings.TrimSpace(strings.TrimPrefix(line, "#"))
			continue
		}
		n := 5
		if strings.HasPrefix(line, "@") {
			n = 1
		}
		fields, rest := cutFields(line, n)
		if len(fields) < n || rest == "" || strings.Contains(fields[0], "=") {
			comment = ""
			continue
		}
		entries = append(entries, Entry{
			Comment:  comment,
			Schedule: strings.Join(fields, " "),
			Command:  rest,
		})
		comment = ""
	}
	return entries
}

// cutFields returns the first n whitespace separated fields of line and the
// remainder with its inner spacing preserved.
func cutFields(line string, n int) ([]string, string) {
	fields := make([]string, 0, n)
	rest := line
	for len(fields) < n {
		rest = strings.TrimLeft(rest, " \t")
		if rest == "" {
			break
		}
		end := strings.IndexAny(rest, " \t")
		if end < 0 {
			fields = append(fields, rest)
			rest = ""
			break
		}
		fields = append(fields, rest[:end])
		rest = rest[end:]
	}
	return fields, strings.TrimSpace(rest)
}
