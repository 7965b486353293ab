package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cronwizard/internal/core"
	"cronwizard/internal/wizard"
)

const previewCount = 3

const noticeNeverRuns = "That schedule never matches a real date (for example the 31st of February). Let's try again."

// Console is the terminal the wizard runs on.
type Console interface {
	wizard.UserIO
	// Highlight styles text for the final summary.
	Highlight(text string) string
}

// Backuper copies the current job list aside before it is modified.
type Backuper interface {
	Backup(ctx context.Context, day time.Time) (path string, created bool, err error)
}

// Options configure a Runner.
type Options struct {
	Console Console
	Sink    core.JobSink
	// Backup is optional; nil skips the backup step.
	Backup   Backuper
	BinDir   string
	LogDir   string
	Location *time.Location
	Now      func() time.Time
	Logger   *slog.Logger
}

// Runner walks the user through creating one job and commits it.
type Runner struct {
	console  Console
	session  *wizard.Session
	sink     core.JobSink
	backup   Backuper
	binDir   string
	logDir   string
	location *time.Location
	now      func() time.Time
	logger   *slog.Logger
}

// New creates a Runner.
func New(opts Options) *Runner {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	location := opts.Location
	if location == nil {
		location = time.Local
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Runner{
		console:  opts.Console,
		session:  wizard.NewSession(opts.Console, logger),
		sink:     opts.Sink,
		backup:   opts.Backup,
		binDir:   opts.BinDir,
		logDir:   opts.LogDir,
		location: location,
		now:      now,
		logger:   logger,
	}
}

// Run creates a job interactively and hands it to the sink. Nothing is
// committed unless every step completes.
func (r *Runner) Run(ctx context.Context) (*core.Job, error) {
	r.console.Say("Hit ctrl-c at any point to quit, then re-run to start over.")
	r.console.Say("")

	if r.backup != nil {
		path, created, err := r.backup.Backup(ctx, r.now())
		if err != nil {
			return nil, fmt.Errorf("back up crontab: %w", err)
		}
		if created {
			r.console.Say("Copied crontab to " + path)
		} else {
			r.console.Say("A copy of crontab from today already exists at:")
			r.console.Say(path)
		}
		r.console.Say("")
	}

	title, err := r.askTitle(ctx)
	if err != nil {
		return nil, err
	}
	job := &core.Job{
		ID:      core.NewID(),
		Comment: commentFor(title),
	}
	r.console.Say("#" + job.Comment)
	r.console.Say("")

	job.Command, err = r.askCommand(ctx)
	if err != nil {
		return nil, err
	}

	runs, err := r.askSchedule(ctx, job)
	if err != nil {
		return nil, err
	}

	r.console.Say("")
	r.console.Say("Your cron job is:")
	r.console.Say(r.console.Highlight("# " + job.Comment + "\n" + job.Line()))
	r.console.Say("Next runs:")
	for _, t := range runs {
		r.console.Say("  " + t.Format("Mon 2006-01-02 15:04 MST"))
	}

	job.CreatedAt = r.now().UTC()
	if err := r.sink.Commit(ctx, job); err != nil {
		return nil, fmt.Errorf("commit job: %w", err)
	}
	r.logger.Info("job committed", "job_id", job.ID, "cron", job.Cron)

	r.console.Say("")
	r.console.Say(`Done! Please double check your job for any typos using "crontab -l".`)
	return job, nil
}

// askSchedule repeats the schedule step until the expression parses, and
// returns the upcoming run times.
func (r *Runner) askSchedule(ctx context.Context, job *core.Job) ([]time.Time, error) {
	for {
		expr, err := r.session.Choose(ctx)
		if err != nil {
			return nil, err
		}
		runs, err := core.Preview(expr.String(), r.now().In(r.location), previewCount)
		if err != nil {
			r.logger.Debug("schedule rejected", "expr", expr.String(), "err", err)
			r.console.Say(fmt.Sprintf("That schedule is not valid (%v). Let's try again.", err))
			continue
		}
		if len(runs) == 0 {
			r.logger.Debug("schedule never fires", "expr", expr.String())
			r.console.Say(noticeNeverRuns)
			continue
		}
		job.Cron = expr.String()
		return runs, nil
	}
}
