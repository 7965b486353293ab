package wizard

import (
	"context"
	"errors"
	"log/slog"
	"strings"
)

const (
	askEntryMode = "Do you want to enter the cron schedule using cron's syntax?\n" +
		"Or do you want to be walked through it? (cron or walk-through) c|w"
	askLiteral  = "Enter the schedule in the form (without brackets) <* * * * *>"
	noticeIntro = "Enter 'restart' at any point to restart the walk-through."
)

// resolveOrder asks about the day of week before the day of month so the
// day-of-month questions can mention the combination.
var resolveOrder = [numFields]FieldKind{Minute, Hour, DayOfWeek, DayOfMonth, Month}

// Session drives the five field builders and restarts on request.
type Session struct {
	io      UserIO
	builder *Builder
	logger  *slog.Logger
}

// NewSession creates a session. A nil logger discards log output.
func NewSession(io UserIO, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Session{
		io:      io,
		builder: NewBuilder(io),
		logger:  logger,
	}
}

// Choose lets the user type a raw expression or take the walk-through.
// A typed expression is returned as entered, minus trailing whitespace.
func (s *Session) Choose(ctx context.Context) (Expression, error) {
	answer, err := s.io.Ask(ctx, askEntryMode)
	if err != nil {
		return Expression{}, err
	}
	if strings.ToLower(strings.TrimSpace(answer)) != "c" {
		return s.Build(ctx)
	}
	raw, err := s.io.Ask(ctx, askLiteral)
	if err != nil {
		return Expression{}, err
	}
	raw = strings.TrimRight(raw, " \t\r\n")
	s.logger.Debug("literal schedule entered", "expr", raw)
	return Literal(raw), nil
}

// Build runs the walk-through until every field resolves. Restarts are
// unlimited; only errors from the UserIO end it early.
func (s *Session) Build(ctx context.Context) (Expression, error) {
	for attempt := 1; ; attempt++ {
		expr, err := s.attempt(ctx)
		if errors.Is(err, ErrRestart) {
			s.logger.Debug("walk-through restarted", "attempt", attempt)
			continue
		}
		if err != nil {
			return Expression{}, err
		}
		s.logger.Debug("schedule built", "expr", expr.String(), "attempts", attempt)
		return expr, nil
	}
}

// attempt resolves every field once, starting from a fresh state.
func (s *Session) attempt(ctx context.Context) (Expression, error) {
	s.io.Say(noticeIntro)
	state := NewState()
	for _, kind := range resolveOrder {
		if err := ctx.Err(); err != nil {
			return Expression{}, err
		}
		c, err := s.builder.Resolve(ctx, kind, state.DayContext())
		if err != nil {
			return Expression{}, err
		}
		state.Set(kind, c)
	}
	return NewExpression(state), nil
}
