package wizard

import (
	"context"
	"errors"
	"strconv"
	"strings"
)

// ErrRestart is returned when the user asks to start the walk-through over,
// either by typing "restart" or by giving an answer the wizard does not know.
var ErrRestart = errors.New("restart requested")

const restartToken = "restart"

const (
	noticeStartingOver = "Starting over."
	noticeYesNo        = "Your options are [y], [n], or [restart]. Restarting due to bad input."
	noticeMode         = "Your options are [i], [s], or [restart]. Restarting due to bad input."
)

// Day-of-month prompt variants used once a day-of-week constraint exists.
const (
	askPerWeekOnly = "Since you have specified a per-week schedule, do you want this to ONLY run on a per-week schedule?\n" +
		"(as opposed to a per-week AND per-month schedule) y|n"
	notePerWeekInterval = "Keep in mind that since you have specified an interval of the week for the job to run,\n" +
		"most cron daemons will call the job only when the schedule matches BOTH your weekly interval\n" +
		"AND your monthly scheduled time. For example: running every other weekday only if it is ALSO the 5th day of the month."
	noteDayOfWeekOr = "Since you have specified day/days of the week for this to run, this will run on\n" +
		"the day/days of the week you chose OR the day/days of the month you choose now."
	noteDayOfWeekAnd = "Since you have specified a week interval for this to run, this will run on\n" +
		"the day/days of the week you chose only if it is ALSO the day of the month you choose now."
)

// DayContext tells the day-of-month step what was chosen for the day of week.
// It only changes the wording of the questions.
type DayContext struct {
	DayOfWeekSet bool
	Interval     bool
}

// Builder walks the user through the decision tree of a single field.
type Builder struct {
	io UserIO
}

// NewBuilder creates a builder that talks to the user through io.
func NewBuilder(io UserIO) *Builder {
	return &Builder{io: io}
}

// Resolve asks the questions for one field and returns its constraint.
// It returns ErrRestart when the user wants to start over; any other error
// comes from the UserIO.
func (b *Builder) Resolve(ctx context.Context, kind FieldKind, day DayContext) (Constraint, error) {
	spec := kind.Spec()
	prompts := promptsFor(spec, kind == DayOfMonth, day)

	answer, err := b.choice(ctx, prompts.every)
	if err != nil {
		return Constraint{}, err
	}
	switch answer {
	case "y":
		return All(), nil
	case "n":
	default:
		return Constraint{}, b.restart(answer, noticeYesNo)
	}

	answer, err = b.choice(ctx, spec.AskSingle)
	if err != nil {
		return Constraint{}, err
	}
	switch answer {
	case "y":
		v, err := b.number(ctx, prompts.value, spec.Contains)
		if err != nil {
			return Constraint{}, err
		}
		return Single(v), nil
	case "n":
	default:
		return Constraint{}, b.restart(answer, noticeYesNo)
	}

	answer, err = b.choice(ctx, spec.AskMode)
	if err != nil {
		return Constraint{}, err
	}
	switch answer {
	case "i":
		step, err := b.number(ctx, prompts.interval, spec.ContainsStep)
		if err != nil {
			return Constraint{}, err
		}
		return Interval(step), nil
	case "s":
		values, err := b.list(ctx, prompts.list, spec.Contains)
		if err != nil {
			return Constraint{}, err
		}
		return List(values...), nil
	default:
		return Constraint{}, b.restart(answer, noticeMode)
	}
}

type fieldPrompts struct {
	every    string
	value    string
	interval string
	list     string
}

func promptsFor(spec FieldSpec, dayOfMonth bool, day DayContext) fieldPrompts {
	p := fieldPrompts{
		every:    spec.AskEvery,
		value:    spec.AskValue,
		interval: spec.AskInterval,
		list:     spec.AskList,
	}
	if !dayOfMonth || !day.DayOfWeekSet {
		return p
	}
	p.every = askPerWeekOnly
	note := noteDayOfWeekOr
	if day.Interval {
		p.every += "\n" + notePerWeekInterval
		note = noteDayOfWeekAnd
	}
	p.value += "\n" + note
	p.interval += "\n" + note
	p.list += "\n" + note
	return p
}

func (b *Builder) choice(ctx context.Context, question string) (string, error) {
	answer, err := b.io.Ask(ctx, question)
	if err != nil {
		return "", err
	}
	return strings.ToLower(strings.TrimSpace(answer)), nil
}

// number re-asks the same question until it gets an accepted integer.
func (b *Builder) number(ctx context.Context, question string, accept func(int) bool) (int, error) {
	for {
		raw, err := b.io.Ask(ctx, question)
		if err != nil {
			return 0, err
		}
		raw = strings.TrimSpace(raw)
		if isRestart(raw) {
			return 0, b.restart(restartToken, "")
		}
		v, err := strconv.Atoi(raw)
		if err == nil && accept(v) {
			return v, nil
		}
	}
}

// list re-asks the same question until every comma separated token is accepted.
func (b *Builder) list(ctx context.Context, question string, accept func(int) bool) ([]int, error) {
	for {
		raw, err := b.io.Ask(ctx, question)
		if err != nil {
			return nil, err
		}
		raw = strings.TrimSpace(raw)
		if isRestart(raw) {
			return nil, b.restart(restartToken, "")
		}
		if values, ok := parseList(raw, accept); ok {
			return values, nil
		}
	}
}

func parseList(raw string, accept func(int) bool) ([]int, bool) {
	tokens := strings.Split(raw, ",")
	values := make([]int, 0, len(tokens))
	for _, tok := range tokens {
		v, err := strconv.Atoi(strings.TrimSpace(tok))
		if err != nil || !accept(v) {
			return nil, false
		}
		values = append(values, v)
	}
	return values, true
}

func (b *Builder) restart(answer, badInput string) error {
	if isRestart(answer) {
		b.io.Say(noticeStartingOver)
	} else {
		b.io.Say(badInput)
	}
	return ErrRestart
}

func isRestart(s string) bool {
	return strings.EqualFold(s, restartToken)
}
