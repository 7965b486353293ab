package wizard

import (
	"context"
	"io"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_Every(t *testing.T) {
	t.Parallel()

	for _, kind := range Fields() {
		user := newScripted(" Y ")
		c, err := NewBuilder(user).Resolve(context.Background(), kind, DayContext{})
		require.NoError(t, err)
		assert.Equal(t, All(), c, kind.String())
	}
}

func TestResolve_SingleEveryValueOfEveryField(t *testing.T) {
	t.Parallel()

	for _, kind := range Fields() {
		spec := kind.Spec()
		for v := spec.Min; v <= spec.Max; v++ {
			user := newScripted("n", "y", strconv.Itoa(v))
			c, err := NewBuilder(user).Resolve(context.Background(), kind, DayContext{})
			require.NoError(t, err)
			require.Equal(t, Single(v), c)

			expr, err := FromConstraints(map[FieldKind]Constraint{kind: c})
			require.NoError(t, err)
			fields := splitFields(expr.String())
			assert.Equal(t, strconv.Itoa(v), fields[kind])
		}
	}
}

func TestResolve_OutOfDomainReasksSameQuestion(t *testing.T) {
	t.Parallel()

	user := newScripted("n", "y", "25", "seven", "7")
	c, err := NewBuilder(user).Resolve(context.Background(), Hour, DayContext{})
	require.NoError(t, err)
	assert.Equal(t, Single(7), c)

	spec := Hour.Spec()
	assert.Equal(t, []string{spec.AskEvery, spec.AskSingle, spec.AskValue, spec.AskValue, spec.AskValue}, user.asked)
	assert.Empty(t, user.said)
}

func TestResolve_Interval(t *testing.T) {
	t.Parallel()

	user := newScripted("n", "n", "I", "0", "60", "15")
	c, err := NewBuilder(user).Resolve(context.Background(), Minute, DayContext{})
	require.NoError(t, err)
	assert.Equal(t, Interval(15), c)
	assert.Equal(t, "*/15", c.String())
	assert.Len(t, user.asked, 6)
}

func TestResolve_List(t *testing.T) {
	t.Parallel()

	user := newScripted("n", "n", "s", "3,1,2,1")
	c, err := NewBuilder(user).Resolve(context.Background(), Minute, DayContext{})
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1, 2}, c.Values)
	assert.Equal(t, "3,1,2", c.String())
}

func TestResolve_ListWithBadTokenReasks(t *testing.T) {
	t.Parallel()

	user := newScripted("n", "n", "s", "1,13", "1,,2", "12, 1")
	c, err := NewBuilder(user).Resolve(context.Background(), Month, DayContext{})
	require.NoError(t, err)
	assert.Equal(t, List(12, 1), c)

	spec := Month.Spec()
	assert.Equal(t, spec.AskList, user.asked[len(user.asked)-1])
	assert.Len(t, user.asked, 6)
}

func TestResolve_Restart(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		answers []string
		notice  string
	}{
		{"at every question", []string{"restart"}, noticeStartingOver},
		{"at single question", []string{"n", "RESTART"}, noticeStartingOver},
		{"at value", []string{"n", "y", "restart"}, noticeStartingOver},
		{"at mode", []string{"n", "n", "restart"}, noticeStartingOver},
		{"at interval", []string{"n", "n", "i", "restart"}, noticeStartingOver},
		{"at list", []string{"n", "n", "s", "restart"}, noticeStartingOver},
		{"bad every answer", []string{"maybe"}, noticeYesNo},
		{"bad single answer", []string{"n", ""}, noticeYesNo},
		{"bad mode answer", []string{"n", "n", "x"}, noticeMode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			user := newScripted(tt.answers...)
			_, err := NewBuilder(user).Resolve(context.Background(), Minute, DayContext{})
			require.ErrorIs(t, err, ErrRestart)
			assert.Equal(t, []string{tt.notice}, user.said)
			assert.Empty(t, user.answers)
		})
	}
}

func TestResolve_InputClosed(t *testing.T) {
	t.Parallel()

	_, err := NewBuilder(newScripted("n", "y")).Resolve(context.Background(), Hour, DayContext{})
	require.ErrorIs(t, err, io.EOF)
	assert.NotErrorIs(t, err, ErrRestart)
}

func TestResolve_DayOfMonthContextChangesWordingOnly(t *testing.T) {
	t.Parallel()

	plain := newScripted("n", "y", "15")
	c1, err := NewBuilder(plain).Resolve(context.Background(), DayOfMonth, DayContext{})
	require.NoError(t, err)

	withDow := newScripted("n", "y", "15")
	c2, err := NewBuilder(withDow).Resolve(context.Background(), DayOfMonth, DayContext{DayOfWeekSet: true})
	require.NoError(t, err)

	assert.Equal(t, c1, c2)
	assert.Equal(t, DayOfMonth.Spec().AskEvery, plain.asked[0])
	assert.Equal(t, askPerWeekOnly, withDow.asked[0])
	assert.Contains(t, withDow.asked[2], noteDayOfWeekOr)

	interval := newScripted("n", "n", "s", "1,15")
	c3, err := NewBuilder(interval).Resolve(context.Background(), DayOfMonth, DayContext{DayOfWeekSet: true, Interval: true})
	require.NoError(t, err)
	assert.Equal(t, List(1, 15), c3)
	assert.Contains(t, interval.asked[0], notePerWeekInterval)
	assert.Contains(t, interval.asked[3], noteDayOfWeekAnd)
}

func TestResolve_ContextIgnoredForOtherFields(t *testing.T) {
	t.Parallel()

	user := newScripted("y")
	_, err := NewBuilder(user).Resolve(context.Background(), Month, DayContext{DayOfWeekSet: true})
	require.NoError(t, err)
	assert.Equal(t, Month.Spec().AskEvery, user.asked[0])
}
