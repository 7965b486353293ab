package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCron(t *testing.T) {
	t.Parallel()

	valid := []string{"* * * * *", "* 7 * * *", "5,10,15 * * * *", "*/15 0 1 */2 1,3,5", " 0 0 1 * * "}
	for _, expr := range valid {
		_, err := ParseCron(expr)
		assert.NoError(t, err, expr)
	}

	invalid := []string{"", "@daily", "* * * *", "0 0 0 0 0 0", "60 * * * *", "* 24 * * *", "bogus"}
	for _, expr := range invalid {
		_, err := ParseCron(expr)
		assert.Error(t, err, expr)
	}
}

func TestPreview(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 1, 15, 10, 3, 0, 0, time.UTC)
	times, err := Preview("* 7 * * *", base, 3)
	require.NoError(t, err)
	require.Len(t, times, 3)
	assert.Equal(t, time.Date(2026, 1, 16, 7, 0, 0, 0, time.UTC), times[0])
	assert.Equal(t, time.Date(2026, 1, 16, 7, 1, 0, 0, time.UTC), times[1])
	assert.Equal(t, time.Date(2026, 1, 16, 7, 2, 0, 0, time.UTC), times[2])

	times, err = Preview("*/15 * * * *", base, 2)
	require.NoError(t, err)
	assert.Equal(t, []time.Time{
		time.Date(2026, 1, 15, 10, 15, 0, 0, time.UTC),
		time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC),
	}, times)

	_, err = Preview("61 * * * *", base, 1)
	assert.Error(t, err)
}
