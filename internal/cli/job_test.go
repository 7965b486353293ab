package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDirectory(t *testing.T) {
	t.Parallel()

	dir, err := normalizeDirectory("/reports")
	require.NoError(t, err)
	assert.Equal(t, "reports", dir)

	_, err = normalizeDirectory("my reports")
	assert.Equal(t, errDirSpaces, err)
	_, err = normalizeDirectory("")
	assert.Equal(t, errDirEmpty, err)
	_, err = normalizeDirectory("//")
	assert.Equal(t, errDirEmpty, err)
}

func TestNormalizeScript(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
		err  error
	}{
		{"daily", "daily.ksh", nil},
		{"daily.ksh", "daily.ksh", nil},
		{"daily.sh", "daily.ksh", nil},
		{"a.b.c", "", errScriptDots},
		{"", "", errScriptEmpty},
		{".ksh", "", errScriptEmpty},
		{"my script", "", errScriptSpaces},
	}
	for _, tt := range tests {
		got, err := normalizeScript(tt.in)
		if tt.err != nil {
			assert.Equal(t, tt.err, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestCommandStem(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "report", commandStem("/usr/local/bin/report.sh --all"))
	assert.Equal(t, "echo", commandStem("echo hi"))
	assert.Equal(t, "job", commandStem("   "))
}

func TestLogRedirect(t *testing.T) {
	t.Parallel()

	assert.Equal(t, " >> /var/log/x_`hostname`_`date +%Y%m%d`.log 2>&1", logRedirect("/var/log", "x"))
}
