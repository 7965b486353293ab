package wizard

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTerminal_AskReadsLines(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	term := NewTerminal(strings.NewReader("n\r\n 7 \n"), &out, time.Second)

	first, err := term.Ask(context.Background(), "Every hour?")
	require.NoError(t, err)
	assert.Equal(t, "n", first)

	second, err := term.Ask(context.Background(), "Which hour?")
	require.NoError(t, err)
	assert.Equal(t, " 7 ", second)

	_, err = term.Ask(context.Background(), "More?")
	require.ErrorIs(t, err, io.EOF)

	assert.Equal(t, "Every hour?\nWhich hour?\nMore?\n", out.String())
}

func TestTerminal_AskCanceled(t *testing.T) {
	t.Parallel()

	r, w := io.Pipe()
	t.Cleanup(func() { _ = w.Close() })

	term := NewTerminal(r, io.Discard, 0)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := term.Ask(ctx, "Every minute?")
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestTerminal_SayAndBlank(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	term := NewTerminal(strings.NewReader(""), &out, 10*time.Millisecond)
	term.Say("Starting over...")
	term.Blank()
	assert.Equal(t, "Starting over...\n\n", out.String())
	assert.Contains(t, term.Highlight("0 7 * * * true"), "0 7 * * * true")
}
