package wizard

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// UserIO is the only channel between the wizard and the user.
type UserIO interface {
	// Ask shows question and blocks until the user answers.
	Ask(ctx context.Context, question string) (string, error)
	// Say shows a line of text.
	Say(text string)
}

// Terminal is a line based UserIO over a reader and a writer. Text is
// printed one character at a time when delay is positive and the output is
// a terminal.
type Terminal struct {
	in    io.Reader
	out   io.Writer
	delay time.Duration
	style lipgloss.Style

	once  sync.Once
	lines chan line
	mu    sync.Mutex
}

type line struct {
	text string
	err  error
}

// NewTerminal creates a Terminal.
func NewTerminal(in io.Reader, out io.Writer, delay time.Duration) *Terminal {
	if f, ok := out.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		delay = 0
	}
	return &Terminal{
		in:    in,
		out:   out,
		delay: delay,
		style: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
	}
}

// Say prints text followed by a newline.
func (t *Terminal) Say(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.delay <= 0 {
		fmt.Fprintln(t.out, text)
		return
	}
	for _, r := range text {
		fmt.Fprint(t.out, string(r))
		time.Sleep(t.delay)
	}
	fmt.Fprintln(t.out)
}

// Blank prints an empty line.
func (t *Terminal) Blank() {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.out)
}

// Highlight renders text in the summary style.
func (t *Terminal) Highlight(text string) string {
	return t.style.Render(text)
}

// Ask prints question and waits for the next input line. It returns
// io.EOF when the input is closed and ctx.Err() when ctx ends first.
func (t *Terminal) Ask(ctx context.Context, question string) (string, error) {
	t.Say(question)
	t.once.Do(t.startReader)
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case l, ok := <-t.lines:
		if !ok {
			return "", io.EOF
		}
		return l.text, l.err
	}
}

func (t *Terminal) startReader() {
	t.lines = make(chan line)
	go func() {
		defer close(t.lines)
		scanner := bufio.NewScanner(t.in)
		for scanner.Scan() {
			t.lines <- line{text: scanner.Text()}
		}
		if err := scanner.Err(); err != nil {
			t.lines <- line{err: fmt.Errorf("read input: %w", err)}
		}
	}()
}
