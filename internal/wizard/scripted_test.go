package wizard

import (
	"context"
	"io"
)

// scriptedIO answers questions from a fixed list and records the conversation.
type scriptedIO struct {
	answers []string
	asked   []string
	said    []string
}

func newScripted(answers ...string) *scriptedIO {
	return &scriptedIO{answers: answers}
}

func (s *scriptedIO) Ask(ctx context.Context, question string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.asked = append(s.asked, question)
	if len(s.answers) == 0 {
		return "", io.EOF
	}
	answer := s.answers[0]
	s.answers = s.answers[1:]
	return answer, nil
}

func (s *scriptedIO) Say(text string) {
	s.said = append(s.said, text)
}

// every answers "y" to the first question of each remaining field.
func every(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = "y"
	}
	return out
}
