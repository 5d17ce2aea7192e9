package envfile

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/huh"
)

// Confirmer asks the operator a yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to a Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// Always answers every prompt with answer.
func Always(answer bool) Confirmer {
	return ConfirmFunc(func(context.Context, string) (bool, error) {
		return answer, nil
	})
}

// LineConfirmer writes the prompt to Out and reads a single line from In.
// Only "y" (any case) affirms; anything else, including end of input,
// declines.
type LineConfirmer struct {
	In  io.Reader
	Out io.Writer
}

func (lc LineConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	if _, err := fmt.Fprintf(lc.Out, "%s (y/N): ", prompt); err != nil {
		return false, err
	}

	line, err := bufio.NewReader(lc.In).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}

	return strings.EqualFold(strings.TrimSpace(line), "y"), nil
}

// FormConfirmer prompts with a huh confirm field. It needs a terminal.
type FormConfirmer struct{}

func (FormConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	var ok bool

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(prompt).
				Affirmative("Overwrite").
				Negative("Keep").
				Value(&ok),
		),
	)

	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}

	return ok, nil
}
