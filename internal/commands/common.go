// Package commands contains the CLI commands for the application
package commands

import (
	"context"
	"io"
	"os"

	"github.com/hay-kot/mkenv/internal/core"
	"github.com/hay-kot/mkenv/internal/envfile"
	"github.com/hay-kot/mkenv/internal/envtmpl"
	"github.com/hay-kot/mkenv/pkgs/printer"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
)

// newConfirmer picks how overwrite prompts are answered based on the global
// flags.
func newConfirmer(flags *core.Flags) envfile.Confirmer {
	switch {
	case flags.AssumeYes:
		return envfile.Always(true)
	case flags.Form && isTerminal(os.Stdin) && isTerminal(os.Stdout):
		return envfile.FormConfirmer{}
	}

	if flags.Form {
		log.Debug().Msg("not attached to a terminal, falling back to line prompt")
	}

	return envfile.LineConfirmer{In: os.Stdin, Out: os.Stdout}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func loadTemplate(cfg core.ConfigFile) (*envtmpl.Template, error) {
	if cfg.Template == "" {
		return envtmpl.Default, nil
	}

	log.Debug().Str("path", cfg.Template).Msg("loading custom template")
	return envtmpl.Load(cfg.Template)
}

// stdout returns the writer for raw, unstyled output.
func stdout(ctx context.Context) io.Writer {
	if w, ok := printer.GetWriter(ctx); ok {
		return w
	}
	return os.Stdout
}
