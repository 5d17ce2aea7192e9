package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/hay-kot/mkenv/internal/core"
	"github.com/hay-kot/mkenv/internal/envtmpl"
	"github.com/hay-kot/mkenv/pkgs/printer"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
)

type CheckCmd struct {
	coreFlags *core.Flags
	flags     struct {
		Strict bool
	}
}

func NewCheckCmd(coreFlags *core.Flags) *CheckCmd {
	return &CheckCmd{coreFlags: coreFlags}
}

func (cc *CheckCmd) Register(app *cli.Command) *cli.Command {
	cmd := &cli.Command{
		Name:      "check",
		Usage:     "list env file entries that still need attention",
		ArgsUsage: "[expression]",
		Description: `Compares the existing env file with the template and lists the entries
matching an expression. Values are never printed.

The default expression is: ` + defaultCheckExpr + `

Examples:
	mkenv check                                  # required but blank, or missing
	mkenv check empty                            # every blank entry
	mkenv check 'section startsWith "LLM"'       # everything in the LLM section
	mkenv check --strict                         # exit non-zero when anything matches

Expression variables:
	- key:      entry name
	- section:  the "#####" header, or the comment opening the entry's block
	- empty:    the value is blank
	- required: the section is marked REQUIRED
	- missing:  the template has the entry but the file does not`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "strict",
				Usage:       "return an error when any entry matches",
				Destination: &cc.flags.Strict,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := core.SetupEnv(cc.coreFlags.ConfigFilePath, cc.coreFlags)
			if err != nil {
				return err
			}

			code := strings.Join(c.Args().Slice(), " ")

			log.Debug().
				Bool("strict", cc.flags.Strict).
				Str("expr", code).
				Msg("check cmd")

			return cc.run(ctx, cfg, code)
		},
	}

	app.Commands = append(app.Commands, cmd)
	return app
}

func (cc *CheckCmd) run(ctx context.Context, cfg core.ConfigFile, code string) error {
	var (
		p    = printer.Ctx(ctx)
		path = cfg.Output.Path()
	)

	program, err := compileExpr(code)
	if err != nil {
		return fmt.Errorf("invalid expression: %w", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%s not found; run mkenv first", path)
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	entries, err := envtmpl.ParseEntries(content)
	if err != nil {
		return err
	}

	expected, err := templateEntries(cfg)
	if err != nil {
		return err
	}

	type candidate struct {
		entry   envtmpl.Entry
		missing bool
	}

	present := make(map[string]bool, len(entries))
	candidates := make([]candidate, 0, len(entries))
	for _, e := range entries {
		present[e.Key] = true
		candidates = append(candidates, candidate{entry: e})
	}
	for _, e := range expected {
		if !present[e.Key] {
			candidates = append(candidates, candidate{entry: e, missing: true})
		}
	}

	var items []printer.StatusListItem
	for _, c := range candidates {
		match, err := evalCompiledExpr(program, entryEnv(c.entry, c.missing))
		if err != nil {
			return fmt.Errorf("expression evaluation failed for %s: %w", c.entry.Key, err)
		}

		if !match {
			continue
		}

		items = append(items, printer.StatusListItem{
			Ok:     !c.missing && !c.entry.Empty(),
			Status: c.entry.Key,
			Detail: describe(c.entry, c.missing),
		})
	}

	if len(items) == 0 {
		p.Success(fmt.Sprintf("%s: no entries need attention", path))
		return nil
	}

	p.StatusList(fmt.Sprintf("%s: %d of %d entries matched", path, len(items), len(candidates)), items)
	p.Info(fmt.Sprintf("Values are not shown. Edit %s to fill them in.", path))

	if cc.flags.Strict {
		return fmt.Errorf("%d entries in %s need attention", len(items), path)
	}

	return nil
}

// templateEntries renders the template with a stand-in key so its entries
// can be compared against the file on disk.
func templateEntries(cfg core.ConfigFile) ([]envtmpl.Entry, error) {
	tmpl, err := loadTemplate(cfg)
	if err != nil {
		return nil, err
	}

	rendered, err := tmpl.Render("-")
	if err != nil {
		return nil, err
	}

	return envtmpl.ParseEntries(rendered)
}

func describe(e envtmpl.Entry, missing bool) string {
	state := "set"
	switch {
	case missing:
		state = "missing"
	case e.Empty():
		state = "empty"
	}

	if e.Section == "" {
		return "(" + state + ")"
	}
	return "(" + e.Section + ", " + state + ")"
}
