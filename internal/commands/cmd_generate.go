package commands

import (
	"context"
	"fmt"

	"github.com/hay-kot/mkenv/internal/core"
	"github.com/hay-kot/mkenv/internal/envfile"
	"github.com/hay-kot/mkenv/internal/envtmpl"
	"github.com/hay-kot/mkenv/internal/keygen"
	"github.com/hay-kot/mkenv/pkgs/printer"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
)

type GenerateCmd struct {
	coreFlags *core.Flags
	confirm   envfile.Confirmer
}

func NewGenerateCmd(coreFlags *core.Flags) *GenerateCmd {
	return &GenerateCmd{coreFlags: coreFlags}
}

// Register makes generate the root action and also exposes it as a named
// subcommand.
func (gc *GenerateCmd) Register(app *cli.Command) *cli.Command {
	app.Action = gc.generate

	cmd := &cli.Command{
		Name:    "generate",
		Aliases: []string{"gen"},
		Usage:   "create the env file with a freshly generated encryption key (default)",
		Description: `Renders the env template into backend/.env, substituting a new random
ENCRYPTION_KEY (32 bytes, base64). Run it from the project root.

If the file already exists you are asked before it is replaced; anything
other than "y" keeps the existing file untouched. Use --yes to skip the
question and --form for an interactive prompt.`,
		Action: gc.generate,
	}

	app.Commands = append(app.Commands, cmd)
	return app
}

func (gc *GenerateCmd) generate(ctx context.Context, c *cli.Command) error {
	if c.Args().Present() {
		return fmt.Errorf("unknown command %q", c.Args().First())
	}

	cfg, err := core.SetupEnv(gc.coreFlags.ConfigFilePath, gc.coreFlags)
	if err != nil {
		return err
	}

	confirm := gc.confirm
	if confirm == nil {
		confirm = newConfirmer(gc.coreFlags)
	}

	return gc.run(ctx, cfg, confirm)
}

func (gc *GenerateCmd) run(ctx context.Context, cfg core.ConfigFile, confirm envfile.Confirmer) error {
	var (
		p    = printer.Ctx(ctx)
		path = cfg.Output.Path()
	)

	p.Title(fmt.Sprintf("Creating %s file with your API keys...", path))

	tmpl, err := loadTemplate(cfg)
	if err != nil {
		return err
	}

	key, err := keygen.Generate()
	if err != nil {
		return fmt.Errorf("failed to generate encryption key: %w", err)
	}

	content, err := tmpl.Render(key)
	if err != nil {
		return err
	}

	log.Debug().
		Str("template", tmpl.Name()).
		Str("path", path).
		Int("bytes", len(content)).
		Msg("rendered env file")

	w := envfile.Writer{
		Dir:     cfg.Output.Dir,
		Name:    cfg.Output.File,
		Confirm: confirm,
	}

	outcome, err := w.Write(ctx, content)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if outcome == envfile.Declined {
		p.Warning("Aborted. Existing file preserved.")
		return nil
	}

	p.Success("Successfully created " + path)
	p.Success("Generated encryption key: " + keygen.Preview(key))
	p.LineBreak()
	p.List("Next steps:", envtmpl.NextSteps(path))

	return nil
}
