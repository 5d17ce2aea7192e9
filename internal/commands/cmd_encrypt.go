package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/hay-kot/mkenv/internal/core"
	"github.com/hay-kot/mkenv/internal/envfile"
	"github.com/hay-kot/mkenv/pkgs/fcrypt"
	"github.com/hay-kot/mkenv/pkgs/printer"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
)

type EncryptCmd struct {
	coreFlags *core.Flags
	confirm   envfile.Confirmer
	flags     struct {
		Recipients []string
		Identity   string
	}
}

func NewEncryptCmd(coreFlags *core.Flags) *EncryptCmd {
	return &EncryptCmd{coreFlags: coreFlags}
}

func (ec *EncryptCmd) Register(app *cli.Command) *cli.Command {
	cmds := []*cli.Command{
		{
			Name:  "seal",
			Usage: "encrypt the env file to <file>.age",
			Description: `Encrypts the env file with age so it can be stored or shared safely.

Recipients come from mkenv.yml:

	age:
	  recipients:
	    - age1...

or from --recipient. The output is ASCII armored and written next to the
env file as .env.age. The plain env file is left in place. An existing
.env.age is only replaced after confirmation.`,
			Flags: []cli.Flag{
				&cli.StringSliceFlag{
					Name:        "recipient",
					Aliases:     []string{"r"},
					Usage:       "age public key to encrypt to (repeatable, overrides config)",
					Destination: &ec.flags.Recipients,
				},
			},
			Action: func(ctx context.Context, c *cli.Command) error {
				cfg, err := ec.setup()
				if err != nil {
					return err
				}
				return ec.seal(ctx, cfg, ec.confirmer())
			},
		},
		{
			Name:  "unseal",
			Usage: "decrypt <file>.age back into the env file",
			Description: `Decrypts the sealed env file with your age identity (private key).

The identity file is read from age.identity_file in mkenv.yml or from
--identity. If the env file already exists you are asked before it is
replaced.`,
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:        "identity",
					Aliases:     []string{"i"},
					Usage:       "path to the age identity file (overrides config)",
					Destination: &ec.flags.Identity,
				},
			},
			Action: func(ctx context.Context, c *cli.Command) error {
				cfg, err := ec.setup()
				if err != nil {
					return err
				}
				return ec.unseal(ctx, cfg, ec.confirmer())
			},
		},
	}

	app.Commands = append(app.Commands, cmds...)
	return app
}

func (ec *EncryptCmd) setup() (core.ConfigFile, error) {
	cfg, err := core.SetupEnv(ec.coreFlags.ConfigFilePath, ec.coreFlags)
	if err != nil {
		return cfg, err
	}

	if len(ec.flags.Recipients) > 0 {
		cfg.Age.Recipients = ec.flags.Recipients
	}
	if ec.flags.Identity != "" {
		cfg.Age.IdentityFile = ec.flags.Identity
	}

	return cfg, nil
}

func (ec *EncryptCmd) confirmer() envfile.Confirmer {
	if ec.confirm != nil {
		return ec.confirm
	}
	return newConfirmer(ec.coreFlags)
}

func (ec *EncryptCmd) seal(ctx context.Context, cfg core.ConfigFile, confirm envfile.Confirmer) error {
	recipients, err := cfg.Age.ParseRecipients()
	if err != nil {
		return err
	}

	source := cfg.Output.Path()
	plain, err := readExisting(source)
	if err != nil {
		return err
	}

	sealed, err := fcrypt.Seal(plain, recipients...)
	if err != nil {
		return fmt.Errorf("failed to encrypt %s: %w", source, err)
	}

	target := cfg.Output.SealedPath()
	w := envfile.Writer{
		Dir:     filepath.Dir(target),
		Name:    filepath.Base(target),
		Perm:    0o644,
		Confirm: confirm,
	}

	log.Debug().Str("source", source).Str("target", target).Int("recipients", len(recipients)).Msg("sealing")

	return report(ctx, w, sealed, fmt.Sprintf("Sealed %s to %s", source, target))
}

func (ec *EncryptCmd) unseal(ctx context.Context, cfg core.ConfigFile, confirm envfile.Confirmer) error {
	identity, err := cfg.Age.ReadIdentity()
	if err != nil {
		return err
	}

	source := cfg.Output.SealedPath()
	sealed, err := readExisting(source)
	if err != nil {
		return err
	}

	plain, err := fcrypt.Open(sealed, identity)
	if err != nil {
		return fmt.Errorf("failed to decrypt %s: %w", source, err)
	}

	target := cfg.Output.Path()
	w := envfile.Writer{
		Dir:     cfg.Output.Dir,
		Name:    cfg.Output.File,
		Confirm: confirm,
	}

	log.Debug().Str("source", source).Str("target", target).Msg("unsealing")

	return report(ctx, w, plain, fmt.Sprintf("Unsealed %s to %s", source, target))
}

func readExisting(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s not found", path)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

func report(ctx context.Context, w envfile.Writer, content []byte, success string) error {
	p := printer.Ctx(ctx)

	outcome, err := w.Write(ctx, content)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", w.Path(), err)
	}

	if outcome == envfile.Declined {
		p.Warning(fmt.Sprintf("Aborted. Existing %s preserved.", w.Path()))
		return nil
	}

	p.Success(success)
	return nil
}
