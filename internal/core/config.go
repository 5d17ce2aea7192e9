package core

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"filippo.io/age"
	"github.com/goccy/go-yaml"
	"github.com/hay-kot/mkenv/pkgs/fcrypt"
	"github.com/rs/zerolog/log"
)

const (
	EnvPrefix = "MKENV_"

	DefaultConfigPath = "mkenv.yml"
	DefaultDir        = "backend"
	DefaultFile       = ".env"
)

// Flags are the global command line flags. Non-empty values override the
// config file.
type Flags struct {
	LogLevel       string
	ConfigFilePath string
	Dir            string
	File           string
	TemplatePath   string
	AssumeYes      bool
	Form           bool
}

type ConfigFile struct {
	Output   Output `yaml:"output"`
	Template string `yaml:"template"`
	Age      Age    `yaml:"age"`
}

type Output struct {
	Dir  string `yaml:"dir"`
	File string `yaml:"file"`
}

// Path is the env file location.
func (o Output) Path() string {
	return filepath.Join(o.Dir, o.File)
}

// SealedPath is where the age encrypted copy of the env file lives.
func (o Output) SealedPath() string {
	return o.Path() + ".age"
}

// SetupEnv loads the config file at cfgpath and applies flags on top of it.
// Only the default config file is allowed to be missing.
func SetupEnv(cfgpath string, flags *Flags) (ConfigFile, error) {
	cfg := ConfigFile{
		Output: Output{Dir: DefaultDir, File: DefaultFile},
	}

	if cfgpath == "" {
		cfgpath = DefaultConfigPath
	}

	data, err := os.ReadFile(cfgpath)
	switch {
	case errors.Is(err, fs.ErrNotExist) && cfgpath == DefaultConfigPath:
		log.Debug().Str("path", cfgpath).Msg("no config file, using defaults")
	case err != nil:
		return cfg, fmt.Errorf("failed to read config file %s: %w", cfgpath, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file %s: %w", cfgpath, err)
		}

		absolutePath, err := filepath.Abs(cfgpath)
		if err != nil {
			return cfg, err
		}

		if err := cfg.resolvePaths(NewPathResolver(filepath.Dir(absolutePath))); err != nil {
			return cfg, err
		}

		log.Debug().Str("path", absolutePath).Msg("loaded config file")
	}

	if flags != nil {
		cfg.applyFlags(flags)
	}

	if cfg.Output.Dir == "" {
		cfg.Output.Dir = DefaultDir
	}
	if cfg.Output.File == "" {
		cfg.Output.File = DefaultFile
	}

	return cfg, nil
}

// resolvePaths makes file references in the config relative to the config
// directory. The output directory stays relative to the working directory.
func (c *ConfigFile) resolvePaths(pr PathResolver) error {
	var err error

	if c.Template != "" {
		if c.Template, err = pr.Resolve(c.Template); err != nil {
			return fmt.Errorf("failed to resolve template path: %w", err)
		}
	}

	if c.Age.IdentityFile != "" {
		if c.Age.IdentityFile, err = pr.Resolve(c.Age.IdentityFile); err != nil {
			return fmt.Errorf("failed to resolve identity file path: %w", err)
		}
	}

	return nil
}

func (c *ConfigFile) applyFlags(flags *Flags) {
	if flags.Dir != "" {
		c.Output.Dir = flags.Dir
	}
	if flags.File != "" {
		c.Output.File = flags.File
	}
	if flags.TemplatePath != "" {
		c.Template = flags.TemplatePath
	}
}

type Age struct {
	Recipients   []string `yaml:"recipients"`
	IdentityFile string   `yaml:"identity_file"`
}

// ParseRecipients returns the configured recipients as age public keys.
func (a Age) ParseRecipients() ([]age.Recipient, error) {
	recipients := make([]age.Recipient, 0, len(a.Recipients))

	for _, r := range a.Recipients {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}

		recipient, err := fcrypt.LoadPublicKey(r)
		if err != nil {
			return nil, err
		}
		recipients = append(recipients, recipient)
	}

	if len(recipients) == 0 {
		return nil, errors.New("no age recipients configured")
	}

	return recipients, nil
}

func (a Age) ReadIdentity() (age.Identity, error) {
	if a.IdentityFile == "" {
		return nil, errors.New("no age identity file configured")
	}

	identityData, err := os.ReadFile(a.IdentityFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read identity file %s: %w", a.IdentityFile, err)
	}

	// age-keygen output starts with comment lines
	var keyLine string
	for line := range strings.SplitSeq(string(identityData), "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "#") {
			keyLine = line
			break
		}
	}

	if keyLine == "" {
		return nil, fmt.Errorf("no valid key found in identity file %s", a.IdentityFile)
	}

	identity, err := fcrypt.LoadPrivateKey(keyLine)
	if err != nil {
		return nil, fmt.Errorf("failed to load private key: %w", err)
	}

	return identity, nil
}
