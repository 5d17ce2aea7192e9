package commands

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hay-kot/mkenv/internal/core"
	"github.com/hay-kot/mkenv/internal/envfile"
)

func TestCheckCmd(t *testing.T) {
	const tmpl = `# Environment Mode
ENV_MODE=local

##### DATABASE (REQUIRED)
DB_URL=
DB_PASSWORD=

##### OBSERVABILITY (Optional)
TRACE_HOST=

ENCRYPTION_KEY={{ .EncryptionKey }}
`

	const file = `# Environment Mode
ENV_MODE=local

##### DATABASE (REQUIRED)
DB_URL=postgres://localhost/app
DB_PASSWORD=

##### OBSERVABILITY (Optional)
TRACE_HOST=

EXTRA=1
`

	tests := []struct {
		name      string
		expr      string
		strict    bool
		wantErr   bool
		wantKeys  []string
		wantNotIn []string
	}{
		{
			name:      "default expression",
			wantKeys:  []string{"DB_PASSWORD", "ENCRYPTION_KEY"},
			wantNotIn: []string{"DB_URL", "TRACE_HOST", "ENV_MODE", "EXTRA"},
		},
		{
			name:      "all empty",
			expr:      "empty",
			wantKeys:  []string{"DB_PASSWORD", "TRACE_HOST"},
			wantNotIn: []string{"DB_URL", "ENV_MODE"},
		},
		{
			name:      "by section",
			expr:      `section startsWith "DATABASE"`,
			wantKeys:  []string{"DB_URL", "DB_PASSWORD"},
			wantNotIn: []string{"TRACE_HOST"},
		},
		{
			name:     "strict with matches",
			strict:   true,
			wantErr:  true,
			wantKeys: []string{"DB_PASSWORD"},
		},
		{
			name:   "strict without matches",
			expr:   `key == "NOPE"`,
			strict: true,
		},
		{
			name:    "invalid expression",
			expr:    "unknown_var",
			wantErr: true,
		},
		{
			name:    "non boolean expression",
			expr:    "key",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, ctx, out, dir := testEnv(t, true)

			tmplPath := filepath.Join(t.TempDir(), "test.env.tmpl")
			if err := os.WriteFile(tmplPath, []byte(tmpl), 0o644); err != nil {
				t.Fatal(err)
			}
			cfg.Template = tmplPath

			if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(file), 0o600); err != nil {
				t.Fatal(err)
			}

			cc := NewCheckCmd(&core.Flags{})
			cc.flags.Strict = tt.strict

			err := cc.run(ctx, cfg, tt.expr)
			if (err != nil) != tt.wantErr {
				t.Fatalf("run() error = %v, wantErr %v", err, tt.wantErr)
			}

			output := out.String()
			for _, key := range tt.wantKeys {
				if !strings.Contains(output, key) {
					t.Errorf("output does not list %s:\n%s", key, output)
				}
			}
			for _, key := range tt.wantNotIn {
				if strings.Contains(output, key) {
					t.Errorf("output lists %s:\n%s", key, output)
				}
			}

			if strings.Contains(output, "postgres://") {
				t.Error("output contains a value")
			}
		})
	}
}

func TestCheckCmd_GeneratedFile(t *testing.T) {
	cfg, ctx, out, _ := testEnv(t, true)

	if err := NewGenerateCmd(&core.Flags{}).run(ctx, cfg, envfile.Always(true)); err != nil {
		t.Fatalf("generate error = %v", err)
	}
	out.Reset()

	if err := NewCheckCmd(&core.Flags{}).run(ctx, cfg, ""); err != nil {
		t.Fatalf("check error = %v", err)
	}

	output := out.String()
	for _, key := range []string{"SUPABASE_URL", "TAVILY_API_KEY"} {
		if !strings.Contains(output, key) {
			t.Errorf("check output does not list %s", key)
		}
	}
	for _, key := range []string{"ENCRYPTION_KEY", "ENV_MODE", "LANGFUSE_HOST", "AWS_ACCESS_KEY_ID", "OPENAI_COMPATIBLE_API_KEY"} {
		if strings.Contains(output, key) {
			t.Errorf("check output lists %s", key)
		}
	}
	if !strings.Contains(output, "Values are not shown") {
		t.Errorf("check output is missing the values note:\n%s", output)
	}
}

func TestCheckCmd_BlankEncryptionKey(t *testing.T) {
	cfg, ctx, out, dir := testEnv(t, true)

	if err := NewGenerateCmd(&core.Flags{}).run(ctx, cfg, envfile.Always(true)); err != nil {
		t.Fatalf("generate error = %v", err)
	}

	path := filepath.Join(dir, ".env")
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var lines []string
	for line := range strings.SplitSeq(string(content), "\n") {
		if strings.HasPrefix(line, "ENCRYPTION_KEY=") {
			line = "ENCRYPTION_KEY="
		}
		lines = append(lines, line)
	}
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o600); err != nil {
		t.Fatal(err)
	}
	out.Reset()

	if err := NewCheckCmd(&core.Flags{}).run(ctx, cfg, ""); err != nil {
		t.Fatalf("check error = %v", err)
	}

	if !strings.Contains(out.String(), "ENCRYPTION_KEY") {
		t.Errorf("check output does not list a blank ENCRYPTION_KEY:\n%s", out.String())
	}
}

func TestCheckCmd_MissingFile(t *testing.T) {
	cfg, ctx, _, _ := testEnv(t, true)

	err := NewCheckCmd(&core.Flags{}).run(ctx, cfg, "")
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("run() error = %v, want not found", err)
	}
}
