package envtmpl

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault_Render(t *testing.T) {
	content, err := Default.Render("X")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	lines := strings.Split(string(content), "\n")

	keyLines := 0
	for _, line := range lines {
		if strings.HasPrefix(line, KeyName+"=") {
			keyLines++
			if line != KeyName+"=X" {
				t.Errorf("key line = %q, want %q", line, KeyName+"=X")
			}
		}
	}
	if keyLines != 1 {
		t.Errorf("found %d %s lines, want 1", keyLines, KeyName)
	}

	for _, want := range []string{
		"# Environment Mode",
		"ENV_MODE=local",
		"##### DATABASE (REQUIRED)",
		"REDIS_PORT=6379",
		"NEXT_PUBLIC_URL=http://localhost:3000",
	} {
		if !strings.Contains(string(content), want+"\n") {
			t.Errorf("rendered template is missing line %q", want)
		}
	}

	if strings.Contains(string(content), "{{") {
		t.Error("rendered template still contains template actions")
	}
}

func TestDefault_RenderKeepsEveryLine(t *testing.T) {
	content, err := Default.Render("X")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	src := strings.Split(builtin, "\n")
	got := strings.Split(string(content), "\n")

	if len(got) != len(src) {
		t.Fatalf("rendered %d lines, template has %d", len(got), len(src))
	}

	for i := range src {
		if strings.HasPrefix(src[i], KeyName+"=") {
			continue
		}
		if got[i] != src[i] {
			t.Errorf("line %d = %q, want %q", i+1, got[i], src[i])
		}
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name        string
		src         string
		wantErr     error
		wantTmplErr bool
		wantLine    int
	}{
		{
			name: "single placeholder",
			src:  "A=1\nENCRYPTION_KEY={{ .EncryptionKey }}\n",
		},
		{
			name: "trim markers",
			src:  "ENCRYPTION_KEY={{- .EncryptionKey -}}\n",
		},
		{
			name:    "missing placeholder",
			src:     "A=1\nENCRYPTION_KEY=\n",
			wantErr: ErrPlaceholder,
		},
		{
			name:    "duplicate placeholder",
			src:     "ENCRYPTION_KEY={{ .EncryptionKey }}\nOTHER={{.EncryptionKey}}\n",
			wantErr: ErrPlaceholder,
		},
		{
			name: "pipeline",
			src:  "ENCRYPTION_KEY={{ .EncryptionKey | printf \"%s\" }}\n",
		},
		{
			name: "function argument",
			src:  "ENCRYPTION_KEY={{ printf \"%q\" .EncryptionKey }}\n",
		},
		{
			name:    "used inside a conditional and again",
			src:     "{{ if .EncryptionKey }}ENCRYPTION_KEY={{ .EncryptionKey }}{{ end }}\n",
			wantErr: ErrPlaceholder,
		},
		{
			name:    "field name only in text",
			src:     "# set .EncryptionKey by hand\nENCRYPTION_KEY=\n",
			wantErr: ErrPlaceholder,
		},
		{
			name:        "syntax error",
			src:         "A=1\nENCRYPTION_KEY={{ .EncryptionKey }}\nB={{ if }}\n",
			wantTmplErr: true,
			wantLine:    3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("test.env", tt.src)

			switch {
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Parse() error = %v, want %v", err, tt.wantErr)
				}
			case tt.wantTmplErr:
				var te *TemplateError
				if !errors.As(err, &te) {
					t.Fatalf("Parse() error = %v, want *TemplateError", err)
				}
				if te.Line != tt.wantLine {
					t.Errorf("TemplateError.Line = %d, want %d", te.Line, tt.wantLine)
				}
				if len(te.Context) == 0 {
					t.Error("TemplateError.Context is empty")
				}
			default:
				if err != nil {
					t.Fatalf("Parse() error = %v", err)
				}
			}
		})
	}
}

func TestParse_PipelineRenders(t *testing.T) {
	tmpl, err := Parse("test.env", "ENCRYPTION_KEY={{ .EncryptionKey | printf \"%q\" }}\n")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	got, err := tmpl.Render("abc")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if want := "ENCRYPTION_KEY=\"abc\"\n"; string(got) != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestRender_UnknownField(t *testing.T) {
	tmpl, err := Parse("test.env", "ENCRYPTION_KEY={{ .EncryptionKey }}\nOTHER={{ .Other }}\n")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	_, err = tmpl.Render("X")

	var te *TemplateError
	if !errors.As(err, &te) {
		t.Fatalf("Render() error = %v, want *TemplateError", err)
	}
	if te.Line != 2 {
		t.Errorf("TemplateError.Line = %d, want 2", te.Line)
	}
	if !strings.Contains(te.Message, "unknown field") {
		t.Errorf("TemplateError.Message = %q, want it to mention the unknown field", te.Message)
	}
}

func TestMust_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Must() did not panic on a template without a placeholder")
		}
	}()

	Must(Parse("broken.env", "A=1\n"))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "good.env.tmpl")
	if err := os.WriteFile(good, []byte("MODE=dev\nENCRYPTION_KEY={{ .EncryptionKey }}\n"), 0o644); err != nil {
		t.Fatalf("failed to write template: %v", err)
	}

	tmpl, err := Load(good)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if tmpl.Name() != "good.env.tmpl" {
		t.Errorf("Name() = %q, want good.env.tmpl", tmpl.Name())
	}

	content, err := tmpl.Render("abc")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if string(content) != "MODE=dev\nENCRYPTION_KEY=abc\n" {
		t.Errorf("Render() = %q", content)
	}

	if _, err := Load(filepath.Join(dir, "missing.tmpl")); err == nil {
		t.Error("Load() of a missing file returned no error")
	}
}
