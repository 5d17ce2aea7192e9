// Package envtmpl holds the env file template and renders it with a
// generated encryption key.
package envtmpl

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"text/template"
	"text/template/parse"
)

// KeyName is the variable the generated key is assigned to.
const KeyName = "ENCRYPTION_KEY"

// ErrPlaceholder is returned when a template does not reference the key
// placeholder exactly once.
var ErrPlaceholder = errors.New("template must reference {{ .EncryptionKey }} exactly once")

const keyField = "EncryptionKey"

//go:embed backend.env.tmpl
var builtin string

// Default is the built-in backend env template.
var Default = Must(Parse("backend.env", builtin))

// Values is the data a template is executed with.
type Values struct {
	EncryptionKey string
}

type Template struct {
	name   string
	source string
	tmpl   *template.Template
}

// Parse parses src and checks that .EncryptionKey is used exactly once,
// whether bare or inside a pipeline. Parse errors are returned as a
// *TemplateError.
func Parse(name, src string) (*Template, error) {
	tmpl, err := template.New(name).Option("missingkey=error").Parse(src)
	if err != nil {
		return nil, NewTemplateError(name, src, err)
	}

	n := 0
	for _, t := range tmpl.Templates() {
		if t.Tree != nil {
			n += countKeyRefs(t.Tree.Root)
		}
	}
	if n != 1 {
		return nil, fmt.Errorf("%s: found %d placeholders: %w", name, n, ErrPlaceholder)
	}

	return &Template{name: name, source: src, tmpl: tmpl}, nil
}

// countKeyRefs counts the .EncryptionKey field references below node.
func countKeyRefs(node parse.Node) int {
	switch n := node.(type) {
	case *parse.ListNode:
		if n == nil {
			return 0
		}
		total := 0
		for _, c := range n.Nodes {
			total += countKeyRefs(c)
		}
		return total
	case *parse.ActionNode:
		return countKeyRefs(n.Pipe)
	case *parse.PipeNode:
		if n == nil {
			return 0
		}
		total := 0
		for _, c := range n.Cmds {
			total += countKeyRefs(c)
		}
		return total
	case *parse.CommandNode:
		total := 0
		for _, a := range n.Args {
			total += countKeyRefs(a)
		}
		return total
	case *parse.FieldNode:
		if len(n.Ident) > 0 && n.Ident[0] == keyField {
			return 1
		}
	case *parse.ChainNode:
		return countKeyRefs(n.Node)
	case *parse.IfNode:
		return countBranch(&n.BranchNode)
	case *parse.RangeNode:
		return countBranch(&n.BranchNode)
	case *parse.WithNode:
		return countBranch(&n.BranchNode)
	case *parse.TemplateNode:
		return countKeyRefs(n.Pipe)
	}
	return 0
}

func countBranch(b *parse.BranchNode) int {
	return countKeyRefs(b.Pipe) + countKeyRefs(b.List) + countKeyRefs(b.ElseList)
}

// Must panics if err is non-nil. It is meant for templates compiled into the
// binary, where a broken template is a defect.
func Must(t *Template, err error) *Template {
	if err != nil {
		panic(err)
	}
	return t
}

// Load reads and parses a template file from disk.
func Load(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template file %s: %w", path, err)
	}

	return Parse(filepath.Base(path), string(data))
}

func (t *Template) Name() string {
	return t.name
}

// Render executes the template with key substituted for the placeholder.
func (t *Template) Render(key string) ([]byte, error) {
	var buf bytes.Buffer
	if err := t.tmpl.Execute(&buf, Values{EncryptionKey: key}); err != nil {
		return nil, NewTemplateError(t.name, t.source, err)
	}

	return buf.Bytes(), nil
}

// NextSteps lists what the operator should do after path was written.
func NextSteps(path string) []string {
	return []string{
		fmt.Sprintf("Review %s and add any missing values", path),
		"Set up frontend/.env.local (see SETUP_GUIDE.md)",
		"Run: python start.py",
	}
}
