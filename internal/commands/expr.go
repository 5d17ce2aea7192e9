package commands

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/hay-kot/mkenv/internal/envtmpl"
)

// defaultCheckExpr selects entries that still need a value.
const defaultCheckExpr = `missing || (empty && required)`

// entryEnv is the set of variables a check expression can see. Values are
// deliberately absent so an expression can never echo a secret.
func entryEnv(e envtmpl.Entry, missing bool) map[string]any {
	return map[string]any{
		"key":      e.Key,
		"section":  e.Section,
		"empty":    e.Empty(),
		"required": e.Required(),
		"missing":  missing,
	}
}

// compileExpr compiles an expression string once for reuse
func compileExpr(code string) (*vm.Program, error) {
	if strings.TrimSpace(code) == "" {
		code = defaultCheckExpr
	}

	return expr.Compile(code, expr.Env(entryEnv(envtmpl.Entry{}, false)), expr.AsBool())
}

// evalCompiledExpr evaluates a pre-compiled expression with given context
func evalCompiledExpr(program *vm.Program, env map[string]any) (bool, error) {
	output, err := expr.Run(program, env)
	if err != nil {
		return false, err
	}

	result, ok := output.(bool)
	if !ok {
		return false, fmt.Errorf("expression did not evaluate to boolean, got %T", output)
	}

	return result, nil
}
