package template

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/cel-go/cel"
)

var exprReg = regexp.MustCompile(`\{\{([^}]+)\}\}`)

// Expand replaces every {{CEL expression}} in tmpl with its value evaluated against store.
func Expand(tmpl string, store map[string]any) (string, error) {
	env, err := createCELEnv(store)
	if err != nil {
		return "", fmt.Errorf("failed to create CEL environment: %w", err)
	}

	var expandErr error
	result := exprReg.ReplaceAllStringFunc(tmpl, func(match string) string {
		if expandErr != nil {
			return match
		}
		expr := strings.TrimSpace(match[2 : len(match)-2])
		ast, issues := env.Compile(expr)
		if issues != nil && issues.Err() != nil {
			expandErr = fmt.Errorf("template compilation error for '{{%s}}': %w", expr, issues.Err())
			return match
		}
		prg, err := env.Program(ast)
		if err != nil {
			expandErr = fmt.Errorf("template program creation error for '{{%s}}': %w", expr, err)
			return match
		}
		out, _, err := prg.Eval(store)
		if err != nil {
			expandErr = fmt.Errorf("template evaluation error for '{{%s}}': %w", expr, err)
			return match
		}
		return fmt.Sprintf("%v", out.Value())
	})
	if expandErr != nil {
		return "", expandErr
	}
	return result, nil
}

// createCELEnv declares each top-level store key as a CEL variable.
func createCELEnv(store map[string]any) (*cel.Env, error) {
	var options []cel.EnvOption
	for key, value := range store {
		options = append(options, cel.Variable(key, inferCELType(value)))
	}
	return cel.NewEnv(options...)
}

func inferCELType(value any) *cel.Type {
	switch value.(type) {
	case string:
		return cel.StringType
	case int, int32, int64:
		return cel.IntType
	case float32, float64:
		return cel.DoubleType
	default:
		return cel.AnyType
	}
}
