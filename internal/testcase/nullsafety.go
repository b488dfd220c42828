package testcase

import (
	"context"
	"strings"

	"github.com/mutscope/mutscope/internal/syntax"
)

// stringLikeTypes are the cast targets that keep a null literal
// unambiguous after a text-level mutation. Comparison is textual, matching
// the rest of the analyzer.
var stringLikeTypes = map[string]struct{}{
	"string":        {},
	"String":        {},
	"System.String": {},
}

// NullLiteralsAreSafe parses the given expression text inside a synthetic
// single-method class and reports whether every null literal in it is
// immediately cast to a string-like type. Blank input is unsafe. Used to
// guard mutation of null-coalescing and equality assertions that would
// become ambiguous otherwise.
func NullLiteralsAreSafe(ctx context.Context, expression string) (bool, error) {
	if strings.TrimSpace(expression) == "" {
		return false, nil
	}
	source := []byte("class NullProbe { void Check() { var probe = " + expression + "; } }")
	tree, err := syntax.Parse(ctx, source)
	if err != nil {
		return false, err
	}
	defer tree.Close()

	for _, null := range syntax.DescendantsOfKind(tree.Root(), syntax.KindNullLiteral) {
		parent := null.Parent()
		if parent == nil || parent.Type() != syntax.KindCast {
			return false, nil
		}
		castType := syntax.NodeText(parent.ChildByFieldName("type"), source)
		if _, ok := stringLikeTypes[castType]; !ok {
			return false, nil
		}
	}
	return true, nil
}
