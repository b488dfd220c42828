// Package correlate decides whether a test method targets a given source
// method. The heuristic is an ordered list of independent stages evaluated
// with early exit, from strict naming conventions down to string-keyed
// indirection. It deliberately favors recall: a false positive only causes
// an extra test run, a miss silently mislabels mutation coverage.
package correlate

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/mutscope/mutscope/internal/syntax"
)

// constructorToken substitutes for the method name when the source method
// is a constructor, which has no independent name to match against.
const constructorToken = "constructor"

// IsValidTest reports whether testMethod exercises the source method
// sourceMethodName declared on sourceClassName. testClass is the class
// declaration enclosing the test method; it is consulted only by the
// indirect-variable stage. Non-method nodes never match.
func IsValidTest(testMethod *sitter.Node, source []byte, sourceClassName, sourceMethodName string, testClass *sitter.Node) bool {
	if testMethod == nil || testMethod.Type() != syntax.KindMethod {
		return false
	}
	if sourceMethodName == sourceClassName {
		sourceMethodName = constructorToken
	}

	if matchesNamingConvention(testMethod, source, sourceMethodName) {
		return true
	}

	invocations := syntax.DescendantsOfKind(testMethod, syntax.KindInvocation)
	if matchesDirectCall(invocations, source, sourceMethodName) {
		return true
	}
	if matchesCallSubstring(invocations, source, sourceMethodName) {
		return true
	}

	args := argumentTexts(testMethod, source)
	if matchesLiteralArgument(args, sourceMethodName) {
		return true
	}
	return matchesIndirectVariable(args, testClass, source, sourceMethodName)
}

// Stage 1: the test name's segment before the first underscore names the
// source method (case-insensitive).
func matchesNamingConvention(testMethod *sitter.Node, source []byte, methodName string) bool {
	name := syntax.NodeText(testMethod.ChildByFieldName("name"), source)
	idx := strings.Index(name, "_")
	if idx < 0 {
		return false
	}
	return strings.EqualFold(name[:idx], methodName)
}

// Stage 2: some invocation in the body calls the method by exact name
// (case-insensitive).
func matchesDirectCall(invocations []*sitter.Node, source []byte, methodName string) bool {
	for _, inv := range invocations {
		fn := syntax.NodeText(inv.ChildByFieldName("function"), source)
		if strings.EqualFold(fn, methodName) {
			return true
		}
	}
	return false
}

// Stage 3: the invoked expression merely contains the method name. Looser
// than stage 2 and overlapping with it; catches member-chain calls like
// sut.Foo() at the cost of more false positives.
func matchesCallSubstring(invocations []*sitter.Node, source []byte, methodName string) bool {
	for _, inv := range invocations {
		fn := syntax.NodeText(inv.ChildByFieldName("function"), source)
		if strings.Contains(fn, methodName) {
			return true
		}
	}
	return false
}

// Stage 4: some call argument, quotes stripped, equals the method name
// (case-insensitive). Covers reflection-style invocation.
func matchesLiteralArgument(args []string, methodName string) bool {
	for _, a := range args {
		if strings.EqualFold(a, methodName) {
			return true
		}
	}
	return false
}

// Stage 5: an argument names a field or local whose initializer, quotes
// stripped, equals the method name exactly. Covers "name stored in a
// variable, variable passed as argument" patterns.
func matchesIndirectVariable(args []string, testClass *sitter.Node, source []byte, methodName string) bool {
	if testClass == nil || len(args) == 0 {
		return false
	}
	argSet := make(map[string]struct{}, len(args))
	for _, a := range args {
		argSet[a] = struct{}{}
	}
	for _, decl := range syntax.DescendantsOfKind(testClass, syntax.KindVariableDeclarator) {
		name, init := syntax.SplitDeclarator(decl, source)
		if name == "" || init == nil {
			continue
		}
		if _, ok := argSet[name]; !ok {
			continue
		}
		if syntax.StripQuotes(syntax.NodeText(init, source)) == methodName {
			return true
		}
	}
	return false
}

func argumentTexts(testMethod *sitter.Node, source []byte) []string {
	var out []string
	for _, arg := range syntax.DescendantsOfKind(testMethod, syntax.KindArgument) {
		out = append(out, syntax.StripQuotes(syntax.NodeText(arg, source)))
	}
	return out
}
