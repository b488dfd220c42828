// Package identity resolves names, namespaces and signature strings for C#
// declarations. Comparisons elsewhere in the analyzer are textual, so every
// function here returns the literal source text of the relevant nodes.
package identity

import (
	"errors"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/mutscope/mutscope/internal/syntax"
)

// ErrInvalidInput reports a required node argument that was absent.
var ErrInvalidInput = errors.New("invalid input")

// ErrUnsupportedNode reports a node of an unexpected kind passed to a
// signature-formatting function.
var ErrUnsupportedNode = errors.New("unsupported node kind")

// ClassName returns the class identifier including its literal generic
// parameter list, e.g. "Repo<T>" for class Repo<T>. Returns "" for nil.
func ClassName(class *sitter.Node, source []byte) string {
	if class == nil {
		return ""
	}
	name := syntax.NodeText(class.ChildByFieldName("name"), source)
	// The type parameter list carries no field name in this grammar, so a
	// field lookup misses it; scan the named children instead.
	for i := 0; i < int(class.NamedChildCount()); i++ {
		if c := class.NamedChild(i); c.Type() == syntax.KindTypeParameterList {
			name += syntax.NodeText(c, source)
			break
		}
	}
	return name
}

// PlainClassName returns the class identifier without any generic
// parameter list.
func PlainClassName(class *sitter.Node, source []byte) string {
	if class == nil {
		return ""
	}
	return syntax.NodeText(class.ChildByFieldName("name"), source)
}

// Namespace resolves the namespace a node belongs to. For a class
// declaration it walks ancestors to the nearest enclosing namespace; for
// any other node (typically a compilation unit) it returns the first
// namespace declaration found among descendants. A file with no namespace
// yields "".
func Namespace(node *sitter.Node, source []byte) (string, error) {
	if node == nil {
		return "", fmt.Errorf("resolving namespace: %w", ErrInvalidInput)
	}
	if node.Type() == syntax.KindClass {
		anc := syntax.AncestorsOfKind(node, syntax.KindNamespace, syntax.KindFileScopedNamespace)
		if len(anc) == 0 {
			return "", nil
		}
		return syntax.NodeText(anc[0].ChildByFieldName("name"), source), nil
	}
	desc := syntax.DescendantsOfKind(node, syntax.KindNamespace, syntax.KindFileScopedNamespace)
	if len(desc) == 0 {
		return "", nil
	}
	return syntax.NodeText(desc[0].ChildByFieldName("name"), source), nil
}

// FullName returns "{namespace}.{className}" for a class declaration,
// keeping the generic parameter text. Returns "" for nil.
func FullName(class *sitter.Node, source []byte) string {
	if class == nil {
		return ""
	}
	name := ClassName(class, source)
	ns, err := Namespace(class, source)
	if err != nil || ns == "" {
		return name
	}
	return ns + "." + name
}

// MethodName returns the name of a method, constructor or property
// declaration. Constructors take the enclosing class's plain name (they
// have no independent identifier to match against). Other node kinds yield
// "" without error; a nil node is an error.
func MethodName(node *sitter.Node, source []byte) (string, error) {
	if node == nil {
		return "", fmt.Errorf("resolving method name: %w", ErrInvalidInput)
	}
	switch node.Type() {
	case syntax.KindMethod, syntax.KindProperty:
		return syntax.NodeText(node.ChildByFieldName("name"), source), nil
	case syntax.KindConstructor:
		anc := syntax.AncestorsOfKind(node, syntax.KindClass)
		if len(anc) == 0 {
			return syntax.NodeText(node.ChildByFieldName("name"), source), nil
		}
		return PlainClassName(anc[0], source), nil
	default:
		return "", nil
	}
}

// MethodSignature formats a declaration as "name(type1, type2, ...)".
// Properties render as "Property - name(typeText)". Any other node kind is
// an error.
func MethodSignature(node *sitter.Node, source []byte) (string, error) {
	if node == nil {
		return "", fmt.Errorf("formatting signature: %w", ErrInvalidInput)
	}
	switch node.Type() {
	case syntax.KindProperty:
		name := syntax.NodeText(node.ChildByFieldName("name"), source)
		typeText := syntax.NodeText(node.ChildByFieldName("type"), source)
		return fmt.Sprintf("Property - %s(%s)", name, typeText), nil
	case syntax.KindMethod, syntax.KindConstructor:
		name, err := MethodName(node, source)
		if err != nil {
			return "", err
		}
		return name + "(" + strings.Join(parameterTypes(node, source), ", ") + ")", nil
	default:
		return "", fmt.Errorf("formatting signature for %s: %w", node.Type(), ErrUnsupportedNode)
	}
}

func parameterTypes(node *sitter.Node, source []byte) []string {
	params := node.ChildByFieldName("parameters")
	if params == nil {
		return nil
	}
	var types []string
	for i := 0; i < int(params.NamedChildCount()); i++ {
		p := params.NamedChild(i)
		if p.Type() != syntax.KindParameter {
			continue
		}
		types = append(types, syntax.NodeText(p.ChildByFieldName("type"), source))
	}
	return types
}
