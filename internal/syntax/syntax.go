// Package syntax wraps the tree-sitter C# grammar and provides the
// read-only tree queries the analysis packages are built on.
package syntax

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/csharp"
)

// Node kinds of the tree-sitter C# grammar used by the analysis layer.
const (
	KindCompilationUnit     = "compilation_unit"
	KindNamespace           = "namespace_declaration"
	KindFileScopedNamespace = "file_scoped_namespace_declaration"
	KindClass               = "class_declaration"
	KindMethod              = "method_declaration"
	KindConstructor         = "constructor_declaration"
	KindProperty            = "property_declaration"
	KindField               = "field_declaration"
	KindVariableDeclarator  = "variable_declarator"
	KindLocalDeclaration    = "local_declaration_statement"
	KindInvocation          = "invocation_expression"
	KindArgument            = "argument"
	KindAttributeList       = "attribute_list"
	KindAttribute           = "attribute"
	KindObjectCreation      = "object_creation_expression"
	KindCast                = "cast_expression"
	KindNullLiteral         = "null_literal"
	KindIdentifier          = "identifier"
	KindStringLiteral       = "string_literal"
	KindPredefinedType      = "predefined_type"
	KindParameterList       = "parameter_list"
	KindParameter           = "parameter"
	KindArrayType           = "array_type"
	KindTypeParameterList   = "type_parameter_list"
	KindBaseList            = "base_list"
	KindGenericName         = "generic_name"
	KindComment             = "comment"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// Tree is one parsed C# source text. It owns the underlying tree-sitter
// tree; nodes handed out by query functions stay valid until Close.
type Tree struct {
	Source []byte
	ts     *sitter.Tree
}

// Parse parses C# source text into a Tree. The returned tree is immutable;
// all analysis functions only read it.
func Parse(ctx context.Context, source []byte) (*Tree, error) {
	p := sitter.NewParser()
	p.SetLanguage(csharp.GetLanguage())
	ts, err := p.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parsing source: %w", err)
	}
	return &Tree{Source: source, ts: ts}, nil
}

// Root returns the compilation-unit node.
func (t *Tree) Root() *sitter.Node {
	return t.ts.RootNode()
}

// Text returns the source text of a node, or "" for nil.
func (t *Tree) Text(n *sitter.Node) string {
	return NodeText(n, t.Source)
}

// Close releases the underlying tree-sitter tree. Nodes obtained from this
// tree must not be used afterwards.
func (t *Tree) Close() {
	t.ts.Close()
}

// ClassFromSource parses raw source text and returns the tree together with
// the first class declaration matching name. An empty name matches the
// first class in the file. The class node is nil when no class matches;
// that is not an error.
func ClassFromSource(ctx context.Context, source []byte, name string) (*Tree, *sitter.Node, error) {
	tree, err := Parse(ctx, source)
	if err != nil {
		return nil, nil, err
	}
	for _, cls := range DescendantsOfKind(tree.Root(), KindClass) {
		if name == "" {
			return tree, cls, nil
		}
		id := cls.ChildByFieldName("name")
		if id != nil && NodeText(id, source) == name {
			return tree, cls, nil
		}
	}
	return tree, nil, nil
}

// NodeText returns the source text of a node, or "" for nil.
func NodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return string(source[node.StartByte():node.EndByte()])
}

// CollapseWhitespace replaces runs of whitespace with a single space and trims.
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// StripQuotes removes surrounding quote characters from a literal's text,
// including verbatim (@) and interpolated ($) prefixes.
func StripQuotes(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, "@$")
	return strings.Trim(s, `"`)
}
