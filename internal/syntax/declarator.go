package syntax

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// SplitDeclarator returns the declared name and the initializer expression
// of a variable_declarator, or a nil initializer when the declarator has
// none. The grammar has shipped the initializer both as a bare expression
// after "=" and wrapped in an equals_value_clause, so both shapes are
// handled.
func SplitDeclarator(decl *sitter.Node, source []byte) (string, *sitter.Node) {
	if decl == nil || decl.Type() != KindVariableDeclarator {
		return "", nil
	}
	var name string
	sawEquals := false
	for i := 0; i < int(decl.ChildCount()); i++ {
		c := decl.Child(i)
		switch {
		case c.Type() == "=":
			sawEquals = true
		case c.Type() == "equals_value_clause":
			if n := c.NamedChildCount(); n > 0 {
				return name, c.NamedChild(int(n) - 1)
			}
		case c.Type() == KindIdentifier && name == "":
			name = NodeText(c, source)
		case sawEquals && c.IsNamed():
			return name, c
		}
	}
	return name, nil
}
