// Package coverage decides whether a class should be excluded from
// mutation/coverage instrumentation. All checks are structural or textual;
// no symbol resolution happens here.
package coverage

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/mutscope/mutscope/internal/identity"
	"github.com/mutscope/mutscope/internal/syntax"
)

// autoGeneratedMarker is the conventional header of generated C# files.
const autoGeneratedMarker = "<auto-generated"

// dataContextBase is the Entity Framework context base type. Classes
// deriving from it are persistence plumbing, not mutable logic.
const dataContextBase = "DbContext"

const exceptionSuffix = "Exception"

// linqNamespacePrefix marks sequence-utility namespaces whose members are
// extension plumbing.
const linqNamespacePrefix = "System.Linq"

// protocolOverrides are the object-protocol methods every type carries.
var protocolOverrides = map[string]struct{}{
	"ToString":    {},
	"Equals":      {},
	"GetHashCode": {},
}

// generatedRegionMarkers identify designer-generated code regions,
// matched case-insensitively against the enclosing #region text.
var generatedRegionMarkers = []string{
	"windows form designer generated code",
	"component designer generated code",
	"designer generated code",
}

// ShouldExclude reports whether a class declaration should be excluded from
// mutation and coverage instrumentation. Rules are evaluated in order;
// the first match wins.
func ShouldExclude(class *sitter.Node, source []byte) bool {
	if class == nil {
		return true
	}
	if inGeneratedFile(class, source) {
		return true
	}
	if hasExcludedBase(class, source) {
		return true
	}
	if isUtilityShaped(class, source) {
		return true
	}
	return onlyTrivialMethods(class, source)
}

// IsProtocolOverride reports whether a method declaration is one of the
// fixed object-protocol overrides (ToString, Equals, GetHashCode).
func IsProtocolOverride(method *sitter.Node, source []byte) bool {
	if method == nil || method.Type() != syntax.KindMethod {
		return false
	}
	name := syntax.NodeText(method.ChildByFieldName("name"), source)
	_, ok := protocolOverrides[name]
	return ok
}

func inGeneratedFile(class *sitter.Node, source []byte) bool {
	anc := syntax.AncestorsOfKind(class, syntax.KindNamespace, syntax.KindFileScopedNamespace)
	if len(anc) == 0 {
		return false
	}
	trivia := syntax.LeadingCommentText(anc[0], source)
	return strings.Contains(strings.ToLower(trivia), autoGeneratedMarker)
}

func hasExcludedBase(class *sitter.Node, source []byte) bool {
	// base_list carries no field name in this grammar, so a field lookup
	// misses it; scan the named children instead.
	var bases *sitter.Node
	for i := 0; i < int(class.NamedChildCount()); i++ {
		if c := class.NamedChild(i); c.Type() == syntax.KindBaseList {
			bases = c
			break
		}
	}
	if bases == nil {
		return false
	}
	for i := 0; i < int(bases.NamedChildCount()); i++ {
		name := baseTypeName(bases.NamedChild(i), source)
		if name == dataContextBase || strings.HasSuffix(name, exceptionSuffix) {
			return true
		}
	}
	return false
}

// baseTypeName returns the textual name of a base-list entry, using the
// generic base name when the entry is generic (Repo<T> yields "Repo").
func baseTypeName(entry *sitter.Node, source []byte) string {
	if entry == nil {
		return ""
	}
	if entry.Type() == syntax.KindGenericName {
		for i := 0; i < int(entry.NamedChildCount()); i++ {
			if c := entry.NamedChild(i); c.Type() == syntax.KindIdentifier {
				return syntax.NodeText(c, source)
			}
		}
	}
	text := syntax.NodeText(entry, source)
	if idx := strings.Index(text, "<"); idx > 0 {
		return text[:idx]
	}
	return text
}

func isUtilityShaped(class *sitter.Node, source []byte) bool {
	ns, err := identity.Namespace(class, source)
	if err == nil && strings.HasPrefix(ns, linqNamespacePrefix) {
		return true
	}
	name := identity.PlainClassName(class, source)
	return strings.HasSuffix(name, "Collections") || strings.HasSuffix(name, "Collection")
}

// onlyTrivialMethods reports whether every method of the class is a
// protocol override, a fluent-builder method returning the class's own
// type, or designer-generated. A class with at least one method doing
// independently checkable work is kept.
func onlyTrivialMethods(class *sitter.Node, source []byte) bool {
	className := identity.PlainClassName(class, source)
	root := class
	for p := root.Parent(); p != nil; p = p.Parent() {
		root = p
	}
	for _, method := range syntax.DescendantsOfKind(class, syntax.KindMethod) {
		if IsProtocolOverride(method, source) {
			continue
		}
		if returnTypeText(method, source) == className {
			continue
		}
		if inGeneratedRegion(method, root, source) {
			continue
		}
		return false
	}
	return true
}

func returnTypeText(method *sitter.Node, source []byte) string {
	if t := method.ChildByFieldName("type"); t != nil {
		return syntax.NodeText(t, source)
	}
	if t := method.ChildByFieldName("returns"); t != nil {
		return syntax.NodeText(t, source)
	}
	return ""
}

func inGeneratedRegion(method, root *sitter.Node, source []byte) bool {
	for _, region := range syntax.EnclosingRegions(method, root, source) {
		lower := strings.ToLower(region)
		for _, marker := range generatedRegionMarkers {
			if strings.Contains(lower, marker) {
				return true
			}
		}
	}
	return false
}
