// Package testcase extracts parameterized test-case declarations and
// single-line parameter lists from test methods, tagged with the source
// line after which generated text can be spliced.
//
// Extraction is all-or-nothing per method: if any matched case spans more
// than one physical line, or two cases share a line, nothing is returned.
// Splicing into such a method would corrupt the surrounding text.
package testcase

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/mutscope/mutscope/internal/model"
	"github.com/mutscope/mutscope/internal/syntax"
)

// Attribute names of the test-framework convention this analyzer speaks.
const (
	caseAttribute       = "TestCase"
	caseSourceAttribute = "TestCaseSource"
	setUpPrefix         = "SetUp"
	tearDownPrefix      = "TearDown"
)

// TestCases returns the parameterized cases declared on a test method,
// either inline ([TestCase(...)] attributes) or through a [TestCaseSource]
// indirection to another member of the enclosing class. Lookup failures and
// rejected layouts yield an empty result, never an error.
func TestCases(method *sitter.Node, source []byte) []model.TestCase {
	if method == nil || method.Type() != syntax.KindMethod {
		return nil
	}
	if src := findAttribute(method, caseSourceAttribute, source); src != nil {
		return sourcedCases(method, src, source)
	}
	return inlineCases(method, source)
}

// inlineCases extracts [TestCase(...)] attributes, one per physical line.
func inlineCases(method *sitter.Node, source []byte) []model.TestCase {
	type entry struct {
		list *sitter.Node
	}
	var entries []entry
	for _, list := range attributeLists(method) {
		for _, attr := range attributesIn(list) {
			if attributeName(attr, source) == caseAttribute {
				entries = append(entries, entry{list: list})
			}
		}
	}
	if len(entries) == 0 {
		return nil
	}

	seen := make(map[int]struct{}, len(entries))
	for _, e := range entries {
		start := syntax.LineNumber(e.list)
		if start != syntax.EndLineNumber(e.list) {
			return nil
		}
		if _, dup := seen[start]; dup {
			return nil
		}
		seen[start] = struct{}{}
	}

	cases := make([]model.TestCase, 0, len(entries))
	for _, e := range entries {
		body := strings.ReplaceAll(syntax.NodeText(e.list, source), "\r", "")
		body = strings.TrimRight(strings.ReplaceAll(body, "\n", ""), " \t")
		cases = append(cases, model.TestCase{
			Body:          body,
			InsertionLine: syntax.LineNumber(e.list) + 1,
			Closing:       ']',
		})
	}
	return cases
}

// sourcedCases resolves a [TestCaseSource] attribute to a member of the
// enclosing class and extracts one case per object-construction expression
// nested under it.
func sourcedCases(method, attr *sitter.Node, source []byte) []model.TestCase {
	memberName := sourceMemberName(attr, source)
	if memberName == "" {
		return nil
	}
	class := enclosingClass(method)
	member := lookupMember(class, memberName, source)
	if member == nil {
		return nil
	}

	creations := syntax.DescendantsOfKind(member, syntax.KindObjectCreation)
	if len(creations) == 0 {
		return nil
	}
	seen := make(map[int]struct{}, len(creations))
	for _, c := range creations {
		start := syntax.LineNumber(c)
		if start != syntax.EndLineNumber(c) {
			return nil
		}
		if _, dup := seen[start]; dup {
			return nil
		}
		seen[start] = struct{}{}
	}

	cases := make([]model.TestCase, 0, len(creations))
	for _, c := range creations {
		cases = append(cases, model.TestCase{
			Body:          strings.TrimSpace(syntax.NodeText(c, source)),
			InsertionLine: syntax.LineNumber(c) + 1,
			Closing:       ',',
		})
	}
	return cases
}

// sourceMemberName resolves the first attribute argument to a member name.
// The last identifier wins (covers nameof(Member) and typeof chains); a
// string literal is the fallback for name-by-string sources.
func sourceMemberName(attr *sitter.Node, source []byte) string {
	args := attributeArguments(attr)
	if args == nil || args.NamedChildCount() == 0 {
		return ""
	}
	first := args.NamedChild(0)
	ids := syntax.DescendantsOfKind(first, syntax.KindIdentifier)
	if first.Type() == syntax.KindIdentifier {
		ids = append(ids, first)
	}
	if len(ids) > 0 {
		return syntax.NodeText(ids[len(ids)-1], source)
	}
	lits := syntax.DescendantsOfKind(first, syntax.KindStringLiteral)
	if first.Type() == syntax.KindStringLiteral {
		lits = append(lits, first)
	}
	if len(lits) > 0 {
		return syntax.StripQuotes(syntax.NodeText(lits[0], source))
	}
	return ""
}

func enclosingClass(method *sitter.Node) *sitter.Node {
	anc := syntax.AncestorsOfKind(method, syntax.KindClass)
	if len(anc) == 0 {
		return nil
	}
	return anc[0]
}

// lookupMember searches the class's methods, then properties, then fields
// for a member with the given name. The priority order on a name collision
// is deliberate and load-bearing for downstream splicing.
func lookupMember(class *sitter.Node, name string, source []byte) *sitter.Node {
	if class == nil {
		return nil
	}
	for _, m := range syntax.DescendantsOfKind(class, syntax.KindMethod) {
		if syntax.NodeText(m.ChildByFieldName("name"), source) == name {
			return m
		}
	}
	for _, p := range syntax.DescendantsOfKind(class, syntax.KindProperty) {
		if syntax.NodeText(p.ChildByFieldName("name"), source) == name {
			return p
		}
	}
	for _, f := range syntax.DescendantsOfKind(class, syntax.KindField) {
		for _, d := range syntax.DescendantsOfKind(f, syntax.KindVariableDeclarator) {
			if declName, _ := syntax.SplitDeclarator(d, source); declName == name {
				return d
			}
		}
	}
	return nil
}

// MethodParameters returns the last physical line of a method's parameter
// list and the line after which a new parameter can be inserted. Methods
// without parameters yield nil.
func MethodParameters(method *sitter.Node, source []byte) *model.MethodParameterList {
	if method == nil {
		return nil
	}
	params := method.ChildByFieldName("parameters")
	if params == nil || params.NamedChildCount() == 0 {
		return nil
	}
	text := strings.ReplaceAll(syntax.NodeText(params, source), "\r", "")
	lines := strings.Split(text, "\n")
	return &model.MethodParameterList{
		OriginalText:  lines[len(lines)-1],
		InsertionLine: syntax.EndLineNumber(params) + 1,
	}
}

// SetUpMethod returns the first method of the class carrying an attribute
// whose name starts with "SetUp", or nil.
func SetUpMethod(class *sitter.Node, source []byte) *sitter.Node {
	return firstMethodWithAttributePrefix(class, setUpPrefix, source)
}

// TearDownMethod returns the first method of the class carrying an
// attribute whose name starts with "TearDown", or nil.
func TearDownMethod(class *sitter.Node, source []byte) *sitter.Node {
	return firstMethodWithAttributePrefix(class, tearDownPrefix, source)
}

func firstMethodWithAttributePrefix(class *sitter.Node, prefix string, source []byte) *sitter.Node {
	for _, method := range syntax.DescendantsOfKind(class, syntax.KindMethod) {
		for _, list := range attributeLists(method) {
			for _, attr := range attributesIn(list) {
				if strings.HasPrefix(attributeName(attr, source), prefix) {
					return method
				}
			}
		}
	}
	return nil
}

// FieldInitializers maps every initialized, non-array field of the class to
// its initializer expression. The first declaration wins on duplicate
// names. A nil class yields an empty map.
func FieldInitializers(class *sitter.Node, source []byte) map[string]*sitter.Node {
	out := make(map[string]*sitter.Node)
	if class == nil {
		return out
	}
	for _, field := range syntax.DescendantsOfKind(class, syntax.KindField) {
		if fieldTypeIsArray(field) {
			continue
		}
		for _, d := range syntax.DescendantsOfKind(field, syntax.KindVariableDeclarator) {
			name, init := syntax.SplitDeclarator(d, source)
			if name == "" || init == nil {
				continue
			}
			if _, exists := out[name]; !exists {
				out[name] = init
			}
		}
	}
	return out
}

func fieldTypeIsArray(field *sitter.Node) bool {
	for i := 0; i < int(field.NamedChildCount()); i++ {
		c := field.NamedChild(i)
		if c.Type() != "variable_declaration" {
			continue
		}
		if t := c.ChildByFieldName("type"); t != nil {
			return t.Type() == syntax.KindArrayType
		}
	}
	return false
}

// attributeLists returns the attribute_list nodes attached directly to a
// declaration, excluding lists nested in parameters or the body.
func attributeLists(decl *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	for i := 0; i < int(decl.NamedChildCount()); i++ {
		if c := decl.NamedChild(i); c.Type() == syntax.KindAttributeList {
			out = append(out, c)
		}
	}
	return out
}

func attributesIn(list *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	for i := 0; i < int(list.NamedChildCount()); i++ {
		if c := list.NamedChild(i); c.Type() == syntax.KindAttribute {
			out = append(out, c)
		}
	}
	return out
}

func attributeName(attr *sitter.Node, source []byte) string {
	if n := attr.ChildByFieldName("name"); n != nil {
		return syntax.NodeText(n, source)
	}
	for i := 0; i < int(attr.NamedChildCount()); i++ {
		if c := attr.NamedChild(i); c.Type() == syntax.KindIdentifier {
			return syntax.NodeText(c, source)
		}
	}
	return ""
}

func attributeArguments(attr *sitter.Node) *sitter.Node {
	for i := 0; i < int(attr.NamedChildCount()); i++ {
		if c := attr.NamedChild(i); c.Type() == "attribute_argument_list" {
			return c
		}
	}
	return nil
}

func findAttribute(method *sitter.Node, name string, source []byte) *sitter.Node {
	for _, list := range attributeLists(method) {
		for _, attr := range attributesIn(list) {
			if attributeName(attr, source) == name {
				return attr
			}
		}
	}
	return nil
}
