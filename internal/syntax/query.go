package syntax

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// DescendantsOfKind returns all descendants of node matching one of the
// given kinds, in depth-first pre-order. The node itself is never included.
// A nil node yields nil.
func DescendantsOfKind(node *sitter.Node, kinds ...string) []*sitter.Node {
	if node == nil {
		return nil
	}
	var out []*sitter.Node
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		for i := 0; i < int(n.NamedChildCount()); i++ {
			child := n.NamedChild(i)
			if matchesKind(child, kinds) {
				out = append(out, child)
			}
			walk(child)
		}
	}
	walk(node)
	return out
}

// AncestorsOfKind walks strictly upward from node's parent to the root and
// returns ancestors matching one of the given kinds, innermost first.
// A nil node yields nil.
func AncestorsOfKind(node *sitter.Node, kinds ...string) []*sitter.Node {
	if node == nil {
		return nil
	}
	var out []*sitter.Node
	for p := node.Parent(); p != nil; p = p.Parent() {
		if matchesKind(p, kinds) {
			out = append(out, p)
		}
	}
	return out
}

func matchesKind(n *sitter.Node, kinds []string) bool {
	for _, k := range kinds {
		if n.Type() == k {
			return true
		}
	}
	return false
}

// LineNumber returns the 1-based start line of a node, or -1 for nil.
func LineNumber(node *sitter.Node) int {
	if node == nil {
		return -1
	}
	return int(node.StartPoint().Row) + 1
}

// EndLineNumber returns the 1-based end line of a node, or -1 for nil.
func EndLineNumber(node *sitter.Node) int {
	if node == nil {
		return -1
	}
	return int(node.EndPoint().Row) + 1
}

// LeadingCommentText concatenates the text of the comment nodes that
// precede node among its siblings, in source order. Non-comment siblings
// (e.g. using directives between a file header and a namespace) are
// skipped, so a generated-file header at the top of the file is still seen
// by callers inspecting the namespace below it.
func LeadingCommentText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	var parts []string
	for s := node.PrevNamedSibling(); s != nil; s = s.PrevNamedSibling() {
		if s.Type() == KindComment {
			parts = append(parts, NodeText(s, source))
		}
	}
	// Reverse into source order.
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "\n")
}

type regionSpan struct {
	text      string
	startLine int
	endLine   int
}

// EnclosingRegions returns the text of every #region directive whose span
// contains node, innermost last. Region directives are preprocessor nodes
// in the C# grammar; they are paired by nesting order.
func EnclosingRegions(node *sitter.Node, root *sitter.Node, source []byte) []string {
	if node == nil || root == nil {
		return nil
	}
	spans := regionSpans(root, source)
	line := LineNumber(node)
	var out []string
	for _, sp := range spans {
		if sp.startLine < line && line <= sp.endLine {
			out = append(out, sp.text)
		}
	}
	return out
}

func regionSpans(root *sitter.Node, source []byte) []regionSpan {
	var spans []regionSpan
	var open []regionSpan

	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		for i := 0; i < int(n.ChildCount()); i++ {
			child := n.Child(i)
			if strings.HasPrefix(child.Type(), "preproc") {
				text := strings.TrimSpace(NodeText(child, source))
				switch {
				case strings.HasPrefix(text, "#region"):
					open = append(open, regionSpan{
						text:      strings.TrimSpace(strings.TrimPrefix(text, "#region")),
						startLine: LineNumber(child),
					})
				case strings.HasPrefix(text, "#endregion"):
					if len(open) > 0 {
						sp := open[len(open)-1]
						open = open[:len(open)-1]
						sp.endLine = LineNumber(child)
						spans = append(spans, sp)
					}
				}
				continue
			}
			walk(child)
		}
	}
	walk(root)
	return spans
}
