package syntax

import (
	"context"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) *Tree {
	t.Helper()
	tree, err := Parse(context.Background(), []byte(src))
	require.NoError(t, err)
	t.Cleanup(tree.Close)
	return tree
}

const calculatorSrc = `namespace Demo.App
{
    public class Calculator
    {
        public int Add(int a, int b)
        {
            return a + b;
        }

        public int Sub(int a, int b)
        {
            return a - b;
        }
    }
}
`

func TestDescendantsOfKindNilYieldsEmpty(t *testing.T) {
	t.Parallel()
	assert.Empty(t, DescendantsOfKind(nil, KindMethod))
}

func TestDescendantsOfKindFindsMethodsInOrder(t *testing.T) {
	t.Parallel()
	tree := parse(t, calculatorSrc)

	methods := DescendantsOfKind(tree.Root(), KindMethod)
	require.Len(t, methods, 2)
	assert.Equal(t, "Add", tree.Text(methods[0].ChildByFieldName("name")))
	assert.Equal(t, "Sub", tree.Text(methods[1].ChildByFieldName("name")))
}

func TestAncestorsOfKindInnermostFirst(t *testing.T) {
	t.Parallel()
	tree := parse(t, `namespace Outer
{
    public class Parent
    {
        public class Child
        {
            public void M()
            {
            }
        }
    }
}
`)

	methods := DescendantsOfKind(tree.Root(), KindMethod)
	require.Len(t, methods, 1)

	classes := AncestorsOfKind(methods[0], KindClass)
	require.Len(t, classes, 2)
	assert.Equal(t, "Child", tree.Text(classes[0].ChildByFieldName("name")))
	assert.Equal(t, "Parent", tree.Text(classes[1].ChildByFieldName("name")))

	assert.Empty(t, AncestorsOfKind(nil, KindClass))
}

func TestLineNumberSentinelOnNil(t *testing.T) {
	t.Parallel()
	assert.Equal(t, -1, LineNumber(nil))
	assert.Equal(t, -1, EndLineNumber(nil))
}

func TestLineNumbersAreOneBased(t *testing.T) {
	t.Parallel()
	tree := parse(t, calculatorSrc)

	classes := DescendantsOfKind(tree.Root(), KindClass)
	require.Len(t, classes, 1)
	assert.Equal(t, 3, LineNumber(classes[0]))
	assert.LessOrEqual(t, LineNumber(classes[0]), EndLineNumber(classes[0]))
}

func TestClassFromSourceByName(t *testing.T) {
	t.Parallel()
	src := []byte(`namespace D
{
    public class First { }
    public class Second { }
}
`)
	tree, cls, err := ClassFromSource(context.Background(), src, "Second")
	require.NoError(t, err)
	t.Cleanup(tree.Close)
	require.NotNil(t, cls)
	assert.Equal(t, "Second", tree.Text(cls.ChildByFieldName("name")))
}

func TestClassFromSourceDefaultsToFirstClass(t *testing.T) {
	t.Parallel()
	src := []byte(`public class Only { }
`)
	tree, cls, err := ClassFromSource(context.Background(), src, "")
	require.NoError(t, err)
	t.Cleanup(tree.Close)
	require.NotNil(t, cls)
	assert.Equal(t, "Only", tree.Text(cls.ChildByFieldName("name")))
}

func TestClassFromSourceMissingClassIsNotAnError(t *testing.T) {
	t.Parallel()
	tree, cls, err := ClassFromSource(context.Background(), []byte("public class Other { }\n"), "Absent")
	require.NoError(t, err)
	t.Cleanup(tree.Close)
	assert.Nil(t, cls)
}

func TestLeadingCommentTextSkipsUsingDirectives(t *testing.T) {
	t.Parallel()
	tree := parse(t, `// <auto-generated>
//     Generated by a tool.
// </auto-generated>
using System;

namespace D
{
    public class Gen { }
}
`)

	var ns *sitter.Node
	for _, n := range DescendantsOfKind(tree.Root(), KindNamespace, KindFileScopedNamespace) {
		ns = n
		break
	}
	require.NotNil(t, ns)

	text := LeadingCommentText(ns, tree.Source)
	assert.Contains(t, text, "<auto-generated>")
	assert.Contains(t, text, "Generated by a tool.")
}

func TestLeadingCommentTextEmptyWithoutComments(t *testing.T) {
	t.Parallel()
	tree := parse(t, calculatorSrc)
	classes := DescendantsOfKind(tree.Root(), KindClass)
	require.Len(t, classes, 1)
	assert.Empty(t, LeadingCommentText(classes[0], tree.Source))
	assert.Empty(t, LeadingCommentText(nil, tree.Source))
}

func TestEnclosingRegions(t *testing.T) {
	t.Parallel()
	tree := parse(t, `public class Form1
{
    #region Windows Form Designer generated code
    private void InitializeComponent()
    {
    }
    #endregion

    public void Real()
    {
    }
}
`)

	methods := DescendantsOfKind(tree.Root(), KindMethod)
	require.Len(t, methods, 2)

	regions := EnclosingRegions(methods[0], tree.Root(), tree.Source)
	require.Len(t, regions, 1)
	assert.Contains(t, regions[0], "Windows Form Designer generated code")

	assert.Empty(t, EnclosingRegions(methods[1], tree.Root(), tree.Source))
	assert.Empty(t, EnclosingRegions(nil, tree.Root(), tree.Source))
}

func TestSplitDeclarator(t *testing.T) {
	t.Parallel()
	tree := parse(t, `public class Fixture
{
    private string name = "Foo";
    private int bare;
}
`)

	decls := DescendantsOfKind(tree.Root(), KindVariableDeclarator)
	require.Len(t, decls, 2)

	name, init := SplitDeclarator(decls[0], tree.Source)
	assert.Equal(t, "name", name)
	require.NotNil(t, init)
	assert.Equal(t, `"Foo"`, tree.Text(init))

	name, init = SplitDeclarator(decls[1], tree.Source)
	assert.Equal(t, "bare", name)
	assert.Nil(t, init)

	name, init = SplitDeclarator(nil, tree.Source)
	assert.Empty(t, name)
	assert.Nil(t, init)
}

func TestStripQuotes(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "Add", StripQuotes(`"Add"`))
	assert.Equal(t, "Add", StripQuotes(`@"Add"`))
	assert.Equal(t, "Add", StripQuotes(` "Add" `))
	assert.Equal(t, "Add", StripQuotes("Add"))
}

func TestCollapseWhitespace(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "int a, int b", CollapseWhitespace("int a,\n    int b "))
}
