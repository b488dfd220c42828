package identity

import (
	"context"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mutscope/mutscope/internal/syntax"
)

const demoSrc = `using System;

namespace Demo.App
{
    public class Calculator
    {
        public Calculator(int seed)
        {
        }

        public int Add(int a, int b)
        {
            return a + b;
        }

        public string Name { get; set; }
    }

    public class Repo<T>
    {
        public Repo(T seed)
        {
        }
    }
}
`

func parseDemo(t *testing.T) *syntax.Tree {
	t.Helper()
	tree, err := syntax.Parse(context.Background(), []byte(demoSrc))
	require.NoError(t, err)
	t.Cleanup(tree.Close)
	return tree
}

func findClass(t *testing.T, tree *syntax.Tree, name string) *sitter.Node {
	t.Helper()
	for _, c := range syntax.DescendantsOfKind(tree.Root(), syntax.KindClass) {
		if PlainClassName(c, tree.Source) == name {
			return c
		}
	}
	t.Fatalf("class %q not found", name)
	return nil
}

func TestClassNameIncludesGenericParameters(t *testing.T) {
	t.Parallel()
	tree := parseDemo(t)

	assert.Equal(t, "Calculator", ClassName(findClass(t, tree, "Calculator"), tree.Source))
	assert.Equal(t, "Repo<T>", ClassName(findClass(t, tree, "Repo"), tree.Source))
	assert.Equal(t, "Repo", PlainClassName(findClass(t, tree, "Repo"), tree.Source))
	assert.Empty(t, ClassName(nil, tree.Source))
}

func TestNamespaceFromClassWalksAncestors(t *testing.T) {
	t.Parallel()
	tree := parseDemo(t)

	ns, err := Namespace(findClass(t, tree, "Calculator"), tree.Source)
	require.NoError(t, err)
	assert.Equal(t, "Demo.App", ns)
}

func TestNamespaceFromRootFindsFirstDescendant(t *testing.T) {
	t.Parallel()
	tree := parseDemo(t)

	ns, err := Namespace(tree.Root(), tree.Source)
	require.NoError(t, err)
	assert.Equal(t, "Demo.App", ns)
}

func TestNamespaceNilNodeIsInvalidInput(t *testing.T) {
	t.Parallel()
	_, err := Namespace(nil, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestNamespaceAbsentYieldsEmpty(t *testing.T) {
	t.Parallel()
	tree, err := syntax.Parse(context.Background(), []byte("public class Bare { }\n"))
	require.NoError(t, err)
	t.Cleanup(tree.Close)

	cls := syntax.DescendantsOfKind(tree.Root(), syntax.KindClass)[0]
	ns, err := Namespace(cls, tree.Source)
	require.NoError(t, err)
	assert.Empty(t, ns)
}

func TestFullNameJoinsNamespaceAndClassName(t *testing.T) {
	t.Parallel()
	tree := parseDemo(t)

	for _, name := range []string{"Calculator", "Repo"} {
		cls := findClass(t, tree, name)
		ns, err := Namespace(cls, tree.Source)
		require.NoError(t, err)
		assert.Equal(t, ns+"."+ClassName(cls, tree.Source), FullName(cls, tree.Source))
	}
	assert.Equal(t, "Demo.App.Repo<T>", FullName(findClass(t, tree, "Repo"), tree.Source))
	assert.Empty(t, FullName(nil, tree.Source))
}

func TestMethodNameForMethodPropertyAndConstructor(t *testing.T) {
	t.Parallel()
	tree := parseDemo(t)
	calc := findClass(t, tree, "Calculator")

	method := syntax.DescendantsOfKind(calc, syntax.KindMethod)[0]
	name, err := MethodName(method, tree.Source)
	require.NoError(t, err)
	assert.Equal(t, "Add", name)

	prop := syntax.DescendantsOfKind(calc, syntax.KindProperty)[0]
	name, err = MethodName(prop, tree.Source)
	require.NoError(t, err)
	assert.Equal(t, "Name", name)

	ctor := syntax.DescendantsOfKind(calc, syntax.KindConstructor)[0]
	name, err = MethodName(ctor, tree.Source)
	require.NoError(t, err)
	assert.Equal(t, "Calculator", name)
}

func TestMethodNameConstructorOfGenericClassIsPlain(t *testing.T) {
	t.Parallel()
	tree := parseDemo(t)
	repo := findClass(t, tree, "Repo")

	ctor := syntax.DescendantsOfKind(repo, syntax.KindConstructor)[0]
	name, err := MethodName(ctor, tree.Source)
	require.NoError(t, err)
	assert.Equal(t, "Repo", name)
}

func TestMethodNameNilNodeIsInvalidInput(t *testing.T) {
	t.Parallel()
	_, err := MethodName(nil, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestMethodNameOtherKindsAreAbsent(t *testing.T) {
	t.Parallel()
	tree := parseDemo(t)

	name, err := MethodName(findClass(t, tree, "Calculator"), tree.Source)
	require.NoError(t, err)
	assert.Empty(t, name)
}

func TestMethodSignature(t *testing.T) {
	t.Parallel()
	tree := parseDemo(t)
	calc := findClass(t, tree, "Calculator")

	method := syntax.DescendantsOfKind(calc, syntax.KindMethod)[0]
	sig, err := MethodSignature(method, tree.Source)
	require.NoError(t, err)
	assert.Equal(t, "Add(int, int)", sig)

	ctor := syntax.DescendantsOfKind(calc, syntax.KindConstructor)[0]
	sig, err = MethodSignature(ctor, tree.Source)
	require.NoError(t, err)
	assert.Equal(t, "Calculator(int)", sig)

	prop := syntax.DescendantsOfKind(calc, syntax.KindProperty)[0]
	sig, err = MethodSignature(prop, tree.Source)
	require.NoError(t, err)
	assert.Equal(t, "Property - Name(string)", sig)
}

func TestMethodSignatureUnsupportedKind(t *testing.T) {
	t.Parallel()
	tree := parseDemo(t)

	_, err := MethodSignature(findClass(t, tree, "Calculator"), tree.Source)
	assert.ErrorIs(t, err, ErrUnsupportedNode)
}

func TestMethodSignatureNilNodeIsInvalidInput(t *testing.T) {
	t.Parallel()
	_, err := MethodSignature(nil, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
