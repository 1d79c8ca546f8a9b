package ast

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, src string) *Tree {
	t.Helper()
	tree, err := Parse(context.Background(), []byte(src))
	require.NoError(t, err)
	return tree
}

func TestParseCollectsComments(t *testing.T) {
	tree := mustParse(t, "# top\ndef foo # trailing\n  1\nend\n")
	require.False(t, tree.HasErrors())
	require.Len(t, tree.Comments, 2)
	assert.Equal(t, "# top", tree.Comments[0].Text(tree.Source))
	assert.Equal(t, "# trailing", tree.Comments[1].Text(tree.Source))
	assert.Equal(t, 2, tree.Comments[1].StartLine())
}

func TestParseReportsSyntaxErrors(t *testing.T) {
	tree := mustParse(t, "def foo\n  bar(\n")
	require.True(t, tree.HasErrors())
	assert.NotEmpty(t, tree.Errors[0].Message)
}

func TestWalkVisitsEachNamedNodeOnce(t *testing.T) {
	tree := mustParse(t, "class A\n  def b; c(1); end\nend\n")

	var types []string
	seen := map[[2]int]int{}
	Walk(tree.Root, VisitorFunc(func(n Node) {
		types = append(types, n.Type())
		seen[[2]int{n.StartOffset(), int(n.Kind())}]++
	}))

	require.NotEmpty(t, types)
	assert.Equal(t, "program", types[0])
	assert.Contains(t, types, "class")
	assert.Contains(t, types, "method")
	assert.Contains(t, types, "call")
	for key, count := range seen {
		assert.Equal(t, 1, count, "node at %v visited %d times", key, count)
	}
	// pre-order: class precedes method
	assert.Less(t, indexOf(types, "class"), indexOf(types, "method"))
}

func TestInspectPrunes(t *testing.T) {
	tree := mustParse(t, "def a\n  b\nend\n")
	var types []string
	Inspect(tree.Root, func(n Node) bool {
		types = append(types, n.Type())
		return n.Type() != "method"
	})
	assert.Equal(t, []string{"program", "method"}, types)
}

func TestKindSet(t *testing.T) {
	set, unknown := NewKindSet("call", "method", "no_such_node")
	assert.Equal(t, []string{"no_such_node"}, unknown)

	tree := mustParse(t, "def a; b(1); end\n")
	var hits []string
	Walk(tree.Root, VisitorFunc(func(n Node) {
		if set.Has(n.Kind()) {
			hits = append(hits, n.Type())
		}
	}))
	assert.Equal(t, []string{"method", "call"}, hits)

	var members int
	set.Each(func(Kind) { members++ })
	assert.Equal(t, set.Len(), members)
	assert.Equal(t, "call", KindsNamed("call")[0].String())
}

func TestFieldAccess(t *testing.T) {
	tree := mustParse(t, "binding.pry\n")
	var call Node
	Walk(tree.Root, VisitorFunc(func(n Node) {
		if n.Type() == "call" && call.IsNil() {
			call = n
		}
	}))
	require.False(t, call.IsNil())
	assert.Equal(t, "binding", call.Field("receiver").Text(tree.Source))
	assert.Equal(t, "pry", call.Field("method").Text(tree.Source))
}

func indexOf(xs []string, s string) int {
	for i, x := range xs {
		if x == s {
			return i
		}
	}
	return -1
}
