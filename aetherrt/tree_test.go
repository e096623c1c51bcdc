package aetherrt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// parseExpr derives input under the E: E Plus E | N grammar and returns the
// parser with its BSR populated.
func parseExpr(t *testing.T, input string) *Parser {
	t.Helper()
	parser, err := parseInput(t, input, exprGrammar())
	require.NoError(t, err)
	require.True(t, parser.BSR().HasStart)
	return parser
}

func toTree(t *testing.T, b *BSR) TreeNode {
	t.Helper()
	conv := NewBSRToTreeConverter(b)
	conv.Run()
	require.NotNil(t, conv.Tree)
	return conv.Tree
}

func Test_BSRToTreeConverter_BuildsExpectedShape(t *testing.T) {
	parser := parseExpr(t, "n+n")
	require.NoError(t, NewBSRDisambiguator(parser.BSR()).Run())

	tree := toTree(t, parser.BSR())

	root, ok := tree.(*NonterminalTreeNode)
	require.True(t, ok)
	assert.Equal(t, "E", root.Type.Name)
	require.Len(t, root.Children, 3)

	left, ok := root.Children[0].(*NonterminalTreeNode)
	require.True(t, ok)
	require.Len(t, left.Children, 1)

	plus, ok := root.Children[1].(*TerminalTreeNode)
	require.True(t, ok)
	assert.Equal(t, tagPlus, plus.Tag)
	assert.Equal(t, "+", plus.EndTerm.Value)
}

func Test_TreePositionFixer_Invariants(t *testing.T) {
	parser := parseExpr(t, "n+n")
	require.NoError(t, NewBSRDisambiguator(parser.BSR()).Run())

	tree := toTree(t, parser.BSR())

	var check func(n TreeNode)
	check = func(n TreeNode) {
		switch node := n.(type) {
		case *TerminalTreeNode:
			assert.Equal(t, node.EndTerm.StartPosition, node.StartPos)
		case *NonterminalTreeNode:
			require.NotEmpty(t, node.Children)
			first := node.Children[0]
			last := node.Children[len(node.Children)-1]
			assert.Equal(t, first.Start(), node.StartPos)
			assert.Same(t, last.EndTerminal(), node.EndTerm)
			for _, c := range node.Children {
				check(c)
			}
		}
	}
	check(tree)
}

func Test_BSRPruner_DropsUnreachableNodes(t *testing.T) {
	parser := parseExpr(t, "n+n")
	require.NoError(t, NewBSRDisambiguator(parser.BSR()).Run())

	pruner := NewBSRPruner(parser.BSR())
	pruner.Run()

	assert.True(t, pruner.Result.HasStart)
	assert.Less(t, len(pruner.Result.epns), len(parser.BSR().epns))

	// the root reduction always survives.
	root := pruner.Result.get(bsrKeyFor(parser.Start(), 0, 3))
	assert.Len(t, root, 1)
}

func Test_BSR_TreeRoundTrip(t *testing.T) {
	parser := parseExpr(t, "n+n")
	require.NoError(t, NewBSRDisambiguator(parser.BSR()).Run())

	pruner := NewBSRPruner(parser.BSR())
	pruner.Run()
	pruned := pruner.Result

	tree := toTree(t, pruned)

	back := NewTreeToBSRConverter(tree)
	back.Run()

	require.True(t, back.BSR.HasStart)
	assert.Equal(t, pruned.StartPos, back.BSR.StartPos)
	assert.Equal(t, pruned.EndPos, back.BSR.EndPos)

	require.Len(t, back.BSR.epns, len(pruned.epns))
	for k, wantList := range pruned.epns {
		gotList := back.BSR.epns[k]
		require.Len(t, gotList, len(wantList), "key %v", k)
		for _, want := range wantList {
			found := false
			for _, got := range gotList {
				if got.equal(want) {
					found = true
					break
				}
			}
			assert.True(t, found, "EPN missing at key %v", k)
		}
	}
}

func Test_BSRDisambiguator_CustomPolicy(t *testing.T) {
	parser := parseExpr(t, "n+n+n")

	d := NewBSRDisambiguator(parser.BSR())
	// prefer the left-associative packing: the EPN whose last symbol
	// starts later covers more input with its left part.
	d.Choose = func(candidates []EPN) (EPN, error) {
		best := candidates[0]
		for _, c := range candidates[1:] {
			if c.State.SplitPosition.Index > best.State.SplitPosition.Index {
				best = c
			}
		}
		return best, nil
	}
	require.NoError(t, d.Run())

	tree := toTree(t, parser.BSR())
	root := tree.(*NonterminalTreeNode)
	require.Len(t, root.Children, 3)

	// ((n+n)+n): the left child is itself a three-child E.
	left, ok := root.Children[0].(*NonterminalTreeNode)
	require.True(t, ok)
	assert.Len(t, left.Children, 3)
	right, ok := root.Children[2].(*NonterminalTreeNode)
	require.True(t, ok)
	assert.Len(t, right.Children, 1)
}

func Test_BSRFold_CountsLeaves(t *testing.T) {
	parser := parseExpr(t, "n+n+n")
	d := NewBSRDisambiguator(parser.BSR())
	d.Choose = func(candidates []EPN) (EPN, error) { return candidates[0], nil }
	require.NoError(t, d.Run())

	fold := NewBSRFold[int](parser.BSR())
	fold.FoldInternal = func(_ EPN, left, right *int) int {
		total := 0
		if left != nil {
			total += *left
		}
		if right != nil {
			total += *right
		}
		return total
	}
	fold.FoldExternal = func(*Terminal) int { return 1 }

	assert.Equal(t, 5, fold.Fold())
}

func Test_TreeFold_ConcatenatesLeaves(t *testing.T) {
	parser := parseExpr(t, "n+n")
	require.NoError(t, NewBSRDisambiguator(parser.BSR()).Run())
	tree := toTree(t, parser.BSR())

	fold := &TreeFold[string]{
		FoldTerminal: func(n *TerminalTreeNode) string { return n.EndTerm.Value },
		FoldNonterminal: func(_ *NonterminalTreeNode, children []string) string {
			out := ""
			for _, c := range children {
				out += c
			}
			return out
		},
	}

	assert.Equal(t, "n+n", fold.Fold(tree))
}

func Test_BSRVisitor_AscendReversesDescend(t *testing.T) {
	parser := parseExpr(t, "n+n")
	require.NoError(t, NewBSRDisambiguator(parser.BSR()).Run())

	var descended, ascended []int
	v := &BSRVisitor{
		BSR: parser.BSR(),
		Descend: func(epns []EPN, _ bool) []EPN {
			descended = append(descended, len(epns))
			return epns
		},
		Ascend: func(epns []EPN, _ bool) {
			ascended = append(ascended, len(epns))
		},
	}
	v.Visit()

	require.NotEmpty(t, descended)
	require.Len(t, ascended, len(descended))
	for i := range descended {
		assert.Equal(t, descended[i], ascended[len(ascended)-1-i])
	}
}

func Test_BSRVisitor_BottomCanSuppressAscend(t *testing.T) {
	parser := parseExpr(t, "n+n")
	require.NoError(t, NewBSRDisambiguator(parser.BSR()).Run())

	ascends := 0
	v := &BSRVisitor{
		BSR:     parser.BSR(),
		Descend: func(epns []EPN, _ bool) []EPN { return epns },
		Bottom:  func() bool { return false },
		Ascend:  func([]EPN, bool) { ascends++ },
	}
	v.Visit()

	assert.Zero(t, ascends)
}
