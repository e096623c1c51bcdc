package aetherrt

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sortSCCs(sccs [][]int) [][]int {
	for _, scc := range sccs {
		sort.Ints(scc)
	}
	sort.Slice(sccs, func(i, j int) bool { return sccs[i][0] < sccs[j][0] })
	return sccs
}

func Test_ComputeSCCs(t *testing.T) {
	testCases := []struct {
		name  string
		nodes []int
		edges map[int][]int
		exp   [][]int
	}{
		{
			name:  "no edges",
			nodes: []int{1, 2, 3},
			edges: map[int][]int{},
			exp:   [][]int{{1}, {2}, {3}},
		},
		{
			name:  "self loop is its own component",
			nodes: []int{1},
			edges: map[int][]int{1: {1}},
			exp:   [][]int{{1}},
		},
		{
			name:  "two-node cycle",
			nodes: []int{1, 2},
			edges: map[int][]int{1: {2}, 2: {1}},
			exp:   [][]int{{1, 2}},
		},
		{
			name:  "chain stays separate",
			nodes: []int{1, 2, 3},
			edges: map[int][]int{1: {2}, 2: {3}},
			exp:   [][]int{{1}, {2}, {3}},
		},
		{
			name:  "cycle with a tail",
			nodes: []int{1, 2, 3, 4},
			edges: map[int][]int{1: {2}, 2: {3}, 3: {1}, 4: {1}},
			exp:   [][]int{{1, 2, 3}, {4}},
		},
		{
			name:  "two disjoint cycles",
			nodes: []int{1, 2, 3, 4},
			edges: map[int][]int{1: {2}, 2: {1}, 3: {4}, 4: {3}},
			exp:   [][]int{{1, 2}, {3, 4}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual := ComputeSCCs(tc.nodes, func(n int) []int { return tc.edges[n] })

			assert.Equal(tc.exp, sortSCCs(actual))
		})
	}
}

func Test_ComputeSCCs_ReverseTopological(t *testing.T) {
	// 1 -> 2 -> 3: the sink component must come out first.
	sccs := ComputeSCCs([]int{1, 2, 3}, func(n int) []int {
		if n < 3 {
			return []int{n + 1}
		}
		return nil
	})

	assert.Equal(t, [][]int{{3}, {2}, {1}}, sccs)
}
