package sysmodel

import "fmt"

// DAG is the square transition-probability matrix T[i][j] = Pr(next=i | current=j)
// over topologically-renumbered component indices: i<j implies i never appears
// after j on any path, and the root has index 0 when unique.
type DAG struct {
	T [][]float64
}

// Root returns the index of the unique root (a row of T with no incoming
// mass, i.e. all zeros — the component nobody transitions into). Per spec §3 the root has index 0 after renumbering.
func (d *DAG) Root() int { return 0 }

// topoOrder computes a topological order such that for every non-zero
// T[i][j], j precedes i (j produces, i consumes). Components are indexed
// 0..numComp-1 in input order; the returned permutation maps old index ->
// new index.
//
// Space4AI DAGs are specified edge-first (name -> {next: [...]}), so we
// build successor/predecessor sets from that and run a standard Kahn's
// algorithm, then renumber so the unique root lands on 0.
func topoOrder(numComp int, edges map[int][]int) ([]int, error) {
	indegree := make([]int, numComp)
	for _, succs := range edges {
		for _, s := range succs {
			indegree[s]++
		}
	}

	var roots []int
	for i := 0; i < numComp; i++ {
		if indegree[i] == 0 {
			roots = append(roots, i)
		}
	}
	if len(roots) == 0 {
		return nil, errInconsistent("DAG contains a cycle: it has no root (every component has an incoming transition)")
	}

	order := make([]int, 0, numComp)
	queue := append([]int(nil), roots...)
	remaining := append([]int(nil), indegree...)

	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		order = append(order, n)
		for _, s := range edges[n] {
			remaining[s]--
			if remaining[s] == 0 {
				queue = append(queue, s)
			}
		}
	}

	if len(order) != numComp {
		return nil, errInconsistent("DAG contains a cycle")
	}

	oldToNew := make([]int, numComp)
	for newIdx, oldIdx := range order {
		oldToNew[oldIdx] = newIdx
	}
	return oldToNew, nil
}

// propagateLambda derives lambda_c for every component from the DAG and the
// external arrival rate: lambda_root = lambda; lambda_i = sum_j T[i][j]*lambda_j.
// Components must already be in topological order (producers before
// consumers) so a single forward pass suffices.
func (d *DAG) propagateLambda(lambda float64) ([]float64, error) {
	n := len(d.T)
	lambdas := make([]float64, n)
	lambdas[d.Root()] = lambda

	for i := 0; i < n; i++ {
		if i == d.Root() {
			continue
		}
		var sum float64
		for j := 0; j < n; j++ {
			if j >= i {
				continue // producers must have a strictly smaller index
			}
			sum += d.T[i][j] * lambdas[j]
		}
		lambdas[i] = sum
	}

	return lambdas, nil
}

// ValidateTopology checks the testable property of spec §8.7: for every
// non-zero T[i][j], i > j given a single root.
func (d *DAG) ValidateTopology() error {
	n := len(d.T)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if d.T[i][j] != 0 && i <= j {
				return fmt.Errorf("sysmodel: DAG not topologically ordered: T[%d][%d] nonzero", i, j)
			}
		}
	}
	return nil
}
