/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package dedupe

// disjointSet is a classic union-find over document indices with path
// compression and union by rank. Group membership is deterministic and
// independent of the order unions are applied.
type disjointSet struct {
	parent []int
	rank   []int
}

func newDisjointSet(n int) *disjointSet {
	ds := &disjointSet{
		parent: make([]int, n),
		rank:   make([]int, n),
	}
	for i := range ds.parent {
		ds.parent[i] = i
	}
	return ds
}

func (ds *disjointSet) find(x int) int {
	for ds.parent[x] != x {
		ds.parent[x] = ds.parent[ds.parent[x]]
		x = ds.parent[x]
	}
	return x
}

func (ds *disjointSet) union(a, b int) {
	ra, rb := ds.find(a), ds.find(b)
	if ra == rb {
		return
	}
	switch {
	case ds.rank[ra] < ds.rank[rb]:
		ds.parent[ra] = rb
	case ds.rank[ra] > ds.rank[rb]:
		ds.parent[rb] = ra
	default:
		ds.parent[rb] = ra
		ds.rank[ra]++
	}
}

// groups returns the members of each non-singleton set, keyed by root.
func (ds *disjointSet) groups() map[int][]int {
	out := map[int][]int{}
	for i := range ds.parent {
		out[ds.find(i)] = append(out[ds.find(i)], i)
	}
	for root, members := range out {
		if len(members) < 2 {
			delete(out, root)
		}
	}
	return out
}
