package cluster

// unionFind is a disjoint-set structure sized for dendrogram bookkeeping:
// original points occupy 0..n-1 and each merge step claims the next ID
// starting at n, so 2n-1 slots cover a full agglomeration.
type unionFind struct {
	parent []int
	size   []int
	next   int // ID assigned to the next merge
}

func newUnionFind(n int) *unionFind {
	total := 2*n - 1
	if total < 1 {
		total = 1
	}
	parent := make([]int, total)
	size := make([]int, total)
	for i := range parent {
		parent[i] = -1
	}
	for i := 0; i < n; i++ {
		size[i] = 1
	}
	return &unionFind{parent: parent, size: size, next: n}
}

// find returns the root of x's set, compressing the path on the way.
func (u *unionFind) find(x int) int {
	root := x
	for u.parent[root] != -1 {
		root = u.parent[root]
	}
	for u.parent[x] != -1 {
		x, u.parent[x] = u.parent[x], root
	}
	return root
}

// merge joins the sets rooted at a and b under a fresh dendrogram ID and
// returns that ID and the merged size. a and b must be roots.
func (u *unionFind) merge(a, b int) (id, size int) {
	id = u.next
	u.next++
	size = u.size[a] + u.size[b]
	u.size[id] = size
	u.parent[a] = id
	u.parent[b] = id
	return id, size
}
