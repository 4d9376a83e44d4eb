// core/tree/upgma.go
package tree

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Node is one vertex of a binary merge tree. Leaves carry a record label;
// internal nodes carry the merge height and exactly two children. Nodes are
// exclusively owned by their parent.
type Node struct {
	Label  string
	Height float64
	Left   *Node
	Right  *Node

	leaves int // memoized leaf count
}

// Leaves returns the number of leaves under n.
func (n *Node) Leaves() int {
	if n.leaves == 0 {
		if n.Left == nil && n.Right == nil {
			n.leaves = 1
		} else {
			n.leaves = n.Left.Leaves() + n.Right.Leaves()
		}
	}
	return n.leaves
}

// Build agglomerates a distance matrix into a binary tree with average
// linkage: the closest active pair merges (ties break on the smaller index
// pair), and the merged cluster's distance to every other cluster is the
// unweighted mean of the two replaced rows. A single record yields a bare
// leaf; two records yield one root with both leaves at half their distance.
func Build(dist [][]float64, labels []string) (*Node, error) {
	n := len(labels)
	if n == 0 {
		return nil, errors.New("cannot build a tree with no records")
	}
	if len(dist) != n {
		return nil, errors.Errorf("distance matrix is %dx%d but there are %d labels", len(dist), len(dist), n)
	}

	total := 2*n - 1
	nodes := make([]*Node, n, total)
	for i, l := range labels {
		nodes[i] = &Node{Label: l, leaves: 1}
	}

	// working copy; rows for merged clusters are appended
	d := make([][]float64, n, total)
	for i := range dist {
		d[i] = append(make([]float64, 0, total), dist[i]...)
	}

	active := make([]int, n)
	for i := range active {
		active[i] = i
	}

	for len(active) > 1 {
		bi, bj := 0, 1
		best := d[active[0]][active[1]]
		for ai := 0; ai < len(active); ai++ {
			for aj := ai + 1; aj < len(active); aj++ {
				if v := d[active[ai]][active[aj]]; v < best {
					best, bi, bj = v, ai, aj
				}
			}
		}
		i, j := active[bi], active[bj]

		parent := &Node{Height: best, Left: nodes[i], Right: nodes[j]}
		parent.leaves = nodes[i].Leaves() + nodes[j].Leaves()
		nodes = append(nodes, parent)
		idx := len(nodes) - 1

		row := make([]float64, idx+1)
		for _, k := range active {
			if k == i || k == j {
				continue
			}
			row[k] = (d[i][k] + d[j][k]) / 2
		}
		for k := range d {
			d[k] = append(d[k], row[k])
		}
		d = append(d, row)

		// drop j, replace i with the merged cluster
		active = append(active[:bj], active[bj+1:]...)
		active[bi] = idx
	}
	return nodes[len(nodes)-1], nil
}

// Bracket renders the tree as bracket text, leaves as labels and each
// child of a merge carrying half the merge distance as branch length.
func (n *Node) Bracket() string {
	var b strings.Builder
	n.write(&b)
	return b.String()
}

func (n *Node) write(b *strings.Builder) {
	if n.Left == nil && n.Right == nil {
		b.WriteString(n.Label)
		return
	}
	bl := strconv.FormatFloat(n.Height/2, 'g', -1, 64)
	b.WriteByte('(')
	n.Left.write(b)
	b.WriteByte(':')
	b.WriteString(bl)
	b.WriteByte(',')
	n.Right.write(b)
	b.WriteByte(':')
	b.WriteString(bl)
	b.WriteByte(')')
}
