// core/cluster/dbscan.go
package cluster

// Class is the membership kind of one record after clustering.
type Class int

const (
	Noise Class = iota
	Core
	Edge
)

func (c Class) String() string {
	switch c {
	case Core:
		return "core"
	case Edge:
		return "edge"
	default:
		return "noise"
	}
}

// Assignment labels one record: Cluster is meaningful for Core and Edge
// members only.
type Assignment struct {
	Class   Class
	Cluster int
}

// Run performs density clustering over a precomputed symmetric distance
// matrix. A record is core when at least minPoints *other* records lie
// within eps; clusters grow by expanding from core points, non-core
// reachable points become edges, the rest is noise. Cluster ids are dense
// from 0 in discovery order.
func Run(dist [][]float64, eps float64, minPoints int) []Assignment {
	n := len(dist)
	out := make([]Assignment, n)
	for i := range out {
		out[i] = Assignment{Class: Noise, Cluster: -1}
	}

	neighbors := func(i int) []int {
		var nb []int
		for j := 0; j < n; j++ {
			if j != i && dist[i][j] <= eps {
				nb = append(nb, j)
			}
		}
		return nb
	}

	visited := make([]bool, n)
	cluster := 0
	for i := 0; i < n; i++ {
		if visited[i] {
			continue
		}
		visited[i] = true
		nb := neighbors(i)
		if len(nb) < minPoints {
			continue // stays noise unless later reached from a core point
		}
		out[i] = Assignment{Class: Core, Cluster: cluster}
		queue := append([]int(nil), nb...)
		for len(queue) > 0 {
			j := queue[0]
			queue = queue[1:]
			if out[j].Class == Noise {
				out[j] = Assignment{Class: Edge, Cluster: cluster}
			}
			if visited[j] {
				continue
			}
			visited[j] = true
			jnb := neighbors(j)
			if len(jnb) >= minPoints {
				out[j] = Assignment{Class: Core, Cluster: cluster}
				queue = append(queue, jnb...)
			}
		}
		cluster++
	}
	return out
}
