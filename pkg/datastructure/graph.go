package datastructure

import (
	"fmt"
	"math"
	"strings"
)

// Weight is the cost of a single edge. Zero means "no edge" until
// SetZeroToMax replaces it with SentinelWeight.
type Weight uint32

// Cost is an accumulated path or cycle weight. It is wider than Weight so
// summing n sentinel edges cannot wrap.
type Cost uint64

const SentinelWeight Weight = math.MaxUint32

// Graph is an undirected weighted graph over vertex ids 1..n stored as one
// flat row-major (n+1)*(n+1) buffer. Row and column 0 are unused.
type Graph struct {
	n      int
	stride int
	matrix []Weight
}

type Edge struct {
	From   int
	To     int
	Weight Weight
}

func NewGraph(n int) *Graph {
	stride := n + 1
	return &Graph{
		n:      n,
		stride: stride,
		matrix: make([]Weight, stride*stride),
	}
}

func (g *Graph) idx(i, j int) int {
	return i*g.stride + j
}

func (g *Graph) NumberOfVertex() int {
	return g.n
}

// SetEdge stores w in both (v1,v2) and (v2,v1).
func (g *Graph) SetEdge(v1, v2 int, w Weight) {
	g.matrix[g.idx(v1, v2)] = w
	g.matrix[g.idx(v2, v1)] = w
}

// AddEdgeIfNotExists sets the edge only when the pair has no weight yet and
// reports whether it did.
func (g *Graph) AddEdgeIfNotExists(v1, v2 int, w Weight) bool {
	if g.matrix[g.idx(v1, v2)] != 0 {
		return false
	}
	g.SetEdge(v1, v2, w)
	return true
}

func (g *Graph) WeightAt(v1, v2 int) Weight {
	return g.matrix[g.idx(v1, v2)]
}

func (g *Graph) Distance(v1, v2 int) Weight {
	return g.matrix[g.idx(v1, v2)]
}

// IsConnected is true iff the stored weight differs from zero. After
// SetZeroToMax it holds for every pair off the diagonal.
func (g *Graph) IsConnected(v1, v2 int) bool {
	return g.matrix[g.idx(v1, v2)] != 0
}

func (g *Graph) Connected(v1, v2 int) bool {
	return g.IsConnected(v1, v2)
}

// SetZeroToMax replaces every zero off-diagonal weight with SentinelWeight so
// the graph behaves as complete. Callers apply it once, before annealing.
func (g *Graph) SetZeroToMax() {
	for i := 1; i <= g.n; i++ {
		for j := 1; j <= g.n; j++ {
			if i != j && g.matrix[g.idx(i, j)] == 0 {
				g.matrix[g.idx(i, j)] = SentinelWeight
			}
		}
	}
}

// DistanceVec is the open path cost of the tour. Tours shorter than two
// vertices cost 0.
func (g *Graph) DistanceVec(tour []int) Cost {
	if len(tour) < 2 {
		return 0
	}
	var sum Cost
	prev := tour[0]
	for _, v := range tour[1:] {
		sum += Cost(g.matrix[g.idx(prev, v)])
		prev = v
	}
	return sum
}

// DistanceCycle is DistanceVec plus the closing edge from the last vertex
// back to the first.
func (g *Graph) DistanceCycle(tour []int) Cost {
	if len(tour) == 0 {
		return 0
	}
	return g.DistanceVec(tour) + Cost(g.matrix[g.idx(tour[len(tour)-1], tour[0])])
}

// Edges lists every strictly lower-triangular pair (i > j) that carries a
// real weight. Sentinel cells count as "no edge".
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, 0, g.n)
	for i := 1; i <= g.n; i++ {
		for j := 1; j < i; j++ {
			w := g.matrix[g.idx(i, j)]
			if w == 0 || w == SentinelWeight {
				continue
			}
			edges = append(edges, Edge{From: i, To: j, Weight: w})
		}
	}
	return edges
}

// Format renders the 1..n block of the matrix, one row per line, with "-" in
// place of missing and sentinel cells.
func (g *Graph) Format() string {
	cells := make([][]string, g.n)
	width := 1
	for i := 1; i <= g.n; i++ {
		row := make([]string, g.n)
		for j := 1; j <= g.n; j++ {
			w := g.matrix[g.idx(i, j)]
			if i != j && (w == 0 || w == SentinelWeight) {
				row[j-1] = "-"
			} else {
				row[j-1] = fmt.Sprint(w)
			}
			if len(row[j-1]) > width {
				width = len(row[j-1])
			}
		}
		cells[i-1] = row
	}

	var sb strings.Builder
	for _, row := range cells {
		sb.WriteString("[")
		for j, c := range row {
			if j > 0 {
				sb.WriteString(" ")
			}
			sb.WriteString(fmt.Sprintf("%*s", width, c))
		}
		sb.WriteString("]\n")
	}
	return sb.String()
}

func (g *Graph) String() string {
	return g.Format()
}

// IdentityTour returns 1..n.
func IdentityTour(n int) []int {
	tour := make([]int, n)
	for i := range tour {
		tour[i] = i + 1
	}
	return tour
}

// IsPermutation reports whether tour visits every vertex 1..n exactly once.
func IsPermutation(tour []int, n int) bool {
	if len(tour) != n {
		return false
	}
	seen := make([]bool, n+1)
	for _, v := range tour {
		if v < 1 || v > n || seen[v] {
			return false
		}
		seen[v] = true
	}
	return true
}

// RenderTour formats a tour the way result lines print it: "[1 - 2 - 3]".
func RenderTour(tour []int) string {
	parts := make([]string, len(tour))
	for i, v := range tour {
		parts[i] = fmt.Sprint(v)
	}
	return "[" + strings.Join(parts, " - ") + "]"
}
