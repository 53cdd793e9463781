package heuristics

import (
	"lintang/tspanneal/pkg/datastructure"
	"lintang/tspanneal/pkg/util"
)

// https://en.wikipedia.org/wiki/2-opt
// TwoOpt polishes a closed tour: it keeps reversing the segment tour[i..j]
// while doing so shortens the cycle, and stops at a local optimum. The input
// slice is left untouched.
func TwoOpt(graph *datastructure.Graph, tour []int) ([]int, datastructure.Cost) {
	bestRoute := make([]int, len(tour))
	copy(bestRoute, tour)
	n := len(bestRoute)
	if n < 4 {
		return bestRoute, graph.DistanceCycle(bestRoute)
	}

	improved := true
	for improved {
		improved = false
		for swapFirst := 0; swapFirst < n-1; swapFirst++ {
			for swapLast := swapFirst + 1; swapLast < n; swapLast++ {
				if swapFirst == 0 && swapLast == n-1 {
					continue
				}
				beforeStart := bestRoute[(swapFirst+n-1)%n]
				start := bestRoute[swapFirst]
				end := bestRoute[swapLast]
				afterEnd := bestRoute[(swapLast+1)%n]

				before := datastructure.Cost(graph.Distance(beforeStart, start)) + datastructure.Cost(graph.Distance(end, afterEnd))
				after := datastructure.Cost(graph.Distance(beforeStart, end)) + datastructure.Cost(graph.Distance(start, afterEnd))
				if after < before {
					util.ReverseG(bestRoute[swapFirst : swapLast+1])
					improved = true
				}
			}
		}
	}
	return bestRoute, graph.DistanceCycle(bestRoute)
}
