package layout

import "sort"

// ReadingOrder topologically sorts blocks using "is above and overlaps
// horizontally" and "is to the left of and overlaps vertically" edges
// (spec.md section 4.5 step 4), breaking ties by Y then X. Lines within
// each block are already top-to-bottom, left-to-right from ClusterLines
// and XYCut.
func ReadingOrder(blocks []*Block) []*Block {
	n := len(blocks)
	if n <= 1 {
		return blocks
	}

	// edges[i] holds the indices of blocks that must come after i.
	edges := make([][]int, n)
	indegree := make([]int, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			if precedes(blocks[i], blocks[j]) {
				edges[i] = append(edges[i], j)
				indegree[j]++
			}
		}
	}

	var ready []int
	for i := 0; i < n; i++ {
		if indegree[i] == 0 {
			ready = append(ready, i)
		}
	}
	sortByPosition(ready, blocks)

	ordered := make([]*Block, 0, n)
	visited := make([]bool, n)
	for len(ordered) < n {
		if len(ready) == 0 {
			// A cycle (or disconnected remainder): fall back to
			// position order for whatever is left, rather than
			// stalling with an incomplete result.
			var rest []int
			for i := 0; i < n; i++ {
				if !visited[i] {
					rest = append(rest, i)
				}
			}
			sortByPosition(rest, blocks)
			for _, i := range rest {
				ordered = append(ordered, blocks[i])
				visited[i] = true
			}
			break
		}

		i := ready[0]
		ready = ready[1:]
		if visited[i] {
			continue
		}
		visited[i] = true
		ordered = append(ordered, blocks[i])

		for _, j := range edges[i] {
			indegree[j]--
			if indegree[j] == 0 && !visited[j] {
				ready = append(ready, j)
			}
		}
		sortByPosition(ready, blocks)
	}
	return ordered
}

// precedes reports whether a must be read before b: a is above b and
// they overlap horizontally, or a is to the left of b and they overlap
// vertically.
func precedes(a, b *Block) bool {
	if a.Y0 >= b.Y1 && overlapsX(a, b) {
		return true
	}
	if a.X1 <= b.X0 && overlapsY(a, b) {
		return true
	}
	return false
}

func overlapsX(a, b *Block) bool {
	return a.X0 < b.X1 && b.X0 < a.X1
}

func overlapsY(a, b *Block) bool {
	return a.Y0 < b.Y1 && b.Y0 < a.Y1
}

func sortByPosition(indices []int, blocks []*Block) {
	sort.Slice(indices, func(i, j int) bool {
		bi, bj := blocks[indices[i]], blocks[indices[j]]
		if bi.Y1 != bj.Y1 {
			return bi.Y1 > bj.Y1
		}
		return bi.X0 < bj.X0
	})
}
